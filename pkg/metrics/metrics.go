package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "checkpointstore"

	metricLabelOperation = "operation"
	metricLabelStatus    = "status"
	metricLabelPolicy    = "policy"
	metricLabelRoute     = "route"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// OperationCounter counts store, restore and dispose calls by result
	OperationCounter = newCounterVec(
		"operation_count",
		"Count of checkpoint storage operations",
		metricLabelOperation, metricLabelStatus,
	)
	// OperationDuration observe the duration of store, restore and dispose calls
	OperationDuration = newSummaryVec(
		"operation_duration_seconds",
		"Seconds spent in a checkpoint storage operation",
		metricLabelOperation, metricLabelStatus,
	)
	// PrunedCheckpointsCounter counts checkpoint ids deleted by a retention policy
	PrunedCheckpointsCounter = newCounterVec(
		"pruned_checkpoints_count",
		"Number of checkpoint ids deleted by retention",
		metricLabelPolicy,
	)
	// StoredBytesCounter counts payload bytes written to the checkpoint files
	StoredBytesCounter = newCounterVec(
		"stored_bytes_count",
		"Number of payload bytes written to checkpoint files",
	)
	// ServiceRequestCounter count the number of requests for each route
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each route",
		metricLabelRoute, metricLabelStatus,
	)
	// ServiceRequestDuration observe the duration of requests for each route
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to unmarshal requests, execute a route and marshal its reponses",
		metricLabelRoute, metricLabelStatus,
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
