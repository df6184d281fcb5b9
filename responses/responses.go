package responses

import (
	"github.com/foomo/checkpointstore/pkg/codec"
)

// Status - result of an operation without payload
type Status struct {
	Success bool `json:"success"`
}

// Checkpoint - a restored checkpoint
type Checkpoint struct {
	TopologyName string               `json:"topologyName"`
	CheckpointID string               `json:"checkpointId"`
	Component    string               `json:"component"`
	TaskID       int32                `json:"taskId"`
	State        *codec.InstanceState `json:"state"`
}

// List - checkpoint ids of a topology in ascending order
type List struct {
	TopologyName  string   `json:"topologyName"`
	CheckpointIDs []string `json:"checkpointIds"`
}
