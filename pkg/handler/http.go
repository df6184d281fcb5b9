package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foomo/checkpointstore/pkg/checkpoint"
	"github.com/foomo/checkpointstore/pkg/metrics"
	"github.com/foomo/checkpointstore/requests"
	"github.com/foomo/checkpointstore/responses"
	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// HeaderRequestID is read from incoming requests and echoed on the reply.
const HeaderRequestID = "X-Request-ID"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// error codes of the reply
const (
	CodeUnknownRoute = iota + 1
	CodeInvalidJSON
	CodeInternal
	CodeNotInitialized
	CodeRestore
	CodeInvalidRequest
)

type (
	// Storage is served over http
	Storage interface {
		checkpoint.Storage
		List(ctx context.Context, topologyName string) ([]string, error)
	}
	HTTP struct {
		l       *zap.Logger
		path    string
		storage Storage
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP serves the store, restore, dispose and list routes of storage below the base path
func NewHTTP(l *zap.Logger, storage Storage, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:       l.Named("http"),
		path:    "/checkpoints",
		storage: storage,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if r.Body == nil {
		httputils.BadRequestServerError(h.l, w, r, errors.New("empty request body"))
		return
	}

	bytes, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
		return
	}

	requestID := r.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	l := h.l.With(zap.String("request_id", requestID))

	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))
	status, reply, errReply := h.handleRequest(r.Context(), l, route, bytes)
	if errReply != nil {
		httputils.ServerError(l, w, r, http.StatusInternalServerError, errReply)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderRequestID, requestID)
	w.WriteHeader(status)
	_, _ = w.Write(reply)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) handleRequest(ctx context.Context, l *zap.Logger, route Route, jsonBytes []byte) (int, []byte, error) {
	start := time.Now()

	reply, apiErr := h.executeRequest(ctx, route, jsonBytes)
	result := "success"
	status := http.StatusOK
	if apiErr != nil {
		result = "error"
		status = apiErr.Status
		l.Error("request failed", zap.String("route", string(route)), zap.Error(apiErr))
		reply = apiErr
	}

	metrics.ServiceRequestCounter.WithLabelValues(string(route), result).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result).Observe(time.Since(start).Seconds())

	bytes, err := h.encodeReply(reply)
	return status, bytes, err
}

func (h *HTTP) executeRequest(ctx context.Context, route Route, jsonBytes []byte) (any, *responses.Error) {
	switch route {
	case RouteStore:
		req := &requests.Store{}
		if err := json.Unmarshal(jsonBytes, req); err != nil {
			return nil, invalidJSON(err)
		}
		if req.State == nil {
			return nil, responses.NewError(http.StatusBadRequest, CodeInvalidRequest, "missing state")
		}
		if err := h.storage.Store(ctx, checkpoint.NewCheckpoint(req.TopologyName, req.Instance, req.State)); err != nil {
			return nil, storageError(err)
		}
		return responses.Status{Success: true}, nil
	case RouteRestore:
		req := &requests.Restore{}
		if err := json.Unmarshal(jsonBytes, req); err != nil {
			return nil, invalidJSON(err)
		}
		c, err := h.storage.Restore(ctx, req.TopologyName, req.CheckpointID, req.Instance)
		if err != nil {
			return nil, storageError(err)
		}
		return responses.Checkpoint{
			TopologyName: c.TopologyName,
			CheckpointID: c.CheckpointID,
			Component:    c.Component,
			TaskID:       c.TaskID,
			State:        c.State,
		}, nil
	case RouteDispose:
		req := &requests.Dispose{}
		if err := json.Unmarshal(jsonBytes, req); err != nil {
			return nil, invalidJSON(err)
		}
		if err := h.storage.Dispose(ctx, req.TopologyName, req.OldestCheckpointIDToKeep, req.DeleteAll); err != nil {
			return nil, storageError(err)
		}
		return responses.Status{Success: true}, nil
	case RouteList:
		req := &requests.List{}
		if err := json.Unmarshal(jsonBytes, req); err != nil {
			return nil, invalidJSON(err)
		}
		ids, err := h.storage.List(ctx, req.TopologyName)
		if err != nil {
			return nil, storageError(err)
		}
		return responses.List{TopologyName: req.TopologyName, CheckpointIDs: ids}, nil
	default:
		return nil, responses.NewError(http.StatusNotFound, CodeUnknownRoute, "unknown route: "+string(route))
	}
}

// encodeReply takes an interface and encodes it as JSON
// it returns the resulting JSON and a marshalling error
func (h *HTTP) encodeReply(reply any) (bytes []byte, err error) {
	bytes, err = json.Marshal(map[string]any{
		"reply": reply,
	})
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
	}
	return
}

func invalidJSON(err error) *responses.Error {
	return responses.NewError(http.StatusBadRequest, CodeInvalidJSON, "could not read incoming json "+err.Error())
}

func storageError(err error) *responses.Error {
	switch {
	case errors.Is(err, checkpoint.ErrInitialization):
		return responses.NewError(http.StatusServiceUnavailable, CodeNotInitialized, err.Error())
	case errors.Is(err, checkpoint.ErrRestoreDecode):
		return responses.NewError(http.StatusNotFound, CodeRestore, err.Error())
	default:
		return responses.NewError(http.StatusInternalServerError, CodeInternal, "internal error "+err.Error())
	}
}
