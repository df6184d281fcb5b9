package client

import (
	"context"
	"net/http"
	"time"

	"github.com/foomo/checkpointstore/pkg/checkpoint"
	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/foomo/checkpointstore/pkg/handler"
	"github.com/foomo/checkpointstore/pkg/utils"
	"github.com/foomo/checkpointstore/requests"
	"github.com/foomo/checkpointstore/responses"
	"github.com/pkg/errors"
)

// Client a checkpoint server client
type Client struct {
	t transport
}

// New constructs a new client
func New(t transport) *Client {
	return &Client{
		t: t,
	}
}

// NewHTTPClient constructs a new client using the http transport
func NewHTTPClient(server string) (*Client, error) {
	if !utils.IsValidURL(server) {
		return nil, errors.Errorf("invalid server url: %q", server)
	}
	return New(NewHTTPTransport(server, &http.Client{Timeout: 30 * time.Second})), nil
}

// Store the state of an instance
func (c *Client) Store(ctx context.Context, topologyName string, instance checkpoint.Instance, state *codec.InstanceState) error {
	response := &responses.Status{}
	if err := c.t.call(ctx, handler.RouteStore, &requests.Store{
		TopologyName: topologyName,
		Instance:     instance,
		State:        state,
	}, response); err != nil {
		return err
	}
	if !response.Success {
		return errors.New("store was not successful")
	}
	return nil
}

// Restore the state of an instance at a checkpoint
func (c *Client) Restore(ctx context.Context, topologyName, checkpointID string, instance checkpoint.Instance) (*responses.Checkpoint, error) {
	response := &responses.Checkpoint{}
	if err := c.t.call(ctx, handler.RouteRestore, &requests.Restore{
		TopologyName: topologyName,
		CheckpointID: checkpointID,
		Instance:     instance,
	}, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Dispose checkpoints older than oldestCheckpointIDToKeep or the whole topology
func (c *Client) Dispose(ctx context.Context, topologyName, oldestCheckpointIDToKeep string, deleteAll bool) error {
	response := &responses.Status{}
	if err := c.t.call(ctx, handler.RouteDispose, &requests.Dispose{
		TopologyName:             topologyName,
		OldestCheckpointIDToKeep: oldestCheckpointIDToKeep,
		DeleteAll:                deleteAll,
	}, response); err != nil {
		return err
	}
	if !response.Success {
		return errors.New("dispose was not successful")
	}
	return nil
}

// List the checkpoint ids of a topology
func (c *Client) List(ctx context.Context, topologyName string) ([]string, error) {
	response := &responses.List{}
	if err := c.t.call(ctx, handler.RouteList, &requests.List{TopologyName: topologyName}, response); err != nil {
		return nil, err
	}
	return response.CheckpointIDs, nil
}

// Close releases the transport
func (c *Client) Close() {
	c.t.shutdown()
}
