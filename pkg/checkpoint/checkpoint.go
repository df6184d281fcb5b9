// Package checkpoint stores, restores and garbage collects the per task
// state snapshots of stream processing topologies.
//
// Checkpoints are laid out as root/topology/checkpointID/component/taskID.
// Checkpoint ids are compared as strings and their lexical order is taken
// as recency order: callers must assign ids that sort in time order, e.g.
// zero padded counters or timestamps.
package checkpoint

import (
	"context"

	"github.com/foomo/checkpointstore/pkg/codec"
)

type (
	// InstanceInfo identifies a task within its component.
	InstanceInfo struct {
		TaskID         int32  `json:"taskId"`
		ComponentIndex int32  `json:"componentIndex"`
		ComponentName  string `json:"componentName"`
	}
	// Instance identifies a running task instance.
	Instance struct {
		InstanceID string       `json:"instanceId"`
		StmgrID    string       `json:"stmgrId"`
		Info       InstanceInfo `json:"info"`
	}
	// Checkpoint is the state of one task at one checkpoint.
	Checkpoint struct {
		TopologyName string
		CheckpointID string
		Component    string
		TaskID       int32
		State        *codec.InstanceState
	}
	// Storage persists checkpoints. Construction initializes the storage.
	Storage interface {
		// Store persists the checkpoint, replacing any checkpoint with the same identity.
		Store(ctx context.Context, checkpoint *Checkpoint) error
		// Restore loads the checkpoint of the given instance.
		Restore(ctx context.Context, topologyName, checkpointID string, instance Instance) (*Checkpoint, error)
		// Dispose removes every checkpoint older than oldestCheckpointIDToKeep,
		// or the whole topology if deleteAll is set.
		Dispose(ctx context.Context, topologyName, oldestCheckpointIDToKeep string, deleteAll bool) error
		// Close releases the storage.
		Close() error
	}
)

// NewCheckpoint binds the state of an instance to a topology.
// The checkpoint id is taken from the state.
func NewCheckpoint(topologyName string, instance Instance, state *codec.InstanceState) *Checkpoint {
	c := &Checkpoint{
		TopologyName: topologyName,
		Component:    instance.Info.ComponentName,
		TaskID:       instance.Info.TaskID,
		State:        state,
	}
	if state != nil {
		c.CheckpointID = state.CheckpointID
	}
	return c
}

// Payload encodes the checkpoint state.
func (c *Checkpoint) Payload(cdc codec.Codec) ([]byte, error) {
	return cdc.Marshal(c.State)
}
