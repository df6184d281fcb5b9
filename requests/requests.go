package requests

import (
	"github.com/foomo/checkpointstore/pkg/checkpoint"
	"github.com/foomo/checkpointstore/pkg/codec"
)

// Store - persist the state of an instance
type Store struct {
	TopologyName string               `json:"topologyName"`
	Instance     checkpoint.Instance  `json:"instance"`
	State        *codec.InstanceState `json:"state"`
}

// Restore - load the state of an instance at a checkpoint
type Restore struct {
	TopologyName string              `json:"topologyName"`
	CheckpointID string              `json:"checkpointId"`
	Instance     checkpoint.Instance `json:"instance"`
}

// Dispose - clean up checkpoints of a topology
type Dispose struct {
	TopologyName string `json:"topologyName"`
	// checkpoints lexically less than this one are deleted
	OldestCheckpointIDToKeep string `json:"oldestCheckpointIdToKeep"`
	// delete the whole topology
	DeleteAll bool `json:"deleteAll"`
}

// List - list the checkpoint ids of a topology
type List struct {
	TopologyName string `json:"topologyName"`
}
