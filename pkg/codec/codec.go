package codec

import (
	"github.com/pkg/errors"
)

// ErrMalformed is returned when bytes can not be decoded into an InstanceState.
var ErrMalformed = errors.New("malformed instance state")

type (
	// InstanceState is the state snapshot of one task instance at one checkpoint.
	// Namespace maps a state key to its serialized value.
	InstanceState struct {
		CheckpointID string            `json:"checkpointId"`
		Namespace    map[string][]byte `json:"namespace,omitempty"`
	}
	// Codec encodes and decodes instance states to and from bytes.
	Codec interface {
		Name() string
		Marshal(state *InstanceState) ([]byte, error)
		Unmarshal(data []byte) (*InstanceState, error)
	}
)

const (
	NameProto = "proto"
	NameJSON  = "json"
)

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case NameProto, "":
		return Proto{}, nil
	case NameJSON:
		return JSON{}, nil
	default:
		return nil, errors.Errorf("unknown codec: %s (supported: %s, %s)", name, NameProto, NameJSON)
	}
}
