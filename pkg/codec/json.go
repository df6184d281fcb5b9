package codec

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON encodes instance states as JSON documents.
type JSON struct{}

func (JSON) Name() string {
	return NameJSON
}

func (JSON) Marshal(state *InstanceState) ([]byte, error) {
	if state == nil {
		return nil, errors.New("instance state must not be nil")
	}
	return json.Marshal(state)
}

func (JSON) Unmarshal(data []byte) (*InstanceState, error) {
	state := &InstanceState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return state, nil
}
