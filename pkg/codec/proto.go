package codec

import (
	"sort"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// field numbers of the instance state message
const (
	fieldCheckpointID protowire.Number = 1
	fieldNamespace    protowire.Number = 2

	fieldEntryKey   protowire.Number = 1
	fieldEntryValue protowire.Number = 2
)

// Proto encodes instance states in the protobuf wire format:
//
//	message InstanceState {
//	  string checkpoint_id = 1;
//	  map<string, bytes> namespace = 2;
//	}
type Proto struct{}

func (Proto) Name() string {
	return NameProto
}

func (Proto) Marshal(state *InstanceState) ([]byte, error) {
	if state == nil {
		return nil, errors.New("instance state must not be nil")
	}

	var b []byte
	if state.CheckpointID != "" {
		b = protowire.AppendTag(b, fieldCheckpointID, protowire.BytesType)
		b = protowire.AppendString(b, state.CheckpointID)
	}

	keys := make([]string, 0, len(state.Namespace))
	for key := range state.Namespace {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldEntryKey, protowire.BytesType)
		entry = protowire.AppendString(entry, key)
		entry = protowire.AppendTag(entry, fieldEntryValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, state.Namespace[key])

		b = protowire.AppendTag(b, fieldNamespace, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b, nil
}

func (Proto) Unmarshal(data []byte) (*InstanceState, error) {
	state := &InstanceState{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		data = data[n:]

		switch {
		case num == fieldCheckpointID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			state.CheckpointID = v
			data = data[n:]
		case num == fieldNamespace && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			key, value, err := unmarshalEntry(v)
			if err != nil {
				return nil, err
			}
			if state.Namespace == nil {
				state.Namespace = map[string][]byte{}
			}
			state.Namespace[key] = value
			data = data[n:]
		case num == fieldCheckpointID || num == fieldNamespace:
			return nil, errors.Wrapf(ErrMalformed, "unexpected wire type %d for field %d", typ, num)
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
		}
	}
	return state, nil
}

func unmarshalEntry(data []byte) (key string, value []byte, err error) {
	value = []byte{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		data = data[n:]

		switch {
		case num == fieldEntryKey && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return "", nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			key = v
			data = data[n:]
		case num == fieldEntryValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return "", nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			value = append([]byte{}, v...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return "", nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
		}
	}
	return key, value, nil
}
