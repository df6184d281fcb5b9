package checkpoint

import (
	"strconv"
	"strings"

	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Keys of the flat configuration map handed to storage plugins by the runtime.
const (
	ConfigKeyRootPath       = "heron.statefulstorage.localfs.root.path"
	ConfigKeyMaxCheckpoints = "heron.statefulstorage.localfs.max.checkpoints"
	ConfigKeyCodec          = "heron.statefulstorage.localfs.codec"
)

const DefaultMaxCheckpoints = 10

// Config configures a LocalFS storage.
type Config struct {
	// RootPath is the directory holding all topologies. A leading ~ is
	// expanded to the home directory of the current user.
	RootPath string
	// MaxCheckpoints is the number of checkpoint ids kept per topology
	// when storing. Zero means DefaultMaxCheckpoints, a negative value
	// deletes every older checkpoint id on each store.
	MaxCheckpoints int
	// Codec names the payload codec, see codec.ByName.
	Codec string
}

func DefaultConfig() Config {
	return Config{
		MaxCheckpoints: DefaultMaxCheckpoints,
		Codec:          codec.NameProto,
	}
}

// ConfigFromMap reads a Config from the flat key value map a runtime passes
// to its storage plugins. Missing or mistyped values keep their default.
func ConfigFromMap(conf map[string]any) Config {
	c := DefaultConfig()
	if v, ok := conf[ConfigKeyRootPath].(string); ok {
		c.RootPath = v
	}
	if v, ok := intValue(conf[ConfigKeyMaxCheckpoints]); ok {
		c.MaxCheckpoints = v
	}
	if v, ok := conf[ConfigKeyCodec].(string); ok {
		c.Codec = v
	}
	return c
}

// ExpandedRootPath returns the root path with a leading ~ expanded.
func (c Config) ExpandedRootPath() (string, error) {
	if c.RootPath == "" {
		return "", errors.WithMessage(ErrInitialization, "root path is not configured")
	}
	path, err := homedir.Expand(c.RootPath)
	if err != nil {
		return "", errors.WithMessagef(ErrInitialization, "failed to expand root path %s: %s", c.RootPath, err)
	}
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		path = trimmed
	}
	return path, nil
}

func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i, true
		}
	}
	return 0, false
}
