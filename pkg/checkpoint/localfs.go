package checkpoint

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/foomo/checkpointstore/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// LocalFS stores checkpoints as files below a root directory.
	// Writes are best effort: no fsync, no atomic rename.
	LocalFS struct {
		l              *zap.Logger
		fs             filesystem.FileSystem
		pruner         *Pruner
		codec          codec.Codec
		rootPath       string
		rootErr        error
		maxCheckpoints int
	}
	Option func(*LocalFS)
)

var _ Storage = (*LocalFS)(nil)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithFileSystem replaces the local filesystem. The storage takes ownership
// and closes it on Close.
func WithFileSystem(v filesystem.FileSystem) Option {
	return func(o *LocalFS) {
		o.fs = v
	}
}

// WithCodec overrides the codec named in the config.
func WithCodec(v codec.Codec) Option {
	return func(o *LocalFS) {
		o.codec = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewLocalFS creates a checkpoint storage. A missing root path does not
// fail here; every operation fails with ErrInitialization instead.
func NewLocalFS(l *zap.Logger, config Config, opts ...Option) (*LocalFS, error) {
	inst := &LocalFS{
		l:              l.Named("localfs"),
		maxCheckpoints: config.MaxCheckpoints,
	}
	if inst.maxCheckpoints == 0 {
		inst.maxCheckpoints = DefaultMaxCheckpoints
	}
	inst.rootPath, inst.rootErr = config.ExpandedRootPath()

	for _, opt := range opts {
		opt(inst)
	}

	if inst.codec == nil {
		c, err := codec.ByName(config.Codec)
		if err != nil {
			return nil, err
		}
		inst.codec = c
	}
	if inst.fs == nil {
		inst.fs = filesystem.NewOS()
	}
	inst.pruner = NewPruner(inst.l, inst.fs)

	inst.l.Info("initializing checkpoint storage",
		zap.String("root", inst.rootPath),
		zap.Int("max_checkpoints", inst.maxCheckpoints),
		zap.String("codec", inst.codec.Name()),
	)
	if inst.rootErr != nil {
		inst.l.Warn("checkpoint storage is not usable", zap.Error(inst.rootErr))
	}
	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Store prunes the topology to the configured number of checkpoints and
// then writes the checkpoint. Pruning happens before writing, so the new
// checkpoint is never pruned by its own store and pruning is not undone if
// the write fails.
func (s *LocalFS) Store(ctx context.Context, checkpoint *Checkpoint) (err error) {
	defer s.observe("store", time.Now(), &err)

	root, err := s.root()
	if err != nil {
		return err
	}
	if checkpoint == nil || checkpoint.State == nil {
		return newError("store", root, ErrStorageWrite, errors.New("checkpoint state must not be nil"))
	}
	if err := validateNames(checkpoint.TopologyName, checkpoint.CheckpointID, checkpoint.Component); err != nil {
		return newError("store", root, ErrStorageWrite, err)
	}

	l := s.l.With(
		zap.String("topology", checkpoint.TopologyName),
		zap.String("checkpoint_id", checkpoint.CheckpointID),
		zap.String("component", checkpoint.Component),
		zap.Int32("task_id", checkpoint.TaskID),
	)

	topologyRoot := TopologyRoot(root, checkpoint.TopologyName)
	if _, err := s.pruner.PruneByCount(ctx, topologyRoot, s.maxCheckpoints); err != nil {
		return err
	}

	// sibling tasks may create the same directory concurrently, only its existence counts
	dir := CheckpointDir(root, checkpoint.TopologyName, checkpoint.CheckpointID, checkpoint.Component)
	errCreate := s.fs.CreateDirectory(ctx, dir)
	if !s.fs.DirectoryExists(ctx, dir) {
		return newError("store", dir, ErrStorageWrite, errCreate)
	}

	payload, err := checkpoint.Payload(s.codec)
	if err != nil {
		return newError("store", dir, ErrStorageWrite, err)
	}

	path := CheckpointPath(root, checkpoint.TopologyName, checkpoint.CheckpointID, checkpoint.Component, checkpoint.TaskID)
	if err := s.fs.WriteFile(ctx, path, payload, true); err != nil {
		return newError("store", path, ErrStorageWrite, err)
	}

	metrics.StoredBytesCounter.WithLabelValues().Add(float64(len(payload)))
	l.Debug("stored checkpoint", zap.String("path", path), zap.Int("bytes", len(payload)))
	return nil
}

// Restore reads and decodes the checkpoint of instance. A missing and an
// empty checkpoint file are both reported as ErrRestoreDecode.
func (s *LocalFS) Restore(ctx context.Context, topologyName, checkpointID string, instance Instance) (_ *Checkpoint, err error) {
	defer s.observe("restore", time.Now(), &err)

	root, err := s.root()
	if err != nil {
		return nil, err
	}
	component := instance.Info.ComponentName
	if err := validateNames(topologyName, checkpointID, component); err != nil {
		return nil, newError("restore", root, ErrRestoreDecode, err)
	}

	path := CheckpointPath(root, topologyName, checkpointID, component, instance.Info.TaskID)
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, newError("restore", path, ErrRestoreDecode, err)
	}
	if len(data) == 0 {
		return nil, newError("restore", path, ErrRestoreDecode, errors.New("checkpoint not found"))
	}

	state, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, newError("restore", path, ErrRestoreDecode, err)
	}

	s.l.Debug("restored checkpoint", zap.String("path", path), zap.Int("bytes", len(data)))
	return &Checkpoint{
		TopologyName: topologyName,
		CheckpointID: checkpointID,
		Component:    component,
		TaskID:       instance.Info.TaskID,
		State:        state,
	}, nil
}

// Dispose deletes the whole topology if deleteAll is set. Otherwise every
// checkpoint id lexically less than oldestCheckpointIDToKeep is deleted.
// A topology without any checkpoints is not an error.
func (s *LocalFS) Dispose(ctx context.Context, topologyName, oldestCheckpointIDToKeep string, deleteAll bool) (err error) {
	defer s.observe("dispose", time.Now(), &err)

	root, err := s.root()
	if err != nil {
		return err
	}
	if err := validateNames(topologyName); err != nil {
		return newError("dispose", root, ErrDispose, err)
	}

	l := s.l.With(zap.String("topology", topologyName))
	topologyRoot := TopologyRoot(root, topologyName)

	if deleteAll {
		errDelete := s.fs.DeleteRecursive(ctx, topologyRoot, false)
		if s.fs.DirectoryExists(ctx, topologyRoot) {
			return newError("dispose", topologyRoot, ErrDispose, errDelete)
		}
		l.Info("disposed all checkpoints")
		return nil
	}

	deleted, err := s.pruner.PruneBelow(ctx, topologyRoot, oldestCheckpointIDToKeep)
	if errors.Is(err, os.ErrNotExist) {
		l.Warn("there is no such checkpoint root path", zap.String("path", topologyRoot))
		return nil
	} else if err != nil {
		return err
	}

	l.Debug("disposed checkpoints",
		zap.String("oldest_checkpoint_id_to_keep", oldestCheckpointIDToKeep),
		zap.Int("deleted", len(deleted)),
	)
	return nil
}

// List returns the checkpoint ids stored for a topology in ascending order.
func (s *LocalFS) List(ctx context.Context, topologyName string) ([]string, error) {
	root, err := s.root()
	if err != nil {
		return nil, err
	}
	if err := validateNames(topologyName); err != nil {
		return nil, err
	}
	ids, err := s.fs.ListChildren(ctx, TopologyRoot(root, topologyName))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to list checkpoints of %s", topologyName)
	}
	sort.Strings(ids)
	return ids, nil
}

// Healthz reports whether the storage has a usable root.
func (s *LocalFS) Healthz(ctx context.Context) error {
	_, err := s.root()
	return err
}

// Close releases the underlying filesystem.
func (s *LocalFS) Close() error {
	return s.fs.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *LocalFS) root() (string, error) {
	if s.rootErr != nil {
		return "", s.rootErr
	}
	return s.rootPath, nil
}

func (s *LocalFS) observe(operation string, start time.Time, err *error) {
	status := "success"
	if *err != nil {
		status = "error"
	}
	metrics.OperationCounter.WithLabelValues(operation, status).Inc()
	metrics.OperationDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// validateNames rejects names that would escape their level of the checkpoint layout.
func validateNames(names ...string) error {
	for _, name := range names {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return errors.Errorf("invalid name %q", name)
		}
	}
	return nil
}
