package checkpoint

import (
	"context"
	"os"
	"sort"

	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/foomo/checkpointstore/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	policyCount     = "count"
	policyWatermark = "watermark"
)

// Pruner deletes checkpoint id directories below a topology root.
// Every deletion is verified by checking the directory afterwards.
type Pruner struct {
	l  *zap.Logger
	fs filesystem.FileSystem
}

// NewPruner returns a pruner working on fs.
func NewPruner(l *zap.Logger, fs filesystem.FileSystem) *Pruner {
	return &Pruner{
		l:  l.Named("pruner"),
		fs: fs,
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// PruneByCount keeps the keep lexically greatest checkpoint ids below
// topologyRoot and deletes the others. A missing or empty root is a no-op.
// keep <= 0 deletes everything.
func (p *Pruner) PruneByCount(ctx context.Context, topologyRoot string, keep int) ([]string, error) {
	if !p.fs.DirectoryExists(ctx, topologyRoot) || !p.fs.HasChildren(ctx, topologyRoot) {
		return nil, nil
	}

	ids, err := p.fs.ListChildren(ctx, topologyRoot)
	if err != nil {
		return nil, newError("prune", topologyRoot, ErrPrune, err)
	}
	sort.Strings(ids)

	var deleted []string
	for i := 0; i < min(len(ids)-keep, len(ids)); i++ {
		path := topologyRoot + "/" + ids[i]
		if err := p.deleteVerified(ctx, path); err != nil {
			return deleted, err
		}
		deleted = append(deleted, ids[i])
	}

	p.observe(policyCount, topologyRoot, deleted)
	return deleted, nil
}

// PruneBelow deletes every checkpoint id below topologyRoot that compares
// less than watermark. Ids are compared as strings, never as numbers.
// Returns an error matching os.ErrNotExist if topologyRoot does not exist.
func (p *Pruner) PruneBelow(ctx context.Context, topologyRoot, watermark string) ([]string, error) {
	ids, err := p.fs.ListChildren(ctx, topologyRoot)
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	} else if err != nil {
		return nil, newError("dispose", topologyRoot, ErrDispose, err)
	}
	sort.Strings(ids)

	var deleted []string
	for _, id := range ids {
		if id >= watermark {
			continue
		}
		path := topologyRoot + "/" + id
		p.l.Debug("removing checkpoint", zap.String("path", path), zap.String("watermark", watermark))
		if err := p.fs.DeleteRecursive(ctx, path, true); err != nil {
			p.l.Debug("delete reported an error", zap.String("path", path), zap.Error(err))
		}
		deleted = append(deleted, id)
	}

	// all checkpoints older than the watermark must be gone now
	remaining, err := p.fs.ListChildren(ctx, topologyRoot)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return deleted, newError("dispose", topologyRoot, ErrDispose, err)
	}
	var errs error
	for _, id := range remaining {
		if id < watermark {
			errs = multierr.Append(errs, newError("dispose", topologyRoot+"/"+id, ErrDispose, nil))
		}
	}
	if errs != nil {
		return deleted, errs
	}

	p.observe(policyWatermark, topologyRoot, deleted)
	return deleted, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (p *Pruner) deleteVerified(ctx context.Context, path string) error {
	p.l.Debug("removing checkpoint", zap.String("path", path))
	errDelete := p.fs.DeleteRecursive(ctx, path, true)
	if p.fs.DirectoryExists(ctx, path) {
		return newError("prune", path, ErrPrune, errDelete)
	}
	return nil
}

func (p *Pruner) observe(policy, topologyRoot string, deleted []string) {
	if len(deleted) == 0 {
		return
	}
	metrics.PrunedCheckpointsCounter.WithLabelValues(policy).Add(float64(len(deleted)))
	p.l.Info("pruned checkpoints",
		zap.String("policy", policy),
		zap.String("root", topologyRoot),
		zap.Strings("ids", deleted),
	)
}
