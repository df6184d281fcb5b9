package checkpoint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stuckFS reports deletions as failed and never deletes anything.
type stuckFS struct {
	*filesystem.OS
}

func (f stuckFS) DeleteRecursive(context.Context, string, bool) error {
	return os.ErrPermission
}

func testPruner(t *testing.T, fs filesystem.FileSystem) (*Pruner, string) {
	t.Helper()
	return NewPruner(zaptest.NewLogger(t), fs), filepath.ToSlash(t.TempDir()) + "/topo"
}

func createCheckpointDirs(t *testing.T, fs filesystem.FileSystem, topologyRoot string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		dir := topologyRoot + "/" + id + "/word"
		require.NoError(t, fs.CreateDirectory(context.Background(), dir))
		require.NoError(t, fs.WriteFile(context.Background(), dir+"/1", []byte(id), true))
	}
}

func listIDs(t *testing.T, fs filesystem.FileSystem, topologyRoot string) []string {
	t.Helper()
	ids, err := fs.ListChildren(context.Background(), topologyRoot)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	sort.Strings(ids)
	return ids
}

func TestPruneByCount(t *testing.T) {
	tests := []struct {
		name        string
		keep        int
		wantDeleted []string
		wantKept    []string
	}{
		{"keep some", 3, []string{"001", "002"}, []string{"003", "004", "005"}},
		{"keep all", 5, nil, []string{"001", "002", "003", "004", "005"}},
		{"keep more", 10, nil, []string{"001", "002", "003", "004", "005"}},
		{"keep none", 0, []string{"001", "002", "003", "004", "005"}, nil},
		{"keep negative", -1, []string{"001", "002", "003", "004", "005"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewOS()
			p, root := testPruner(t, fs)
			createCheckpointDirs(t, fs, root, "004", "002", "005", "001", "003")

			deleted, err := p.PruneByCount(context.Background(), root, tt.keep)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)

			kept := listIDs(t, fs, root)
			if tt.wantKept == nil {
				assert.Empty(t, kept)
			} else {
				assert.Equal(t, tt.wantKept, kept)
			}
		})
	}
}

func TestPruneByCount_MissingRoot(t *testing.T) {
	fs := filesystem.NewOS()
	p, root := testPruner(t, fs)

	deleted, err := p.PruneByCount(context.Background(), root, 1)
	require.NoError(t, err)
	assert.Empty(t, deleted)

	require.NoError(t, fs.CreateDirectory(context.Background(), root))
	deleted, err = p.PruneByCount(context.Background(), root, 0)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestPruneByCount_LexicalOrder(t *testing.T) {
	fs := filesystem.NewOS()
	p, root := testPruner(t, fs)
	// not zero padded: "10" sorts before "9"
	createCheckpointDirs(t, fs, root, "8", "9", "10")

	deleted, err := p.PruneByCount(context.Background(), root, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, deleted)
	assert.Equal(t, []string{"8", "9"}, listIDs(t, fs, root))
}

func TestPruneByCount_KeepsNewest(t *testing.T) {
	const keep = 4
	fs := filesystem.NewOS()
	p, root := testPruner(t, fs)

	var stored []string
	for i := 1; i <= 12; i++ {
		id := fmt.Sprintf("%03d", i)
		stored = append(stored, id)
		createCheckpointDirs(t, fs, root, id)

		_, err := p.PruneByCount(context.Background(), root, keep)
		require.NoError(t, err)

		want := stored[max(0, len(stored)-keep):]
		assert.Equal(t, want, listIDs(t, fs, root), "after storing %s", id)
	}
}

func TestPruneByCount_VerifiesDeletion(t *testing.T) {
	fs := stuckFS{filesystem.NewOS()}
	p, root := testPruner(t, fs)
	createCheckpointDirs(t, fs, root, "001", "002")

	_, err := p.PruneByCount(context.Background(), root, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrune)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestPruneBelow(t *testing.T) {
	fs := filesystem.NewOS()
	p, root := testPruner(t, fs)
	createCheckpointDirs(t, fs, root, "003", "004", "005", "006")

	deleted, err := p.PruneBelow(context.Background(), root, "005")
	require.NoError(t, err)
	assert.Equal(t, []string{"003", "004"}, deleted)
	assert.Equal(t, []string{"005", "006"}, listIDs(t, fs, root))

	// same watermark again is a no-op
	deleted, err = p.PruneBelow(context.Background(), root, "005")
	require.NoError(t, err)
	assert.Empty(t, deleted)
	assert.Equal(t, []string{"005", "006"}, listIDs(t, fs, root))
}

func TestPruneBelow_MissingRoot(t *testing.T) {
	p, root := testPruner(t, filesystem.NewOS())

	_, err := p.PruneBelow(context.Background(), root, "005")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrDispose)
}

func TestPruneBelow_VerifiesDeletion(t *testing.T) {
	fs := stuckFS{filesystem.NewOS()}
	p, root := testPruner(t, fs)
	createCheckpointDirs(t, fs, root, "001", "002", "003")

	_, err := p.PruneBelow(context.Background(), root, "003")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDispose)
	assert.Contains(t, err.Error(), root+"/001")
	assert.Contains(t, err.Error(), root+"/002")
}
