package filesystem_test

import (
	"context"
	"testing"

	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func newTestBlob(t *testing.T, prefix string) *filesystem.Blob {
	t.Helper()
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bucket.Close() })
	return filesystem.NewBlobFromBucket(bucket, prefix)
}

func TestBlob(t *testing.T) {
	runFileSystemTests(t, func(t *testing.T) (filesystem.FileSystem, string) {
		t.Helper()
		return newTestBlob(t, ""), "/checkpoints"
	})
}

func TestBlob_WithPrefix(t *testing.T) {
	runFileSystemTests(t, func(t *testing.T) (filesystem.FileSystem, string) {
		t.Helper()
		return newTestBlob(t, "my-prefix"), "checkpoints"
	})
}

func TestBlob_DirMarkerHidden(t *testing.T) {
	ctx := context.Background()
	fs := newTestBlob(t, "")

	require.NoError(t, fs.CreateDirectory(ctx, "root/topo/001"))
	require.NoError(t, fs.CreateDirectory(ctx, "root/topo/002"))

	names, err := fs.ListChildren(ctx, "root/topo")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"001", "002"}, names)

	names, err = fs.ListChildren(ctx, "root/topo/001")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNewBlob(t *testing.T) {
	ctx := context.Background()
	fs, err := filesystem.NewBlob(ctx, "mem://", "prefix")
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	require.NoError(t, fs.CreateDirectory(ctx, "a"))
	assert.True(t, fs.DirectoryExists(ctx, "a"))
}

func TestNewBlob_UnknownScheme(t *testing.T) {
	_, err := filesystem.NewBlob(context.Background(), "unknown://bucket", "")
	require.Error(t, err)
}
