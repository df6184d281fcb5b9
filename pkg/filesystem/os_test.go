package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOS(t *testing.T) {
	runFileSystemTests(t, func(t *testing.T) (filesystem.FileSystem, string) {
		t.Helper()
		return filesystem.NewOS(), filepath.ToSlash(t.TempDir())
	})
}

func TestOS_FilePerm(t *testing.T) {
	ctx := context.Background()
	root := filepath.ToSlash(t.TempDir())
	fs := filesystem.NewOS(filesystem.OSWithFilePerm(0o600), filesystem.OSWithDirPerm(0o700))

	require.NoError(t, fs.CreateDirectory(ctx, root+"/a"))
	require.NoError(t, fs.WriteFile(ctx, root+"/a/1", []byte("data"), true))

	info, err := os.Stat(filepath.Join(filepath.FromSlash(root), "a", "1"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOS_DirectoryExists_File(t *testing.T) {
	ctx := context.Background()
	root := filepath.ToSlash(t.TempDir())
	fs := filesystem.NewOS()

	require.NoError(t, fs.WriteFile(ctx, root+"/file", []byte("data"), true))
	assert.False(t, fs.DirectoryExists(ctx, root+"/file"))
}
