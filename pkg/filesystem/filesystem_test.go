package filesystem_test

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runFileSystemTests exercises the FileSystem contract against an implementation rooted at root.
func runFileSystemTests(t *testing.T, newFS func(t *testing.T) (filesystem.FileSystem, string)) {
	t.Helper()

	t.Run("CreateDirectory", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		dir := root + "/topo/001/word"
		require.NoError(t, fs.CreateDirectory(ctx, dir))
		assert.True(t, fs.DirectoryExists(ctx, dir))
		assert.True(t, fs.DirectoryExists(ctx, root+"/topo"))

		// creating twice is not an error
		require.NoError(t, fs.CreateDirectory(ctx, dir))
		assert.False(t, fs.DirectoryExists(ctx, root+"/other"))
	})

	t.Run("WriteFile_Overwrite", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		require.NoError(t, fs.CreateDirectory(ctx, root+"/a"))
		require.NoError(t, fs.WriteFile(ctx, root+"/a/1", []byte("original"), true))
		require.NoError(t, fs.WriteFile(ctx, root+"/a/1", []byte("updated"), true))

		data, err := fs.ReadFile(ctx, root+"/a/1")
		require.NoError(t, err)
		assert.Equal(t, []byte("updated"), data)
	})

	t.Run("WriteFile_NoOverwrite", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		require.NoError(t, fs.CreateDirectory(ctx, root+"/a"))
		require.NoError(t, fs.WriteFile(ctx, root+"/a/1", []byte("original"), false))
		require.Error(t, fs.WriteFile(ctx, root+"/a/1", []byte("updated"), false))

		data, err := fs.ReadFile(ctx, root+"/a/1")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), data)
	})

	t.Run("ReadFile_NotFound", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		data, err := fs.ReadFile(ctx, root+"/nonexistent")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("ListChildren", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		for _, id := range []string{"003", "001", "002"} {
			require.NoError(t, fs.CreateDirectory(ctx, root+"/topo/"+id+"/word"))
			require.NoError(t, fs.WriteFile(ctx, root+"/topo/"+id+"/word/1", []byte(id), true))
		}

		names, err := fs.ListChildren(ctx, root+"/topo")
		require.NoError(t, err)
		sort.Strings(names)
		assert.Equal(t, []string{"001", "002", "003"}, names)
		assert.True(t, fs.HasChildren(ctx, root+"/topo"))
	})

	t.Run("ListChildren_NotFound", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		_, err := fs.ListChildren(ctx, root+"/nonexistent")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, fs.HasChildren(ctx, root+"/nonexistent"))
	})

	t.Run("HasChildren_Empty", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		require.NoError(t, fs.CreateDirectory(ctx, root+"/empty"))
		assert.True(t, fs.DirectoryExists(ctx, root+"/empty"))
		assert.False(t, fs.HasChildren(ctx, root+"/empty"))
	})

	t.Run("DeleteRecursive", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		require.NoError(t, fs.CreateDirectory(ctx, root+"/topo/001/word"))
		require.NoError(t, fs.WriteFile(ctx, root+"/topo/001/word/1", []byte("a"), true))
		require.NoError(t, fs.CreateDirectory(ctx, root+"/topo/002/word"))

		require.NoError(t, fs.DeleteRecursive(ctx, root+"/topo/001", true))
		assert.False(t, fs.DirectoryExists(ctx, root+"/topo/001"))
		assert.True(t, fs.DirectoryExists(ctx, root+"/topo/002"))

		data, err := fs.ReadFile(ctx, root+"/topo/001/word/1")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("DeleteRecursive_NotFound", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		require.NoError(t, fs.DeleteRecursive(ctx, root+"/nonexistent", false))
		err := fs.DeleteRecursive(ctx, root+"/nonexistent", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("ConcurrentOperations", func(t *testing.T) {
		ctx := context.Background()
		fs, root := newFS(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dir := root + "/topo/001/word"
				_ = fs.CreateDirectory(ctx, dir)
				_ = fs.WriteFile(ctx, dir+"/1", []byte("data"), true)
				_, _ = fs.ReadFile(ctx, dir+"/1")
				_, _ = fs.ListChildren(ctx, root+"/topo")
			}()
		}
		wg.Wait()
		assert.True(t, fs.DirectoryExists(ctx, root+"/topo/001/word"))
	})

	t.Run("Close", func(t *testing.T) {
		fs, _ := newFS(t)
		require.NoError(t, fs.Close())
	})
}
