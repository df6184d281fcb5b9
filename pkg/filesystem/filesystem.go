package filesystem

import (
	"context"
)

// FileSystem defines the primitives the checkpoint store needs from its
// storage medium. Paths are slash separated.
// Implementations must be safe for concurrent use.
type FileSystem interface {
	// CreateDirectory creates the directory and all missing parents.
	// An already existing directory is not an error.
	CreateDirectory(ctx context.Context, path string) error

	// DirectoryExists reports whether path exists and is a directory.
	DirectoryExists(ctx context.Context, path string) bool

	// HasChildren reports whether the directory has at least one entry.
	HasChildren(ctx context.Context, path string) bool

	// ListChildren returns the names of the immediate entries of path in no
	// particular order.
	// Returns os.ErrNotExist if the directory does not exist.
	ListChildren(ctx context.Context, path string) ([]string, error)

	// WriteFile stores data at path. If overwrite is false and the file
	// already exists the write fails.
	WriteFile(ctx context.Context, path string, data []byte, overwrite bool) error

	// ReadFile returns the content of path.
	// Returns nil and no error if the file does not exist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// DeleteRecursive removes path and everything below it.
	// Returns os.ErrNotExist if mustExist is set and path does not exist.
	DeleteRecursive(ctx context.Context, path string, mustExist bool) error

	// Close releases any resources held by the filesystem.
	Close() error
}
