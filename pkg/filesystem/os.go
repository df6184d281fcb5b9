package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// OS implements FileSystem using the local filesystem.
type OS struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

type OSOption func(*OS)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func OSWithDirPerm(v os.FileMode) OSOption {
	return func(o *OS) {
		o.dirPerm = v
	}
}

func OSWithFilePerm(v os.FileMode) OSOption {
	return func(o *OS) {
		o.filePerm = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewOS creates a new local filesystem.
func NewOS(opts ...OSOption) *OS {
	inst := &OS{
		dirPerm:  0o755,
		filePerm: 0o644,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (f *OS) CreateDirectory(_ context.Context, path string) error {
	return os.MkdirAll(filepath.FromSlash(path), f.dirPerm)
}

func (f *OS) DirectoryExists(_ context.Context, path string) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	return err == nil && info.IsDir()
}

func (f *OS) HasChildren(_ context.Context, path string) bool {
	dir, err := os.Open(filepath.FromSlash(path))
	if err != nil {
		return false
	}
	defer dir.Close()
	names, _ := dir.Readdirnames(1)
	return len(names) > 0
}

func (f *OS) ListChildren(_ context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (f *OS) WriteFile(_ context.Context, path string, data []byte, overwrite bool) error {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(filepath.FromSlash(path), flag, f.filePerm)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (f *OS) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.FromSlash(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *OS) DeleteRecursive(_ context.Context, path string, mustExist bool) error {
	p := filepath.FromSlash(path)
	if mustExist {
		if _, err := os.Lstat(p); err != nil {
			return err
		}
	}
	return os.RemoveAll(p)
}

func (f *OS) Close() error {
	return nil
}
