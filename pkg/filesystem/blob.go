package filesystem

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// drivers selectable by bucket url
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// DirMarker is the name of the empty object that materializes a directory
// in a bucket. It is hidden from listings.
const DirMarker = ".dir"

// Blob implements FileSystem on top of gocloud.dev/blob.
// Directories are key prefixes separated by "/".
// This supports local files, memory, GCS, S3, Azure and other providers.
type Blob struct {
	bucket *blob.Bucket
	prefix string
}

// NewBlob creates a new blob-backed filesystem.
// bucketURL can be any URL registered with gocloud.dev, e.g. "file:///var/lib/checkpoints",
// "mem://" or "gs://bucket-name".
// prefix is an optional path prefix for all keys.
func NewBlob(ctx context.Context, bucketURL, prefix string) (*Blob, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}
	return NewBlobFromBucket(bucket, prefix), nil
}

// NewBlobFromBucket creates a new blob-backed filesystem from an existing bucket.
// This is useful for testing with memblob.
func NewBlobFromBucket(bucket *blob.Bucket, prefix string) *Blob {
	// Normalize prefix: ensure trailing slash if non-empty
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Blob{
		bucket: bucket,
		prefix: prefix,
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (b *Blob) CreateDirectory(ctx context.Context, path string) error {
	key := b.dirKey(path) + DirMarker
	if ok, err := b.bucket.Exists(ctx, key); err == nil && ok {
		return nil
	}
	return b.bucket.WriteAll(ctx, key, []byte{}, nil)
}

func (b *Blob) DirectoryExists(ctx context.Context, path string) bool {
	iter := b.bucket.List(&blob.ListOptions{
		Prefix: b.dirKey(path),
	})
	obj, err := iter.Next(ctx)
	return err == nil && obj != nil
}

func (b *Blob) HasChildren(ctx context.Context, path string) bool {
	names, err := b.ListChildren(ctx, path)
	return err == nil && len(names) > 0
}

func (b *Blob) ListChildren(ctx context.Context, path string) ([]string, error) {
	prefix := b.dirKey(path)
	iter := b.bucket.List(&blob.ListOptions{
		Prefix:    prefix,
		Delimiter: "/",
	})

	var (
		found bool
		names []string
	)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		found = true
		name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/")
		if name == "" || name == DirMarker {
			continue
		}
		names = append(names, name)
	}
	if !found {
		return nil, os.ErrNotExist
	}
	return names, nil
}

func (b *Blob) WriteFile(ctx context.Context, path string, data []byte, overwrite bool) error {
	key := b.fullKey(path)
	if !overwrite {
		if ok, err := b.bucket.Exists(ctx, key); err != nil {
			return err
		} else if ok {
			return errors.Wrap(os.ErrExist, key)
		}
	}
	return b.bucket.WriteAll(ctx, key, data, nil)
}

func (b *Blob) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := b.bucket.ReadAll(ctx, b.fullKey(path))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (b *Blob) DeleteRecursive(ctx context.Context, path string, mustExist bool) error {
	var keys []string
	if ok, err := b.bucket.Exists(ctx, b.fullKey(path)); err != nil {
		return err
	} else if ok {
		keys = append(keys, b.fullKey(path))
	}

	iter := b.bucket.List(&blob.ListOptions{
		Prefix: b.dirKey(path),
	})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		keys = append(keys, obj.Key)
	}

	if len(keys) == 0 && mustExist {
		return os.ErrNotExist
	}
	for _, key := range keys {
		if err := b.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return errors.Wrapf(err, "failed to delete %s", key)
		}
	}
	return nil
}

func (b *Blob) Close() error {
	return b.bucket.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (b *Blob) fullKey(path string) string {
	return b.prefix + strings.Trim(path, "/")
}

func (b *Blob) dirKey(path string) string {
	key := b.fullKey(path)
	if key == "" {
		return ""
	}
	return key + "/"
}
