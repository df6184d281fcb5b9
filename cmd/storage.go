package cmd

import (
	"context"
	"strings"

	"github.com/foomo/checkpointstore/client"
	"github.com/foomo/checkpointstore/pkg/checkpoint"
	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/foomo/checkpointstore/pkg/filesystem"
	"github.com/foomo/checkpointstore/responses"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	storageTypeOS   = "os"
	storageTypeBlob = "blob"
)

// supportedBlobSchemes lists the URL schemes supported by blob storage
var supportedBlobSchemes = []string{"gs://", "s3://", "azblob://", "file://"}

// backend is implemented by the local storage and the http client
type backend interface {
	Store(ctx context.Context, topologyName string, instance checkpoint.Instance, state *codec.InstanceState) error
	Restore(ctx context.Context, topologyName, checkpointID string, instance checkpoint.Instance) (*responses.Checkpoint, error)
	Dispose(ctx context.Context, topologyName, oldestCheckpointIDToKeep string, deleteAll bool) error
	List(ctx context.Context, topologyName string) ([]string, error)
	Close()
}

type localBackend struct {
	l       *zap.Logger
	storage *checkpoint.LocalFS
}

func (b *localBackend) Store(ctx context.Context, topologyName string, instance checkpoint.Instance, state *codec.InstanceState) error {
	return b.storage.Store(ctx, checkpoint.NewCheckpoint(topologyName, instance, state))
}

func (b *localBackend) Restore(ctx context.Context, topologyName, checkpointID string, instance checkpoint.Instance) (*responses.Checkpoint, error) {
	c, err := b.storage.Restore(ctx, topologyName, checkpointID, instance)
	if err != nil {
		return nil, err
	}
	return &responses.Checkpoint{
		TopologyName: c.TopologyName,
		CheckpointID: c.CheckpointID,
		Component:    c.Component,
		TaskID:       c.TaskID,
		State:        c.State,
	}, nil
}

func (b *localBackend) Dispose(ctx context.Context, topologyName, oldestCheckpointIDToKeep string, deleteAll bool) error {
	return b.storage.Dispose(ctx, topologyName, oldestCheckpointIDToKeep, deleteAll)
}

func (b *localBackend) List(ctx context.Context, topologyName string) ([]string, error) {
	return b.storage.List(ctx, topologyName)
}

func (b *localBackend) Close() {
	if err := b.storage.Close(); err != nil {
		b.l.Warn("failed to close storage", zap.Error(err))
	}
}

// createBackend talks to a checkpoint server if one is configured and
// opens the storage directly otherwise
func createBackend(ctx context.Context, v *viper.Viper, l *zap.Logger) (backend, error) {
	if server := serverFlag(v); server != "" {
		l.Debug("using checkpoint server", zap.String("server", server))
		c, err := client.NewHTTPClient(server)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	storage, err := createStorage(ctx, v, l)
	if err != nil {
		return nil, err
	}
	return &localBackend{l: l, storage: storage}, nil
}

// createStorage creates the checkpoint storage based on the configuration
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (*checkpoint.LocalFS, error) {
	config := checkpoint.Config{
		RootPath:       rootPathFlag(v),
		MaxCheckpoints: maxCheckpointsFlag(v),
		Codec:          codecFlag(v),
	}

	fs, err := createFileSystem(ctx, v, l)
	if err != nil {
		return nil, err
	}

	storage, err := checkpoint.NewLocalFS(l, config, checkpoint.WithFileSystem(fs))
	if err != nil {
		_ = fs.Close()
		return nil, err
	}
	return storage, nil
}

func createFileSystem(ctx context.Context, v *viper.Viper, l *zap.Logger) (filesystem.FileSystem, error) {
	storageType := storageTypeFlag(v)
	blobBucket := storageBlobBucketFlag(v)
	blobPrefix := storageBlobPrefixFlag(v)

	if storageType != storageTypeBlob && (blobBucket != "" || blobPrefix != "") {
		l.Warn("blob storage flags are set but storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", storageType),
			zap.String("blob-bucket", blobBucket),
			zap.String("blob-prefix", blobPrefix),
		)
	}

	switch storageType {
	case storageTypeBlob:
		if blobBucket == "" {
			return nil, errors.New("blob bucket URL is required when storage-type is 'blob'")
		}
		if !isValidBlobScheme(blobBucket) {
			return nil, errors.Errorf("unsupported blob storage URL scheme in %q; supported schemes: %s", blobBucket, strings.Join(supportedBlobSchemes, ", "))
		}
		l.Info("using blob storage",
			zap.String("bucket", blobBucket),
			zap.String("prefix", blobPrefix),
			zap.String("provider", detectBlobProvider(blobBucket)),
		)
		return filesystem.NewBlob(ctx, blobBucket, blobPrefix)
	case storageTypeOS, "":
		return filesystem.NewOS(), nil
	default:
		return nil, errors.Errorf("unknown storage type: %s (supported: os, blob)", storageType)
	}
}

// isValidBlobScheme checks if the bucket URL has a supported scheme
func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}

// detectBlobProvider returns a human-readable provider name from the URL scheme
func detectBlobProvider(bucketURL string) string {
	switch {
	case strings.HasPrefix(bucketURL, "gs://"):
		return "Google Cloud Storage"
	case strings.HasPrefix(bucketURL, "s3://"):
		return "AWS S3"
	case strings.HasPrefix(bucketURL, "azblob://"):
		return "Azure Blob Storage"
	case strings.HasPrefix(bucketURL, "file://"):
		return "Local Files"
	default:
		return "unknown"
	}
}
