// Package filesystem is a filesystem-style adapter over a remote drive:
// writes, downloads, listing and metadata against drive-root-relative
// paths. Large writes are delegated to the chunkuploader engine.
package filesystem

import (
	"context"
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/docker/go-units"

	"github.com/shitware-ltd/flysystem-msgraph/chunkuploader"
	"github.com/shitware-ltd/flysystem-msgraph/graph"
)

// Filesystem exposes a drive as a flat path-addressed store.
type Filesystem struct {
	client   *graph.Client
	uploader *chunkuploader.Uploader
	config   Config
	logger   log.Logger
}

// New validates the configuration and builds the adapter. No network
// activity happens here; an invalid chunk size fails construction.
func New(config Config) (*Filesystem, error) {
	if config.AccessToken == "" {
		return nil, fmt.Errorf("access token is empty")
	}
	if config.ChunkSizeBytes == 0 {
		config.ChunkSizeBytes = chunkuploader.DefaultChunkSizeBytes
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = chunkuploader.DefaultRequestTimeout
	}
	if config.SimpleUploadLimit == 0 {
		config.SimpleUploadLimit = DefaultSimpleUploadLimit
	}

	logger := log.NewLogger()
	logger.EnableDebugLog(config.Verbose)

	uploader, err := chunkuploader.New(chunkuploader.Config{
		ChunkSizeBytes: config.ChunkSizeBytes,
		RequestTimeout: config.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	client := graph.NewClient(retryhttp.NewClient(logger), config.BaseURL, config.AccessToken, logger)

	return &Filesystem{
		client:   client,
		uploader: uploader,
		config:   config,
		logger:   logger,
	}, nil
}

// Write stores data at path. Payloads at or under the simple-upload limit go
// out as one request; anything larger goes through an upload session.
func (f *Filesystem) Write(ctx context.Context, path string, data []byte) (*graph.DriveItem, error) {
	size := int64(len(data))

	if size <= f.config.SimpleUploadLimit {
		f.logger.Debugf("Writing %s (%s) with a single request", path, units.HumanSize(float64(size)))
		item, err := f.client.SimpleUpload(ctx, path, data)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		return item, nil
	}

	item, err := f.uploader.Upload(ctx, f.client, path, chunkuploader.NewBytesChunkProvider(data))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return item, nil
}

// WriteFile uploads a local file through an upload session regardless of
// its size.
func (f *Filesystem) WriteFile(ctx context.Context, path, localPath string) (*graph.DriveItem, error) {
	provider, err := chunkuploader.NewFileChunkProvider(localPath)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err := provider.Close(); err != nil {
			f.logger.Errorf("failed to close file: %s", err)
		}
	}()

	item, err := f.uploader.Upload(ctx, f.client, path, provider)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return item, nil
}

// Download fetches the content of the file at path into destPath.
func (f *Filesystem) Download(ctx context.Context, path, destPath string) error {
	if err := f.client.Download(ctx, path, destPath); err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}
	return nil
}

// Stat returns the descriptor of the item at path, or graph.ErrNotFound.
func (f *Filesystem) Stat(ctx context.Context, path string) (*graph.DriveItem, error) {
	item, err := f.client.GetItem(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return item, nil
}

// List returns the direct children of the folder at path.
func (f *Filesystem) List(ctx context.Context, path string) ([]graph.DriveItem, error) {
	items, err := f.client.ListChildren(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	return items, nil
}

// ListMatching returns the children of the folder at path whose names match
// the glob pattern.
func (f *Filesystem) ListMatching(ctx context.Context, path, pattern string) ([]graph.DriveItem, error) {
	items, err := f.client.ListChildren(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	var matched []graph.DriveItem
	for _, item := range items {
		ok, err := doublestar.Match(pattern, item.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Delete removes the item at path.
func (f *Filesystem) Delete(ctx context.Context, path string) error {
	if err := f.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// CreateDir creates a folder at path. The parent must already exist.
func (f *Filesystem) CreateDir(ctx context.Context, path string) (*graph.DriveItem, error) {
	item, err := f.client.CreateFolder(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("create dir %s: %w", path, err)
	}
	return item, nil
}

// Move renames or moves the item at path to newPath.
func (f *Filesystem) Move(ctx context.Context, path, newPath string) (*graph.DriveItem, error) {
	item, err := f.client.Move(ctx, path, newPath)
	if err != nil {
		return nil, fmt.Errorf("move %s to %s: %w", path, newPath, err)
	}
	return item, nil
}
