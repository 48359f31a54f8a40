package filesystem

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// DefaultSimpleUploadLimit is the largest payload written with a single
// request; anything bigger goes through an upload session.
const DefaultSimpleUploadLimit = 4 * 1024 * 1024

// Config configures the adapter. Zero values fall back to defaults; the
// chunk size rule is enforced before any network activity.
type Config struct {
	// BaseURL is the drive endpoint. Defaults to the signed-in user's drive.
	BaseURL string

	// AccessToken is the OAuth bearer token for the API.
	AccessToken string

	// ChunkSizeBytes is the upload session chunk size. Must be a positive
	// multiple of chunkuploader.ChunkSizeUnit.
	ChunkSizeBytes int64

	// RequestTimeout bounds a single chunk request.
	RequestTimeout time.Duration

	// SimpleUploadLimit is the payload size above which Write switches from
	// a single-shot request to an upload session.
	SimpleUploadLimit int64

	// Verbose enables debug logging.
	Verbose bool
}

// ParseChunkSize converts a human-readable size ("3200KiB", "10MiB") into a
// byte count for Config.ChunkSizeBytes.
func ParseChunkSize(size string) (int64, error) {
	bytes, err := units.RAMInBytes(size)
	if err != nil {
		return 0, fmt.Errorf("parse chunk size %q: %w", size, err)
	}
	return bytes, nil
}
