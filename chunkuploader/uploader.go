package chunkuploader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"

	"github.com/shitware-ltd/flysystem-msgraph/graph"
)

// Uploader drives resumable uploads: it negotiates the session, transmits
// fixed-size byte-range chunks strictly in order and classifies every
// response until the item is created or the upload is declared failed.
// One Uploader may serve many uploads; nothing mutable is shared between
// them except the stats counters.
type Uploader struct {
	config     Config
	httpClient *http.Client
	logger     log.Logger
	stats      *Stats
	sleep      func(ctx context.Context, d time.Duration) error
}

// New validates the configuration and creates an Uploader. No network
// activity happens here.
func New(config Config, logger log.Logger) (*Uploader, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}

	return &Uploader{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
		stats:      NewStats(),
		sleep:      waitContext,
	}, nil
}

// Stats returns the upload statistics.
func (u *Uploader) Stats() *Stats {
	return u.stats
}

// Upload negotiates an upload session for the item at itemPath and streams
// the provider's payload through it. It returns the created item descriptor
// from the final chunk response.
//
// Any failure leaves bytes already accepted by the remote session in place;
// the upload is not resumable and a retry must start over with a new
// session.
func (u *Uploader) Upload(ctx context.Context, negotiator SessionNegotiator, itemPath string, provider ChunkProvider) (*graph.DriveItem, error) {
	session, err := negotiator.CreateUploadSession(ctx, itemPath)
	if err != nil {
		return nil, fmt.Errorf("negotiate upload session for %s: %w", itemPath, err)
	}

	totalSize := provider.TotalSize()
	chunkSize := u.config.ChunkSizeBytes

	numChunks := int((totalSize + chunkSize - 1) / chunkSize)
	if numChunks == 0 {
		// A zero-byte payload still needs one empty transmission to close
		// the session.
		numChunks = 1
	}

	u.logger.Debugf("Uploading %s (%s) in %d chunks of up to %s",
		itemPath, units.HumanSize(float64(totalSize)), numChunks, units.HumanSize(float64(chunkSize)))

	var offset int64
	for i := 0; i < numChunks; i++ {
		length := chunkSize
		if remaining := totalSize - offset; remaining < length {
			length = remaining
		}

		reader, err := provider.ChunkAt(offset, length)
		if err != nil {
			return nil, fmt.Errorf("read chunk at offset %d: %w", offset, err)
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("read chunk at offset %d: %w", offset, err)
		}

		u.logger.Debugf("Uploading chunk %d/%d [finished=%d] [avg=%v]",
			i+1, numChunks, u.stats.FinishedCount(), u.stats.Average().Round(time.Millisecond))

		start := time.Now()
		item, err := u.transmitChunk(ctx, session.UploadURL, data, offset, totalSize)
		if err != nil {
			return nil, err
		}
		u.stats.Update(time.Since(start), int64(len(data)))

		if item != nil {
			u.logger.Debugf("Upload of %s finished, %s in %d chunks",
				itemPath, units.HumanSize(float64(u.stats.BytesTransferred())), u.stats.FinishedCount())
			return item, nil
		}
		offset += int64(len(data))
	}

	// The final chunk either succeeds or errors; getting here means the
	// remote kept answering "continue" past the declared total size.
	return nil, fmt.Errorf("upload of %s ended without a final item response", itemPath)
}
