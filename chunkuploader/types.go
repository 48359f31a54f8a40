// Package chunkuploader implements the resumable upload session protocol:
// session negotiation, byte-range chunk framing and the per-chunk
// retry/backoff state machine. Chunks are transmitted strictly in order;
// the remote session accepts ranges sequentially only.
package chunkuploader

import (
	"context"
	"io"

	"github.com/shitware-ltd/flysystem-msgraph/graph"
)

// ChunkProvider provides the upload payload as byte-range chunks.
// Implementations can read from files or memory buffers.
type ChunkProvider interface {
	// TotalSize returns the total payload length in bytes.
	TotalSize() int64

	// ChunkAt returns a reader covering length bytes starting at offset.
	// It may be called again for the same range when a chunk is retried.
	ChunkAt(offset, length int64) (io.Reader, error)
}

// SessionNegotiator obtains an upload session bound to a drive path.
// Satisfied by *graph.Client.
type SessionNegotiator interface {
	CreateUploadSession(ctx context.Context, itemPath string) (graph.UploadSession, error)
}
