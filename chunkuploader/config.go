package chunkuploader

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// ChunkSizeUnit is the granularity the session endpoint accepts: every
	// chunk except the last must cover a multiple of 320 KiB.
	ChunkSizeUnit = 320 * 1024

	// DefaultChunkSizeBytes is 3200 KiB, ten units per request.
	DefaultChunkSizeBytes = 3200 * 1024

	// DefaultRequestTimeout bounds a single chunk request.
	DefaultRequestTimeout = 90 * time.Second
)

// Config holds configuration for the chunk uploader.
type Config struct {
	// ChunkSizeBytes is the byte-range size of one transmission. Must be a
	// positive multiple of ChunkSizeUnit.
	// Default: DefaultChunkSizeBytes
	ChunkSizeBytes int64

	// RequestTimeout bounds each individual chunk request. Retry waits are
	// not counted against it.
	// Default: DefaultRequestTimeout
	RequestTimeout time.Duration

	// HTTPClient is the HTTP client to use for chunk transmissions.
	// If nil, a default optimized client will be created.
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSizeBytes: DefaultChunkSizeBytes,
		RequestTimeout: DefaultRequestTimeout,
		HTTPClient:     nil, // Will be created by Uploader
	}
}

func (c Config) validate() error {
	if c.ChunkSizeBytes <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSizeBytes)
	}
	if c.ChunkSizeBytes%ChunkSizeUnit != 0 {
		return fmt.Errorf("chunk size must be a multiple of %d bytes, got %d", ChunkSizeUnit, c.ChunkSizeBytes)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	}
	return nil
}

// DefaultHTTPClient creates an HTTP client optimized for chunk uploads.
func DefaultHTTPClient() *http.Client {
	return &http.Client{
		// No timeout - individual chunk timeouts are handled via context
		Timeout: 0,
		Transport: &http.Transport{
			MaxIdleConns:        50,
			MaxConnsPerHost:     20,
			IdleConnTimeout:     10 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
			Proxy:               http.ProxyFromEnvironment,
		},
	}
}
