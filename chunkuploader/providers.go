package chunkuploader

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// FileChunkProvider reads chunks from a file on disk. The file size is
// captured at construction; it must not change for the life of the upload.
type FileChunkProvider struct {
	file *os.File
	size int64
}

// NewFileChunkProvider creates a ChunkProvider that reads from a file.
func NewFileChunkProvider(path string) (*FileChunkProvider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return &FileChunkProvider{
		file: file,
		size: info.Size(),
	}, nil
}

// TotalSize returns the file size captured at construction.
func (p *FileChunkProvider) TotalSize() int64 {
	return p.size
}

// ChunkAt returns a reader for the requested byte range. The data is read
// into memory so a retried chunk resends identical bytes.
func (p *FileChunkProvider) ChunkAt(offset, length int64) (io.Reader, error) {
	chunk := make([]byte, length)
	if length > 0 {
		_, err := p.file.ReadAt(chunk, offset)
		if err != nil {
			return nil, fmt.Errorf("read %d bytes at offset %d: %w", length, offset, err)
		}
	}
	return bytes.NewReader(chunk), nil
}

// Close closes the underlying file.
func (p *FileChunkProvider) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// BytesChunkProvider provides chunks from an in-memory payload.
type BytesChunkProvider struct {
	data []byte
}

// NewBytesChunkProvider creates a ChunkProvider over a byte slice.
func NewBytesChunkProvider(data []byte) *BytesChunkProvider {
	return &BytesChunkProvider{data: data}
}

// TotalSize returns the payload length.
func (p *BytesChunkProvider) TotalSize() int64 {
	return int64(len(p.data))
}

// ChunkAt returns a reader for the requested byte range.
func (p *BytesChunkProvider) ChunkAt(offset, length int64) (io.Reader, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(p.data)) {
		return nil, fmt.Errorf("range %d-%d out of bounds for %d byte payload", offset, offset+length, len(p.data))
	}
	return bytes.NewReader(p.data[offset : offset+length]), nil
}
