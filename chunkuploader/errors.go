package chunkuploader

import (
	"errors"
	"fmt"
)

// ErrSessionExpired means the remote rejected the session URL mid-transfer.
// The session cannot be revived; the caller must negotiate a new one and
// restart the upload from the first byte.
var ErrSessionExpired = errors.New("upload session expired")

// ErrNameConflict means an item already exists at the destination path.
var ErrNameConflict = errors.New("name already exists at destination")

// ErrRetryBudgetExhausted means a chunk kept failing with server errors
// until the bounded backoff budget ran out.
var ErrRetryBudgetExhausted = errors.New("upload failed after 10 attempts")

// UnexpectedStatusError is returned when a chunk response carries a status
// code outside the protocol table.
type UnexpectedStatusError struct {
	StatusCode int
	FinalChunk bool
}

func (e *UnexpectedStatusError) Error() string {
	if e.FinalChunk {
		return fmt.Sprintf("unknown error on final chunk, status=%d", e.StatusCode)
	}
	return fmt.Sprintf("unknown error on chunk upload, status=%d", e.StatusCode)
}
