package chunkuploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shitware-ltd/flysystem-msgraph/graph"
)

// maxBackoffAttempts bounds retries on server errors. Retry-After waits
// (throttling) are deliberately not counted against it.
const maxBackoffAttempts = 10

// transmitChunk sends one byte-range chunk to the session URL and blocks
// until the chunk is durably accepted or the operation is declared failed.
// A non-nil item means the final chunk was accepted and the item created;
// (nil, nil) means the chunk was accepted and the next offset can go out.
func (u *Uploader) transmitChunk(ctx context.Context, uploadURL string, data []byte, offset, totalSize int64) (*graph.DriveItem, error) {
	lastByte := offset + int64(len(data)) - 1
	isLastChunk := lastByte == totalSize-1
	contentRange := fmt.Sprintf("bytes %d-%d/%d", offset, lastByte, totalSize)

	attempt := 0
	for {
		status, header, body, err := u.doChunkRequest(ctx, uploadURL, data, contentRange)
		if err != nil {
			return nil, fmt.Errorf("transmit range %s: %w", contentRange, err)
		}

		// Each pass classifies only the response of the most recent attempt;
		// dispatching a retry abandons the previous response entirely.
		result := classifyOutcome(status, isLastChunk, header.Get("Retry-After"))
		switch result.kind {
		case outcomeContinue:
			return nil, nil

		case outcomeSuccess:
			var item graph.DriveItem
			if err := json.Unmarshal(body, &item); err != nil {
				return nil, fmt.Errorf("decode created item: %w", err)
			}
			return &item, nil

		case outcomeExpired:
			return nil, fmt.Errorf("range %s rejected: %w", contentRange, ErrSessionExpired)

		case outcomeConflict:
			return nil, ErrNameConflict

		case outcomeRetryAfter:
			u.logger.Warnf("Chunk %s throttled, resending in %v", contentRange, result.retryAfter)
			if err := u.sleep(ctx, result.retryAfter); err != nil {
				return nil, err
			}

		case outcomeRetryBackoff:
			if attempt >= maxBackoffAttempts {
				return nil, fmt.Errorf("range %s: %w", contentRange, ErrRetryBudgetExhausted)
			}
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			u.logger.Warnf("Chunk %s failed with status %d, resending in %v", contentRange, status, backoff)
			if err := u.sleep(ctx, backoff); err != nil {
				return nil, err
			}
			attempt++

		default:
			return nil, &UnexpectedStatusError{StatusCode: status, FinalChunk: isLastChunk}
		}
	}
}

// doChunkRequest issues a single write request to the session URL and drains
// the response. The session URL is pre-authenticated; no auth header is set.
func (u *Uploader) doChunkRequest(ctx context.Context, uploadURL string, data []byte, contentRange string) (int, http.Header, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, u.config.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Range", contentRange)
	req.ContentLength = int64(len(data))

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			u.logger.Printf(err.Error())
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, resp.Header, body, nil
}

func waitContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("upload cancelled during retry wait: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
