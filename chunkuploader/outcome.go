package chunkuploader

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type outcomeKind int

const (
	// chunk accepted, transmit the next range
	outcomeContinue outcomeKind = iota
	// throttled, wait Retry-After and resend the same range
	outcomeRetryAfter
	// server error, wait 2^attempt seconds and resend the same range
	outcomeRetryBackoff
	// final chunk accepted, response body holds the created item
	outcomeSuccess
	// name already exists at the destination
	outcomeConflict
	// session URL no longer valid, upload must restart from scratch
	outcomeExpired
	// status code outside the protocol table
	outcomeUnexpected
)

type outcome struct {
	kind       outcomeKind
	retryAfter time.Duration
}

// classifyOutcome maps one chunk response to its disposition. It is a pure
// function of the status code, whether the chunk closes the payload, and the
// Retry-After header value.
func classifyOutcome(statusCode int, isLastChunk bool, retryAfterHeader string) outcome {
	switch {
	case statusCode == http.StatusNotFound:
		return outcome{kind: outcomeExpired}
	case statusCode == http.StatusTooManyRequests:
		return outcome{kind: outcomeRetryAfter, retryAfter: parseRetryAfter(retryAfterHeader)}
	case statusCode >= http.StatusInternalServerError:
		return outcome{kind: outcomeRetryBackoff}
	case statusCode == http.StatusConflict && isLastChunk:
		return outcome{kind: outcomeConflict}
	case (statusCode == http.StatusOK || statusCode == http.StatusCreated) && isLastChunk:
		return outcome{kind: outcomeSuccess}
	case statusCode == http.StatusAccepted && !isLastChunk:
		return outcome{kind: outcomeContinue}
	default:
		return outcome{kind: outcomeUnexpected}
	}
}

// parseRetryAfter reads a delay-seconds Retry-After value, falling back to
// one second when the header is absent or unparsable.
func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return time.Second
	}
	return time.Duration(seconds) * time.Second
}
