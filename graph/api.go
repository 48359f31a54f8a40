// Package graph is a client for the Microsoft Graph drive API: item
// metadata, listing, small single-shot writes, upload session negotiation
// and content downloads.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the drive endpoint of the signed-in user.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0/me/drive"

// ErrNotFound ...
var ErrNotFound = errors.New("no item found at the provided path")

// Client talks to a single drive. All methods issue one request per call
// (plus transport-level retries from the underlying retryable client);
// protocol-level retry decisions belong to the chunkuploader package.
type Client struct {
	httpClient  *retryablehttp.Client
	baseURL     string
	accessToken string
	logger      log.Logger
}

// NewClient ...
func NewClient(client *retryablehttp.Client, baseURL, accessToken string, logger log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  client,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		logger:      logger,
	}
}

// itemURL builds the address of an item from its drive-root-relative path.
func (c *Client) itemURL(itemPath string) string {
	itemPath = strings.Trim(itemPath, "/")
	if itemPath == "" {
		return fmt.Sprintf("%s/root", c.baseURL)
	}
	segments := strings.Split(itemPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/root:/%s:", c.baseURL, strings.Join(segments, "/"))
}

func (c *Client) do(ctx context.Context, method, requestURL string, requestBody interface{}) (*http.Response, error) {
	var payload []byte
	if requestBody != nil {
		var err error
		payload, err = json.Marshal(requestBody)
		if err != nil {
			return nil, err
		}
	}

	var req *retryablehttp.Request
	var err error
	if payload != nil {
		req, err = retryablehttp.NewRequestWithContext(ctx, method, requestURL, payload)
	} else {
		req, err = retryablehttp.NewRequestWithContext(ctx, method, requestURL, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) closeBody(body io.ReadCloser) {
	err := body.Close()
	if err != nil {
		c.logger.Printf(err.Error())
	}
}

func unwrapError(resp *http.Response) error {
	errorResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, errorResp)
}
