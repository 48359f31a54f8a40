package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UploadSession is a remote-issued handle scoping a sequence of chunk
// transmissions to one target item. The upload URL is pre-authenticated.
type UploadSession struct {
	UploadURL          string    `json:"uploadUrl"`
	ExpirationDateTime time.Time `json:"expirationDateTime"`
}

type createUploadSessionRequest struct {
	Item uploadSessionItem `json:"item"`
}

type uploadSessionItem struct {
	// "fail" makes the final chunk answer 409 when the name is taken,
	// instead of silently renaming or replacing.
	ConflictBehavior string `json:"@microsoft.graph.conflictBehavior"`
}

// CreateUploadSession negotiates an upload session for the item at the given
// path. A malformed response (missing upload URL) is an error; the caller
// must treat any failure here as fatal to the whole upload.
func (c *Client) CreateUploadSession(ctx context.Context, itemPath string) (UploadSession, error) {
	requestURL := fmt.Sprintf("%s/createUploadSession", c.itemURL(itemPath))

	resp, err := c.do(ctx, http.MethodPost, requestURL, createUploadSessionRequest{
		Item: uploadSessionItem{ConflictBehavior: "fail"},
	})
	if err != nil {
		return UploadSession{}, err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return UploadSession{}, unwrapError(resp)
	}

	var session UploadSession
	err = json.NewDecoder(resp.Body).Decode(&session)
	if err != nil {
		return UploadSession{}, err
	}
	if session.UploadURL == "" {
		return UploadSession{}, fmt.Errorf("upload session response contains no upload URL")
	}

	c.logger.Debugf("Upload session for %s expires at %s", itemPath, session.ExpirationDateTime)

	return session, nil
}
