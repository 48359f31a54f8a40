package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// SimpleUpload writes a small payload with a single request. The remote
// rejects large bodies here; callers should route anything above the
// single-shot limit through an upload session instead.
func (c *Client) SimpleUpload(ctx context.Context, itemPath string, data []byte) (*DriveItem, error) {
	requestURL := fmt.Sprintf("%s/content", c.itemURL(itemPath))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, requestURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, unwrapError(resp)
	}

	return decodeItem(resp)
}

// GetItem fetches the descriptor of the item at the given path.
func (c *Client) GetItem(ctx context.Context, itemPath string) (*DriveItem, error) {
	resp, err := c.do(ctx, http.MethodGet, c.itemURL(itemPath), nil)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unwrapError(resp)
	}

	return decodeItem(resp)
}

// ListChildren returns the direct children of a folder, following
// pagination links until the listing is complete.
func (c *Client) ListChildren(ctx context.Context, dirPath string) ([]DriveItem, error) {
	var items []DriveItem

	next := fmt.Sprintf("%s/children", c.itemURL(dirPath))
	for next != "" {
		resp, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusNotFound {
			c.closeBody(resp.Body)
			return nil, ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			err = unwrapError(resp)
			c.closeBody(resp.Body)
			return nil, err
		}

		var page childrenResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		c.closeBody(resp.Body)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Value...)
		next = page.NextLink
	}

	return items, nil
}

// Delete removes the item at the given path.
func (c *Client) Delete(ctx context.Context, itemPath string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.itemURL(itemPath), nil)
	if err != nil {
		return err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusNoContent {
		return unwrapError(resp)
	}

	return nil
}

type createFolderRequest struct {
	Name             string      `json:"name"`
	Folder           FolderFacet `json:"folder"`
	ConflictBehavior string      `json:"@microsoft.graph.conflictBehavior"`
}

// CreateFolder creates a folder at the given path. The parent folder must
// already exist.
func (c *Client) CreateFolder(ctx context.Context, dirPath string) (*DriveItem, error) {
	parent, name := splitPath(dirPath)
	if name == "" {
		return nil, fmt.Errorf("cannot create the drive root")
	}
	requestURL := fmt.Sprintf("%s/children", c.itemURL(parent))

	resp, err := c.do(ctx, http.MethodPost, requestURL, createFolderRequest{
		Name:             name,
		Folder:           FolderFacet{},
		ConflictBehavior: "fail",
	})
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, unwrapError(resp)
	}

	return decodeItem(resp)
}

type moveRequest struct {
	ParentReference parentReference `json:"parentReference"`
	Name            string          `json:"name"`
}

type parentReference struct {
	Path string `json:"path"`
}

// Move renames or moves an item to a new drive-root-relative path. The
// destination folder must already exist.
func (c *Client) Move(ctx context.Context, itemPath, newPath string) (*DriveItem, error) {
	parent, name := splitPath(newPath)
	if name == "" {
		return nil, fmt.Errorf("cannot move an item to the drive root path")
	}

	parentPath := "/drive/root:"
	if parent != "" {
		parentPath = fmt.Sprintf("/drive/root:/%s", parent)
	}

	resp, err := c.do(ctx, http.MethodPatch, c.itemURL(itemPath), moveRequest{
		ParentReference: parentReference{Path: parentPath},
		Name:            name,
	})
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unwrapError(resp)
	}

	return decodeItem(resp)
}

func decodeItem(resp *http.Response) (*DriveItem, error) {
	var item DriveItem
	err := json.NewDecoder(resp.Body).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// splitPath splits a drive-root-relative path into its parent path and the
// leaf name. Both are empty for the root itself.
func splitPath(itemPath string) (parent, name string) {
	itemPath = strings.Trim(itemPath, "/")
	idx := strings.LastIndex(itemPath, "/")
	if idx < 0 {
		return "", itemPath
	}
	return itemPath[:idx], itemPath[idx+1:]
}
