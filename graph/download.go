package graph

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bitrise-io/go-utils/retry"
	"github.com/melbahja/got"
)

const numDownloadRetries = 3

// Download fetches the content of the item at itemPath into the local file
// at dest. The content is served from a pre-authenticated URL, so the fetch
// itself carries no auth header.
func (c *Client) Download(ctx context.Context, itemPath, dest string) error {
	item, err := c.GetItem(ctx, itemPath)
	if err != nil {
		return fmt.Errorf("resolve download URL: %w", err)
	}
	if item.DownloadURL == "" {
		return fmt.Errorf("item %s has no download URL", itemPath)
	}

	return retry.Times(numDownloadRetries).Wait(5 * time.Second).Try(func(attempt uint) error {
		if attempt > 0 {
			c.logger.Warnf("Retrying download of %s (attempt %d)", itemPath, attempt+1)
		}
		return downloadFile(ctx, c.httpClient.StandardClient(), item.DownloadURL, dest)
	})
}

func downloadFile(ctx context.Context, client *http.Client, url string, dest string) error {
	downloader := got.New()
	downloader.Client = client

	return downloader.Do(got.NewDownload(ctx, url, dest))
}
