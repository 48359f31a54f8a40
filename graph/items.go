package graph

import (
	"time"
)

// DriveItem is the descriptor of a file or folder on the drive, as returned
// by the remote API.
type DriveItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Size         int64        `json:"size"`
	WebURL       string       `json:"webUrl,omitempty"`
	LastModified time.Time    `json:"lastModifiedDateTime"`
	DownloadURL  string       `json:"@microsoft.graph.downloadUrl,omitempty"`
	File         *FileFacet   `json:"file,omitempty"`
	Folder       *FolderFacet `json:"folder,omitempty"`
}

// FileFacet is present on items that are files.
type FileFacet struct {
	MimeType string `json:"mimeType"`
}

// FolderFacet is present on items that are folders.
type FolderFacet struct {
	ChildCount int `json:"childCount"`
}

// IsDir reports whether the item is a folder.
func (i DriveItem) IsDir() bool {
	return i.Folder != nil
}

type childrenResponse struct {
	Value    []DriveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}
