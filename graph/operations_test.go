package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/root:/notes/hello.txt:/content", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "hello world", string(body))

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"item-42","name":"hello.txt","size":11,"file":{"mimeType":"text/plain"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	item, err := client.SimpleUpload(context.Background(), "notes/hello.txt", []byte("hello world"))

	require.NoError(t, err)
	assert.Equal(t, "item-42", item.ID)
	assert.EqualValues(t, 11, item.Size)
	assert.False(t, item.IsDir())
}

func TestGetItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/root:/docs/q1.pdf:", r.URL.Path)
		fmt.Fprint(w, `{"id":"item-1","name":"q1.pdf","size":2048,"lastModifiedDateTime":"2026-08-30T10:00:00Z"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	item, err := client.GetItem(context.Background(), "docs/q1.pdf")

	require.NoError(t, err)
	assert.Equal(t, "q1.pdf", item.Name)
	assert.EqualValues(t, 2048, item.Size)
	assert.Equal(t, 2026, item.LastModified.Year())
}

func TestGetItem_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetItem(context.Background(), "docs/missing.pdf")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListChildren_FollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/root:/docs:/children":
			fmt.Fprintf(w, `{"value":[{"id":"1","name":"a.txt"},{"id":"2","name":"b.txt"}],"@odata.nextLink":"%s/page2"}`, server.URL)
		case "/page2":
			fmt.Fprint(w, `{"value":[{"id":"3","name":"c.txt"}]}`)
		default:
			t.Errorf("unexpected request path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	items, err := client.ListChildren(context.Background(), "docs")

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a.txt", items[0].Name)
	assert.Equal(t, "c.txt", items[2].Name)
}

func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/root:/old.txt:", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	assert.NoError(t, client.Delete(context.Background(), "old.txt"))
}

func TestDelete_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	assert.ErrorIs(t, client.Delete(context.Background(), "old.txt"), ErrNotFound)
}

func TestCreateFolder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/root:/docs:/children", r.URL.Path)

		var body createFolderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "reports", body.Name)
		require.Equal(t, "fail", body.ConflictBehavior)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"dir-1","name":"reports","folder":{"childCount":0}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	item, err := client.CreateFolder(context.Background(), "docs/reports")

	require.NoError(t, err)
	assert.True(t, item.IsDir())
}

func TestCreateFolder_InRoot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/root/children", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"dir-2","name":"inbox","folder":{"childCount":0}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateFolder(context.Background(), "inbox")

	assert.NoError(t, err)
}

func TestMove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/root:/docs/q1.pdf:", r.URL.Path)

		var body moveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "/drive/root:/archive", body.ParentReference.Path)
		require.Equal(t, "q1-final.pdf", body.Name)

		fmt.Fprint(w, `{"id":"item-1","name":"q1-final.pdf","size":2048}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	item, err := client.Move(context.Background(), "docs/q1.pdf", "archive/q1-final.pdf")

	require.NoError(t, err)
	assert.Equal(t, "q1-final.pdf", item.Name)
}

func Test_splitPath(t *testing.T) {
	tests := []struct {
		itemPath   string
		wantParent string
		wantName   string
	}{
		{itemPath: "a/b/c.txt", wantParent: "a/b", wantName: "c.txt"},
		{itemPath: "c.txt", wantParent: "", wantName: "c.txt"},
		{itemPath: "/a/", wantParent: "", wantName: "a"},
		{itemPath: "", wantParent: "", wantName: ""},
	}
	for _, tt := range tests {
		parent, name := splitPath(tt.itemPath)
		assert.Equal(t, tt.wantParent, parent, tt.itemPath)
		assert.Equal(t, tt.wantName, name, tt.itemPath)
	}
}
