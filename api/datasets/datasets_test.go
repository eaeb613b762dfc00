package datasets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridvolt/gpucloud-go/api/datasets"
	"github.com/gridvolt/gpucloud-go/transport"
)

func TestListSendsPaginationAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/datasets", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "1", q.Get("page"))
		require.Equal(t, "50", q.Get("pageSize"))
		require.Equal(t, datasets.VisibilityWorkspace, q.Get("visibility"))
		require.Equal(t, "imagenet", q.Get("keyword"))

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"list": []map[string]any{
					{"id": 5, "name": "imagenet-mini", "visibility": "workspace",
						"storage_path": "s3://datasets/5", "total_size": 1073741824, "file_count": 1000, "status": "ready"},
				},
				"total":    1,
				"page":     1,
				"pageSize": 50,
			},
		})
	}))
	defer srv.Close()

	c := datasets.New(transport.NewClient(srv.URL))
	page, err := c.List(context.Background(),
		transport.PageQuery{Page: 1, PageSize: 50},
		datasets.ListFilter{Visibility: datasets.VisibilityWorkspace, Keyword: "imagenet"})
	require.NoError(t, err)

	require.EqualValues(t, 1, page.Total)
	require.Len(t, page.List, 1)
	require.Equal(t, "imagenet-mini", page.List[0].Name)
	require.EqualValues(t, 1073741824, page.List[0].TotalSize)
	require.Equal(t, datasets.StatusReady, page.List[0].Status)
}

func TestCreateReturnsStoragePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/datasets", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "scrape-2026q3", body["name"])
		require.Equal(t, datasets.VisibilityPrivate, body["visibility"])
		require.Equal(t, []any{"nlp", "raw"}, body["tags"])

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"id": 11, "name": "scrape-2026q3", "visibility": "private",
				"storage_path": "s3://datasets/11", "status": "uploading"},
		})
	}))
	defer srv.Close()

	c := datasets.New(transport.NewClient(srv.URL))
	ds, err := c.Create(context.Background(), datasets.CreateRequest{
		Name:       "scrape-2026q3",
		Visibility: datasets.VisibilityPrivate,
		Tags:       []string{"nlp", "raw"},
	})
	require.NoError(t, err)
	require.Equal(t, "s3://datasets/11", ds.StoragePath)
	require.Equal(t, datasets.StatusUploading, ds.Status)
}

func TestUploadRefSendsFileMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/datasets/11/upload-url", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "shard-000.tar", body["file_name"])
		require.EqualValues(t, 52428800, body["file_size"])

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"upload_url": "https://storage.example.com/put/abc", "expires_in": 900},
		})
	}))
	defer srv.Close()

	c := datasets.New(transport.NewClient(srv.URL))
	ref, err := c.UploadRef(context.Background(), 11, "shard-000.tar", 52428800)
	require.NoError(t, err)
	require.Equal(t, "https://storage.example.com/put/abc", ref.UploadURL)
	require.EqualValues(t, 900, ref.ExpiresIn)
}

func TestDeleteBuildsPath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"code": 0})
	}))
	defer srv.Close()

	c := datasets.New(transport.NewClient(srv.URL))
	require.NoError(t, c.Delete(context.Background(), 11))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/datasets/11", gotPath)
}

func TestFilesSendsPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/datasets/11/files", r.URL.Path)
		require.Equal(t, "train/", r.URL.Query().Get("prefix"))
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"files": []map[string]any{
					{"name": "shard-000.tar", "path": "train/shard-000.tar", "size": 52428800, "is_directory": false},
				},
			},
		})
	}))
	defer srv.Close()

	c := datasets.New(transport.NewClient(srv.URL))
	files, err := c.Files(context.Background(), 11, "train/")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "train/shard-000.tar", files[0].Path)
}
