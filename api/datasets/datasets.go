// Package datasets wraps the dataset-catalog endpoints. Uploads go through
// pre-signed URLs: the client asks for an upload reference, pushes bytes to
// object storage directly, then reports completion.
package datasets

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Dataset visibility values.
const (
	VisibilityPublic    = "public"
	VisibilityWorkspace = "workspace"
	VisibilityPrivate   = "private"
)

// Dataset status values.
const (
	StatusUploading = "uploading"
	StatusReady     = "ready"
	StatusError     = "error"
)

// Dataset is one entry in the data catalog.
type Dataset struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid,omitempty"`
	CustomerID  int64     `json:"customer_id"`
	WorkspaceID int64     `json:"workspace_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Visibility  string    `json:"visibility"`
	StoragePath string    `json:"storage_path"`
	TotalSize   int64     `json:"total_size"`
	FileCount   int       `json:"file_count"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FileInfo is one object under a dataset's storage path.
type FileInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	IsDirectory bool      `json:"is_directory"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// CreateRequest registers a dataset in the catalog.
type CreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Visibility  string   `json:"visibility"`
	Tags        []string `json:"tags,omitempty"`
}

// UploadRef is a pre-signed upload target for one file.
type UploadRef struct {
	UploadURL string `json:"upload_url"`
	ExpiresIn int64  `json:"expires_in"`
}

// ListFilter narrows a dataset listing.
type ListFilter struct {
	Visibility string
	Tag        string
	Keyword    string
}

func (f ListFilter) values() url.Values {
	v := url.Values{}
	if f.Visibility != "" {
		v.Set("visibility", f.Visibility)
	}
	if f.Tag != "" {
		v.Set("tag", f.Tag)
	}
	if f.Keyword != "" {
		v.Set("keyword", f.Keyword)
	}
	return v
}

// Client wraps the /datasets endpoints.
type Client struct {
	t *transport.Client
}

// New builds a datasets client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// List returns one page of the catalog.
func (c *Client) List(ctx context.Context, page transport.PageQuery, filter ListFilter) (*transport.Page[Dataset], error) {
	var out transport.Page[Dataset]
	err := c.t.Get(ctx, "/datasets", &out,
		transport.WithQuery(page.Values()),
		transport.WithQuery(filter.values()))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one dataset.
func (c *Client) Get(ctx context.Context, id int64) (*Dataset, error) {
	var out Dataset
	if err := c.t.Get(ctx, fmt.Sprintf("/datasets/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a dataset and returns it with its storage path assigned.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Dataset, error) {
	var out Dataset
	if err := c.t.Post(ctx, "/datasets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a dataset and its stored files.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.t.Delete(ctx, fmt.Sprintf("/datasets/%d", id), nil)
}

// UploadRef requests a pre-signed upload URL for one file.
func (c *Client) UploadRef(ctx context.Context, id int64, fileName string, fileSize int64) (*UploadRef, error) {
	body := map[string]any{"file_name": fileName, "file_size": fileSize}
	var out UploadRef
	if err := c.t.Post(ctx, fmt.Sprintf("/datasets/%d/upload-url", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Files lists the objects stored under a dataset, optionally below a prefix.
func (c *Client) Files(ctx context.Context, id int64, prefix string) ([]FileInfo, error) {
	var out struct {
		Files []FileInfo `json:"files"`
	}
	opts := []transport.RequestOption{}
	if prefix != "" {
		q := url.Values{}
		q.Set("prefix", prefix)
		opts = append(opts, transport.WithQuery(q))
	}
	if err := c.t.Get(ctx, fmt.Sprintf("/datasets/%d/files", id), &out, opts...); err != nil {
		return nil, err
	}
	return out.Files, nil
}
