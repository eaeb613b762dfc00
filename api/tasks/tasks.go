// Package tasks wraps the training-job endpoints.
package tasks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Task status values.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Resources is the compute shape requested for a task.
type Resources struct {
	CPU      int `json:"cpu"`
	MemoryGB int `json:"memory"`
	GPU      int `json:"gpu"`
}

// Task is one training job.
type Task struct {
	ID          int64      `json:"id"`
	UUID        string     `json:"uuid,omitempty"`
	CustomerID  int64      `json:"customer_id"`
	WorkspaceID int64      `json:"workspace_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image"`
	Script      string     `json:"script"`
	Status      string     `json:"status"`
	Resources   Resources  `json:"resources"`
	DatasetIDs  []int64    `json:"datasets,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationSec int64      `json:"duration,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateRequest submits a training job.
type CreateRequest struct {
	Name       string            `json:"name"`
	Image      string            `json:"image"`
	Script     string            `json:"script"`
	DatasetIDs []int64           `json:"datasets,omitempty"`
	Resources  Resources         `json:"resources"`
	EnvVars    map[string]string `json:"env_vars,omitempty"`
}

// ListFilter narrows a task listing.
type ListFilter struct {
	Status  string
	Keyword string
}

func (f ListFilter) values() url.Values {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Keyword != "" {
		v.Set("keyword", f.Keyword)
	}
	return v
}

// Client wraps the /training/jobs endpoints.
type Client struct {
	t *transport.Client
}

// New builds a tasks client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// List returns one page of training jobs.
func (c *Client) List(ctx context.Context, page transport.PageQuery, filter ListFilter) (*transport.Page[Task], error) {
	var out transport.Page[Task]
	err := c.t.Get(ctx, "/training/jobs", &out,
		transport.WithQuery(page.Values()),
		transport.WithQuery(filter.values()))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one training job.
func (c *Client) Get(ctx context.Context, id int64) (*Task, error) {
	var out Task
	if err := c.t.Get(ctx, fmt.Sprintf("/training/jobs/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a training job.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	var out Task
	if err := c.t.Post(ctx, "/training/jobs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel stops a pending or running job. The backend keeps the job record with
// a cancelled status.
func (c *Client) Cancel(ctx context.Context, id int64) error {
	return c.t.Post(ctx, fmt.Sprintf("/training/jobs/%d/stop", id), nil, nil)
}

// Logs returns the last tail lines of a job's output. tail <= 0 means the
// backend default.
func (c *Client) Logs(ctx context.Context, id int64, tail int) (string, error) {
	var out struct {
		Logs string `json:"logs"`
	}
	opts := []transport.RequestOption{}
	if tail > 0 {
		q := url.Values{}
		q.Set("tail", strconv.Itoa(tail))
		opts = append(opts, transport.WithQuery(q))
	}
	if err := c.t.Get(ctx, fmt.Sprintf("/training/jobs/%d/logs", id), &out, opts...); err != nil {
		return "", err
	}
	return out.Logs, nil
}
