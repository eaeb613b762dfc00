// Package workspaces wraps the workspace endpoints.
package workspaces

import (
	"context"
	"fmt"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Member roles inside a workspace.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Workspace is a shared project space for a customer team.
type Workspace struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is one user inside a workspace.
type Member struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspace_id"`
	CustomerID  int64     `json:"customer_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CreateRequest creates a workspace.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateRequest updates workspace metadata; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddMemberRequest adds a user to a workspace.
type AddMemberRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// Client wraps the /workspaces endpoints.
type Client struct {
	t *transport.Client
}

// New builds a workspaces client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// List returns one page of workspaces visible to the caller.
func (c *Client) List(ctx context.Context, page transport.PageQuery) (*transport.Page[Workspace], error) {
	var out transport.Page[Workspace]
	if err := c.t.Get(ctx, "/workspaces", &out, transport.WithQuery(page.Values())); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one workspace.
func (c *Client) Get(ctx context.Context, id int64) (*Workspace, error) {
	var out Workspace
	if err := c.t.Get(ctx, fmt.Sprintf("/workspaces/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create makes a new workspace owned by the caller.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Workspace, error) {
	var out Workspace
	if err := c.t.Post(ctx, "/workspaces", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes workspace metadata.
func (c *Client) Update(ctx context.Context, id int64, req UpdateRequest) (*Workspace, error) {
	var out Workspace
	if err := c.t.Put(ctx, fmt.Sprintf("/workspaces/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a workspace.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.t.Delete(ctx, fmt.Sprintf("/workspaces/%d", id), nil)
}

// Members lists the workspace's members.
func (c *Client) Members(ctx context.Context, id int64) ([]Member, error) {
	var out []Member
	if err := c.t.Get(ctx, fmt.Sprintf("/workspaces/%d/members", id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember adds a user to the workspace.
func (c *Client) AddMember(ctx context.Context, id int64, req AddMemberRequest) (*Member, error) {
	var out Member
	if err := c.t.Post(ctx, fmt.Sprintf("/workspaces/%d/members", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember removes a user from the workspace.
func (c *Client) RemoveMember(ctx context.Context, id, memberID int64) error {
	return c.t.Delete(ctx, fmt.Sprintf("/workspaces/%d/members/%d", id, memberID), nil)
}
