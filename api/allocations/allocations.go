// Package allocations wraps the machine-allocation endpoints.
package allocations

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Allocation status values.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusReclaimed = "reclaimed"
	StatusPending   = "pending"
)

// Allocation is one machine-to-customer assignment.
type Allocation struct {
	ID             int64     `json:"id"`
	MachineID      int64     `json:"machineId"`
	MachineName    string    `json:"machineName"`
	CustomerID     int64     `json:"customerId"`
	CustomerName   string    `json:"customerName"`
	AllocatedAt    time.Time `json:"allocatedAt"`
	DurationMonths int       `json:"duration"`
	ExpiresAt      time.Time `json:"expiresAt"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	Operator       string    `json:"operator"`
}

// AssignRequest allocates machines to a customer for a number of months.
type AssignRequest struct {
	CustomerID int64   `json:"customerId"`
	MachineIDs []int64 `json:"machineIds"`
	Duration   int     `json:"duration"`
	Notes      string  `json:"notes,omitempty"`
}

// ExtendRequest lengthens an existing allocation.
type ExtendRequest struct {
	AdditionalMonths int    `json:"additionalMonths"`
	Notes            string `json:"notes,omitempty"`
}

// ListFilter narrows an allocation listing.
type ListFilter struct {
	CustomerID int64
	MachineID  int64
	Status     string
}

func (f ListFilter) values() url.Values {
	v := url.Values{}
	if f.CustomerID > 0 {
		v.Set("customerId", fmt.Sprintf("%d", f.CustomerID))
	}
	if f.MachineID > 0 {
		v.Set("machineId", fmt.Sprintf("%d", f.MachineID))
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	return v
}

// Client wraps the /allocations endpoints.
type Client struct {
	t *transport.Client
}

// New builds an allocations client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// List returns one page of allocation records.
func (c *Client) List(ctx context.Context, page transport.PageQuery, filter ListFilter) (*transport.Page[Allocation], error) {
	var out transport.Page[Allocation]
	err := c.t.Get(ctx, "/allocations", &out,
		transport.WithQuery(page.Values()),
		transport.WithQuery(filter.values()))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Assign allocates machines to a customer.
func (c *Client) Assign(ctx context.Context, req AssignRequest) ([]Allocation, error) {
	var out []Allocation
	if err := c.t.Post(ctx, "/allocations", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Extend lengthens an allocation.
func (c *Client) Extend(ctx context.Context, id int64, req ExtendRequest) (*Allocation, error) {
	var out Allocation
	if err := c.t.Put(ctx, fmt.Sprintf("/allocations/%d/extend", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Release reclaims an allocated machine.
func (c *Client) Release(ctx context.Context, id int64) error {
	return c.t.Post(ctx, fmt.Sprintf("/allocations/%d/release", id), nil, nil)
}
