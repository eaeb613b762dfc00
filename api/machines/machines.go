// Package machines wraps the machine-inventory endpoints.
package machines

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Machine status values.
const (
	StatusIdle        = "idle"
	StatusAllocated   = "allocated"
	StatusMaintenance = "maintenance"
	StatusOffline     = "offline"
)

// GPU is one physical GPU on a machine.
type GPU struct {
	ID            int64  `json:"id"`
	Index         int    `json:"index"`
	UUID          string `json:"uuid"`
	Name          string `json:"name"`
	MemoryTotalMB int64  `json:"memory_total_mb"`
	Brand         string `json:"brand,omitempty"`
	Status        string `json:"status,omitempty"`
	HealthStatus  string `json:"health_status,omitempty"`
	AllocatedTo   string `json:"allocated_to,omitempty"`
}

// Machine is one host in the GPU inventory.
type Machine struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Hostname       string     `json:"hostname,omitempty"`
	Region         string     `json:"region"`
	Status         string     `json:"status"`
	IPAddress      string     `json:"ip_address,omitempty"`
	PublicIP       string     `json:"public_ip,omitempty"`
	SSHPort        int        `json:"ssh_port,omitempty"`
	SSHUsername    string     `json:"ssh_username,omitempty"`
	OSType         string     `json:"os_type,omitempty"`
	OSVersion      string     `json:"os_version,omitempty"`
	CPUInfo        string     `json:"cpu_info,omitempty"`
	TotalCPU       int        `json:"total_cpu,omitempty"`
	TotalMemoryGB  int        `json:"total_memory_gb,omitempty"`
	TotalDiskGB    int        `json:"total_disk_gb,omitempty"`
	HealthStatus   string     `json:"health_status,omitempty"`
	DeploymentMode string     `json:"deployment_mode,omitempty"`
	LastHeartbeat  *time.Time `json:"last_heartbeat,omitempty"`
	GPUs           []GPU      `json:"gpus,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateRequest adds a machine to the inventory.
type CreateRequest struct {
	Name        string `json:"name"`
	Hostname    string `json:"hostname,omitempty"`
	Region      string `json:"region"`
	IPAddress   string `json:"ip_address"`
	PublicIP    string `json:"public_ip,omitempty"`
	SSHPort     int    `json:"ssh_port"`
	SSHUsername string `json:"ssh_username"`
	SSHPassword string `json:"ssh_password,omitempty"`
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ListFilter narrows a machine listing.
type ListFilter struct {
	Status   string
	Region   string
	GPUModel string
}

func (f ListFilter) values() url.Values {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Region != "" {
		v.Set("region", f.Region)
	}
	if f.GPUModel != "" {
		v.Set("gpu_model", f.GPUModel)
	}
	return v
}

// Client wraps the /machines endpoints.
type Client struct {
	t *transport.Client
}

// New builds a machines client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// List returns one page of the inventory.
func (c *Client) List(ctx context.Context, page transport.PageQuery, filter ListFilter) (*transport.Page[Machine], error) {
	var out transport.Page[Machine]
	err := c.t.Get(ctx, "/machines", &out,
		transport.WithQuery(page.Values()),
		transport.WithQuery(filter.values()))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one machine with its GPUs.
func (c *Client) Get(ctx context.Context, id int64) (*Machine, error) {
	var out Machine
	if err := c.t.Get(ctx, fmt.Sprintf("/machines/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a machine.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Machine, error) {
	var out Machine
	if err := c.t.Post(ctx, "/machines", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a machine from the inventory.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.t.Delete(ctx, fmt.Sprintf("/machines/%d", id), nil)
}

// Import bulk-registers machines.
func (c *Client) Import(ctx context.Context, reqs []CreateRequest) (*ImportResult, error) {
	var out ImportResult
	if err := c.t.Post(ctx, "/machines/import", reqs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
