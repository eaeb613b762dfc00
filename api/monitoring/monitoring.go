// Package monitoring wraps the metrics and alerting endpoints.
package monitoring

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// MachineMetrics is one monitoring sample for a machine.
type MachineMetrics struct {
	MachineID      int64   `json:"machineId"`
	Timestamp      int64   `json:"timestamp"`
	GPUUsage       float64 `json:"gpuUsage"`
	GPUMemory      float64 `json:"gpuMemory"`
	GPUTemperature float64 `json:"gpuTemperature"`
	CPUUsage       float64 `json:"cpuUsage"`
	MemoryUsage    float64 `json:"memoryUsage"`
	DiskUsage      float64 `json:"diskUsage"`
	NetworkIn      float64 `json:"networkIn"`
	NetworkOut     float64 `json:"networkOut"`
}

// ClusterOverview is the fleet-wide rollup for the admin dashboard.
type ClusterOverview struct {
	TotalMachines     int     `json:"total_machines"`
	OnlineMachines    int     `json:"online_machines"`
	AllocatedMachines int     `json:"allocated_machines"`
	TotalGPUs         int     `json:"total_gpus"`
	AllocatedGPUs     int     `json:"allocated_gpus"`
	AvgGPUUsage       float64 `json:"avg_gpu_usage"`
}

// Alert is one fired alert.
type Alert struct {
	ID           int64      `json:"id"`
	RuleID       int64      `json:"rule_id"`
	RuleName     string     `json:"rule_name"`
	ResourceType string     `json:"resource_type"`
	ResourceID   int64      `json:"resource_id"`
	Severity     string     `json:"severity"`
	Message      string     `json:"message"`
	TriggeredAt  time.Time  `json:"triggered_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// Client wraps the /monitoring endpoints.
type Client struct {
	t *transport.Client
}

// New builds a monitoring client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// MachineMetrics returns samples for one machine over the given window.
func (c *Client) MachineMetrics(ctx context.Context, machineID int64, from, to time.Time) ([]MachineMetrics, error) {
	q := url.Values{}
	q.Set("from", strconv.FormatInt(from.Unix(), 10))
	q.Set("to", strconv.FormatInt(to.Unix(), 10))
	var out []MachineMetrics
	path := fmt.Sprintf("/monitoring/machines/%d/metrics", machineID)
	if err := c.t.Get(ctx, path, &out, transport.WithQuery(q)); err != nil {
		return nil, err
	}
	return out, nil
}

// Overview returns the fleet rollup.
func (c *Client) Overview(ctx context.Context) (*ClusterOverview, error) {
	var out ClusterOverview
	if err := c.t.Get(ctx, "/monitoring/overview", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Alerts returns one page of fired alerts, optionally filtered by severity.
func (c *Client) Alerts(ctx context.Context, page transport.PageQuery, severity string) (*transport.Page[Alert], error) {
	q := url.Values{}
	if severity != "" {
		q.Set("severity", severity)
	}
	var out transport.Page[Alert]
	err := c.t.Get(ctx, "/monitoring/alerts", &out,
		transport.WithQuery(page.Values()),
		transport.WithQuery(q))
	if err != nil {
		return nil, err
	}
	return &out, nil
}
