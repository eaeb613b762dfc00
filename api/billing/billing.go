// Package billing wraps the billing and account endpoints.
package billing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gridvolt/gpucloud-go/transport"
)

// Invoice status values.
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Account is a customer's billing account.
type Account struct {
	CustomerID  int64   `json:"customer_id"`
	Balance     float64 `json:"balance"`
	CreditLimit float64 `json:"credit_limit"`
	Status      string  `json:"status"`
	Currency    string  `json:"currency"`
}

// Invoice is one billing-period statement.
type Invoice struct {
	ID            int64      `json:"id"`
	CustomerID    int64      `json:"customer_id"`
	BillingPeriod string     `json:"billing_period"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UsageRecord is one metered line item.
type UsageRecord struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customer_id"`
	ResourceType       string    `json:"resource_type"`
	Quantity           float64   `json:"quantity"`
	UnitPrice          float64   `json:"unit_price"`
	Amount             float64   `json:"amount"`
	BillingPeriodStart time.Time `json:"billing_period_start"`
	BillingPeriodEnd   time.Time `json:"billing_period_end"`
}

// Client wraps the /billing endpoints.
type Client struct {
	t *transport.Client
}

// New builds a billing client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// Account returns the caller's billing account.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.t.Get(ctx, "/billing/account", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Invoices returns one page of invoices.
func (c *Client) Invoices(ctx context.Context, page transport.PageQuery, status string) (*transport.Page[Invoice], error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var out transport.Page[Invoice]
	err := c.t.Get(ctx, "/billing/invoices", &out,
		transport.WithQuery(page.Values()),
		transport.WithQuery(q))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Usage returns metered usage for a billing period (e.g. "2026-08").
func (c *Client) Usage(ctx context.Context, period string) ([]UsageRecord, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	var out []UsageRecord
	if err := c.t.Get(ctx, "/billing/usage", &out, transport.WithQuery(q)); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadInvoice fetches an invoice PDF.
func (c *Client) DownloadInvoice(ctx context.Context, id int64) ([]byte, error) {
	var buf []byte
	path := fmt.Sprintf("/billing/invoices/%d/download", id)
	if err := c.t.Get(ctx, path, &buf, transport.WithRawResponse()); err != nil {
		return nil, err
	}
	return buf, nil
}
