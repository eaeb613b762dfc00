package billing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridvolt/gpucloud-go/api/billing"
	"github.com/gridvolt/gpucloud-go/transport"
)

func TestInvoicesSendsPaginationAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/billing/invoices", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "1", q.Get("page"))
		require.Equal(t, "10", q.Get("pageSize"))
		require.Equal(t, billing.InvoiceOverdue, q.Get("status"))

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"list": []map[string]any{
					{"id": 19, "customer_id": 12, "billing_period": "2026-07", "total_amount": 1840.50, "status": "overdue"},
				},
				"total":    1,
				"page":     1,
				"pageSize": 10,
			},
		})
	}))
	defer srv.Close()

	c := billing.New(transport.NewClient(srv.URL))
	page, err := c.Invoices(context.Background(), transport.PageQuery{Page: 1, PageSize: 10}, billing.InvoiceOverdue)
	require.NoError(t, err)

	require.Len(t, page.List, 1)
	require.Equal(t, "2026-07", page.List[0].BillingPeriod)
	require.Equal(t, 1840.50, page.List[0].TotalAmount)
}

func TestUsageSendsPeriod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/billing/usage", r.URL.Path)
		require.Equal(t, "2026-08", r.URL.Query().Get("period"))
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": []map[string]any{
				{"id": 1, "customer_id": 12, "resource_type": "gpu_hours", "quantity": 320, "unit_price": 2.5, "amount": 800},
			},
		})
	}))
	defer srv.Close()

	c := billing.New(transport.NewClient(srv.URL))
	records, err := c.Usage(context.Background(), "2026-08")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "gpu_hours", records[0].ResourceType)
	require.Equal(t, 800.0, records[0].Amount)
}

func TestDownloadInvoiceReturnsRawBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/billing/invoices/19/download", r.URL.Path)
		w.Write([]byte("%PDF-1.7 statement"))
	}))
	defer srv.Close()

	c := billing.New(transport.NewClient(srv.URL))
	buf, err := c.DownloadInvoice(context.Background(), 19)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7 statement", string(buf))
}
