package transport

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Envelope is the wrapper every backend response uses. Success is code 0 or
// 200; anything else is a business error carrying msg/message.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"traceId,omitempty"`
}

func (e *Envelope) ok() bool {
	return e.Code == 0 || e.Code == 200
}

func (e *Envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Msg != "" {
		return e.Msg
	}
	return "request failed"
}

// PageQuery is the pagination part of every list request.
type PageQuery struct {
	Page     int
	PageSize int
	SortBy   string
	Order    string
}

// Values renders the query as URL parameters, omitting zero values.
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// Page is the backend's paginated list shape.
type Page[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}
