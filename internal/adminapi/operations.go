package adminapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/xela07ax/threatintel-console/internal/domain"
)

func (c *Client) GetStats(ctx context.Context) (*domain.Stats, error) {
	var out domain.Stats
	if err := c.do(ctx, "getStats", http.MethodGet, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out domain.CustomerList
	if err := c.do(ctx, "getCustomers", http.MethodGet, "/admin/customers", nil, &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

func (c *Client) GetTestKeys(ctx context.Context) ([]domain.TestKey, error) {
	var out domain.TestKeyList
	if err := c.do(ctx, "getTestKeys", http.MethodGet, "/admin/test-keys", nil, &out); err != nil {
		return nil, err
	}
	return out.TestKeys, nil
}

func (c *Client) GetCapacity(ctx context.Context) (*domain.Capacity, error) {
	var out domain.Capacity
	if err := c.do(ctx, "getCapacity", http.MethodGet, "/admin/capacity", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error) {
	var out domain.AuditLogList
	if err := c.do(ctx, "getAuditLogs", http.MethodGet, "/admin/audit-logs", nil, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (c *Client) CreateTestKey(ctx context.Context, req domain.CreateTestKeyRequest) (*domain.CreateTestKeyResponse, error) {
	var out domain.CreateTestKeyResponse
	if err := c.do(ctx, "createTestKey", http.MethodPost, "/admin/test-keys/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTestKey(ctx context.Context, email string) error {
	return c.do(ctx, "deleteTestKey", http.MethodDelete, "/admin/test-keys/"+escapeSegment(email), nil, nil)
}

func (c *Client) DeactivateCustomer(ctx context.Context, email string) error {
	return c.do(ctx, "deactivateCustomer", http.MethodPost, "/admin/customers/"+escapeSegment(email)+"/deactivate", nil, nil)
}

func (c *Client) DeleteCustomer(ctx context.Context, email string) error {
	return c.do(ctx, "deleteCustomer", http.MethodDelete, "/admin/customers/"+escapeSegment(email), nil, nil)
}

func (c *Client) RotateKey(ctx context.Context, email string) error {
	return c.do(ctx, "rotateKey", http.MethodPost, "/admin/customers/"+escapeSegment(email)+"/rotate-key", nil, nil)
}

// escapeSegment кодирует email как один сегмент пути: '@' и '/' тоже
// экранируются (a@b.com -> a%40b.com), пробел становится %20.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
