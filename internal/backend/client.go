// Package backend calls the storefront REST API for order placement and
// payment initiation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/port"
)

// DefaultErrorMessage is shown when the backend gives no usable message.
const DefaultErrorMessage = "Đã có lỗi xảy ra, vui lòng thử lại sau."

const maxErrorBody = 64 << 10

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// UserMessage returns the text to show for err: the backend's own message
// when there is one, the generic message otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return DefaultErrorMessage
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ port.OrderGateway = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error) {
	var resp envelope[domain.Order]

	headers := map[string]string{}
	if req.IdempotencyKey != "" {
		headers["Idempotency-Key"] = req.IdempotencyKey
	}

	if err := c.do(ctx, http.MethodPost, "/orders", token, headers, req, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("c.do[create order]: %w", err)
	}

	return resp.Data, nil
}

func (c *Client) InitiatePayment(ctx context.Context, token, orderID string, method domain.PaymentMethod) (domain.PaymentRedirect, error) {
	var resp envelope[domain.PaymentRedirect]

	body := map[string]string{
		"order_id": orderID,
		"method":   string(method),
	}

	if err := c.do(ctx, http.MethodPost, "/payments", token, nil, body, &resp); err != nil {
		return domain.PaymentRedirect{}, fmt.Errorf("c.do[initiate payment]: %w", err)
	}
	if resp.Data.URL == "" {
		return domain.PaymentRedirect{}, &APIError{Status: http.StatusBadGateway, Message: DefaultErrorMessage}
	}

	return resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

// extractMessage digs a human readable message out of an error body.
// Validation errors may come as a list; the first entry is used.
func extractMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return DefaultErrorMessage
	}

	for _, field := range []json.RawMessage{body.Message, body.Error} {
		if msg := firstString(field); msg != "" {
			return msg
		}
	}

	return DefaultErrorMessage
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}

	return ""
}
