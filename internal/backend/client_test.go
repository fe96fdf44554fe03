package backend_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikolayk812/grocery-cart/internal/backend"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := backend.NewClient(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestClient_CreateOrder(t *testing.T) {
	var (
		gotAuth string
		gotKey  string
		gotBody domain.OrderRequest
	)

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"o1","status":"PENDING","total":"64000"}}`))
	})

	req := domain.OrderRequest{
		IdempotencyKey: "k1",
		Lines: []domain.OrderLine{
			{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(32000)},
		},
		ShippingName:  "Nguyễn Văn A",
		ShippingPhone: "0900000000",
		ShippingAddr:  "1 Lê Lợi, Q1",
		PaymentMethod: domain.PaymentCOD,
	}

	order, err := c.CreateOrder(t.Context(), "tok", req)
	require.NoError(t, err)

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "PENDING", order.Status)
	assert.True(t, decimal.NewFromInt(64000).Equal(order.Total))
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "k1", gotKey)
	require.Len(t, gotBody.Lines, 1)
	assert.Equal(t, "p1", gotBody.Lines[0].ProductID)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "message field",
			status:      http.StatusConflict,
			body:        `{"message":"Sản phẩm đã hết hàng"}`,
			wantMessage: "Sản phẩm đã hết hàng",
		},
		{
			name:        "error field",
			status:      http.StatusBadRequest,
			body:        `{"error":"invalid address"}`,
			wantMessage: "invalid address",
		},
		{
			name:        "message list",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message":["phone must be valid","name is required"]}`,
			wantMessage: "phone must be valid",
		},
		{
			name:        "non json body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: backend.DefaultErrorMessage,
		},
		{
			name:        "empty message",
			status:      http.StatusInternalServerError,
			body:        `{"message":""}`,
			wantMessage: backend.DefaultErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateOrder(t.Context(), "", domain.OrderRequest{})
			require.Error(t, err)

			var apiErr *backend.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, backend.UserMessage(err))
		})
	}
}

func TestClient_InitiatePayment(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "o1", body["order_id"])
		assert.Equal(t, "vnpay", body["method"])

		_, _ = w.Write([]byte(`{"data":{"payment_url":"https://pay.example/redirect/o1"}}`))
	})

	redirect, err := c.InitiatePayment(t.Context(), "tok", "o1", domain.PaymentVNPay)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect/o1", redirect.URL)
}

func TestClient_InitiatePaymentWithoutURL(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	_, err := c.InitiatePayment(t.Context(), "tok", "o1", domain.PaymentMoMo)
	require.Error(t, err)
	assert.Equal(t, backend.DefaultErrorMessage, backend.UserMessage(err))
}

func TestUserMessage_NonAPIError(t *testing.T) {
	assert.Equal(t, backend.DefaultErrorMessage, backend.UserMessage(errors.New("dial tcp: refused")))
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := backend.NewClient("", time.Second)
	require.EqualError(t, err, "baseURL is empty")
}
