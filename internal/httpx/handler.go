package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/grocery-cart/internal/backend"
	"github.com/nikolayk812/grocery-cart/internal/cart"
	"github.com/nikolayk812/grocery-cart/internal/checkout"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/identity"
	"github.com/nikolayk812/grocery-cart/internal/session"
	"go.uber.org/zap"
)

const (
	msgGeneric         = backend.DefaultErrorMessage
	msgBadRequest      = "Yêu cầu không hợp lệ."
	msgSessionExpired  = "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại."
	msgLoginRequired   = "Vui lòng đăng nhập để đặt hàng."
	msgEmptyCart       = "Giỏ hàng của bạn đang trống."
	msgInvalidProduct  = "Thông tin sản phẩm không hợp lệ."
	msgInvalidQuantity = "Số lượng phải từ 1 đến 999."
	msgInvalidShipping = "Vui lòng nhập đầy đủ thông tin giao hàng."
	msgInvalidPayment  = "Phương thức thanh toán không hợp lệ."
)

type Handler struct {
	sessions     *session.Manager
	tokens       *identity.TokenParser
	checkout     *checkout.Service
	logger       *zap.Logger
	secureCookie bool
}

type HandlerOption func(*Handler)

func WithSecureCookie(secure bool) HandlerOption {
	return func(h *Handler) {
		h.secureCookie = secure
	}
}

func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewHandler(sessions *session.Manager, tokens *identity.TokenParser, checkout *checkout.Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		sessions: sessions,
		tokens:   tokens,
		checkout: checkout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("httpx")

	return h
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartResponse(sessionFrom(r.Context()).Cart))
}

func (h *Handler) GetCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CountResponse{TotalItems: sessionFrom(r.Context()).Cart.TotalItems()})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", msgBadRequest)
		return
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" || req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid_product", msgInvalidProduct)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		if !domain.ValidQuantity(*req.Quantity) {
			writeError(w, http.StatusBadRequest, "invalid_quantity", msgInvalidQuantity)
			return
		}
		quantity = *req.Quantity
	}

	c := sessionFrom(r.Context()).Cart
	c.AddItem(r.Context(), domain.Product{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Unit:      req.Unit,
	}, quantity)

	writeJSON(w, http.StatusOK, cartResponse(c))
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", msgBadRequest)
		return
	}

	// Rejected here, the container would ignore it anyway.
	if !domain.ValidQuantity(req.Quantity) {
		writeError(w, http.StatusBadRequest, "invalid_quantity", msgInvalidQuantity)
		return
	}

	c := sessionFrom(r.Context()).Cart
	c.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity)

	writeJSON(w, http.StatusOK, cartResponse(c))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r.Context()).Cart
	c.RemoveItem(r.Context(), chi.URLParam(r, "productID"))

	writeJSON(w, http.StatusOK, cartResponse(c))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r.Context()).Cart
	c.Clear(r.Context())

	writeJSON(w, http.StatusOK, cartResponse(c))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Logout(r.Context())

	writeJSON(w, http.StatusOK, cartResponse(s.Cart))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", msgBadRequest)
		return
	}

	s := sessionFrom(r.Context())
	result, err := h.checkout.PlaceOrder(r.Context(), s, tokenFrom(r.Context()), checkout.Request{
		ShippingName:  req.ShippingName,
		ShippingPhone: req.ShippingPhone,
		ShippingAddr:  req.ShippingAddr,
		Note:          req.Note,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, CheckoutResponse{Order: result.Order, PaymentURL: result.PaymentURL})
	case result.Order.ID != "":
		// the order exists, only the payment redirect failed
		h.logger.Warn("payment initiation failed", zap.String("order_id", result.Order.ID), zap.Error(err))
		writeJSON(w, http.StatusCreated, CheckoutResponse{Order: result.Order, PaymentError: backend.UserMessage(err)})
	case errors.Is(err, checkout.ErrLoginRequired):
		writeError(w, http.StatusUnauthorized, "login_required", msgLoginRequired)
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "empty_cart", msgEmptyCart)
	case errors.Is(err, checkout.ErrInvalidShipping):
		writeError(w, http.StatusBadRequest, "invalid_shipping", msgInvalidShipping)
	case errors.Is(err, checkout.ErrInvalidPayment):
		writeError(w, http.StatusBadRequest, "invalid_payment", msgInvalidPayment)
	default:
		h.logger.Error("checkout failed", zap.String("device_id", s.DeviceID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "backend_error", backend.UserMessage(err))
	}
}

func cartResponse(c *cart.Container) CartResponse {
	snapshot := c.Snapshot()
	subtotal := c.Subtotal()

	return CartResponse{
		Namespace:  string(snapshot.Namespace),
		Guest:      snapshot.Namespace == domain.Guest.Namespace(),
		Items:      mapLineItems(snapshot.Items),
		TotalItems: snapshot.TotalItems(),
		Subtotal: MoneyResponse{
			Amount:   subtotal.Amount,
			Currency: subtotal.Currency.String(),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
