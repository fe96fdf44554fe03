// Package checkout turns the device's cart into a backend order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/port"
	"github.com/nikolayk812/grocery-cart/internal/session"
	"go.uber.org/zap"
)

var (
	ErrLoginRequired   = errors.New("login required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidShipping = errors.New("shipping name, phone and address are required")
	ErrInvalidPayment  = errors.New("unsupported payment method")
)

type Request struct {
	ShippingName  string
	ShippingPhone string
	ShippingAddr  string
	Note          string
	PaymentMethod domain.PaymentMethod
}

type Result struct {
	Order      domain.Order
	PaymentURL string
}

type Service struct {
	orders port.OrderGateway
	logger *zap.Logger
}

func NewService(orders port.OrderGateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		orders: orders,
		logger: logger.Named("checkout"),
	}
}

// PlaceOrder submits the cart. The cart is cleared once the order exists,
// even when the follow-up payment initiation fails; in that case the
// order is returned together with the error.
func (s *Service) PlaceOrder(ctx context.Context, sess *session.Session, token string, req Request) (Result, error) {
	if sess.Identity.Current().IsGuest() || token == "" {
		return Result{}, ErrLoginRequired
	}
	if err := validate(&req); err != nil {
		return Result{}, err
	}

	snapshot := sess.Cart.Snapshot()
	subtotal := snapshot.Subtotal(sess.Cart.Currency())
	if len(snapshot.Items) == 0 {
		return Result{}, ErrEmptyCart
	}

	order, err := s.orders.CreateOrder(ctx, token, domain.OrderRequest{
		IdempotencyKey: uuid.NewString(),
		Lines:          domain.OrderLines(snapshot.Items),
		ShippingName:   req.ShippingName,
		ShippingPhone:  req.ShippingPhone,
		ShippingAddr:   req.ShippingAddr,
		Note:           req.Note,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		return Result{}, fmt.Errorf("orders.CreateOrder: %w", err)
	}

	sess.Cart.Clear(ctx)
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Stringer("namespace", snapshot.Namespace),
		zap.Int("lines", len(snapshot.Items)),
		zap.Stringer("subtotal", subtotal),
		zap.String("payment_method", string(req.PaymentMethod)))

	result := Result{Order: order}
	if !req.PaymentMethod.RequiresRedirect() {
		return result, nil
	}

	redirect, err := s.orders.InitiatePayment(ctx, token, order.ID, req.PaymentMethod)
	if err != nil {
		return result, fmt.Errorf("orders.InitiatePayment[%s]: %w", order.ID, err)
	}
	result.PaymentURL = redirect.URL

	return result, nil
}

func validate(req *Request) error {
	req.ShippingName = strings.TrimSpace(req.ShippingName)
	req.ShippingPhone = strings.TrimSpace(req.ShippingPhone)
	req.ShippingAddr = strings.TrimSpace(req.ShippingAddr)

	if req.ShippingName == "" || req.ShippingPhone == "" || req.ShippingAddr == "" {
		return ErrInvalidShipping
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCOD
	}
	if !req.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}

	return nil
}
