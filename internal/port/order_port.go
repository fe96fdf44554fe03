package port

import (
	"context"

	"github.com/nikolayk812/grocery-cart/internal/domain"
)

type OrderGateway interface {
	CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error)
	InitiatePayment(ctx context.Context, token, orderID string, method domain.PaymentMethod) (domain.PaymentRedirect, error)
}
