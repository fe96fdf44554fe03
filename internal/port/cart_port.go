package port

import (
	"context"

	"github.com/nikolayk812/grocery-cart/internal/domain"
)

// CartStore is a durable backend for namespaced carts.
type CartStore interface {
	Read(ctx context.Context, ns domain.Namespace) ([]domain.LineItem, error)
	Write(ctx context.Context, ns domain.Namespace, items []domain.LineItem) error
	Remove(ctx context.Context, ns domain.Namespace) error
}

// CartStorage is the write-through view the cart container works with.
// Failures never reach the caller: reads degrade to an empty list and
// writes are best effort.
type CartStorage interface {
	Read(ctx context.Context, ns domain.Namespace) []domain.LineItem
	Write(ctx context.Context, ns domain.Namespace, items []domain.LineItem)
	Remove(ctx context.Context, ns domain.Namespace)
}
