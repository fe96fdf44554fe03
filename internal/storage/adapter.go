// Package storage turns an error-returning cart backend into the
// never-failing write-through storage used by the cart container.
package storage

import (
	"context"
	"errors"

	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/kvstore"
	"github.com/nikolayk812/grocery-cart/internal/port"
	"go.uber.org/zap"
)

type Adapter struct {
	store  port.CartStore
	logger *zap.Logger
}

var _ port.CartStorage = (*Adapter)(nil)

func NewAdapter(store port.CartStore, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{
		store:  store,
		logger: logger.Named("storage"),
	}
}

// Read returns the stored list, or an empty list when the record is
// missing, unreadable or breaks a line item invariant.
func (a *Adapter) Read(ctx context.Context, ns domain.Namespace) []domain.LineItem {
	items, err := a.store.Read(ctx, ns)
	if err != nil {
		if errors.Is(err, kvstore.ErrCorruptRecord) {
			a.logger.Debug("discarding corrupt cart record", zap.Stringer("namespace", ns), zap.Error(err))
		} else {
			a.logger.Warn("cart read failed", zap.Stringer("namespace", ns), zap.Error(err))
		}
		return []domain.LineItem{}
	}

	if err := domain.ValidateItems(items); err != nil {
		a.logger.Debug("discarding invalid cart record", zap.Stringer("namespace", ns), zap.Error(err))
		return []domain.LineItem{}
	}

	if items == nil {
		return []domain.LineItem{}
	}

	return items
}

func (a *Adapter) Write(ctx context.Context, ns domain.Namespace, items []domain.LineItem) {
	if err := a.store.Write(ctx, ns, items); err != nil {
		a.logger.Warn("cart write failed", zap.Stringer("namespace", ns), zap.Int("items", len(items)), zap.Error(err))
	}
}

func (a *Adapter) Remove(ctx context.Context, ns domain.Namespace) {
	if err := a.store.Remove(ctx, ns); err != nil {
		a.logger.Warn("cart remove failed", zap.Stringer("namespace", ns), zap.Error(err))
	}
}
