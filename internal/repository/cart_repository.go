package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/grocery-cart/internal/db"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.CartStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewCartWithTx(tx pgx.Tx) port.CartStore {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) Read(ctx context.Context, ns domain.Namespace) ([]domain.LineItem, error) {
	if ns == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	rows, err := r.q.GetCartItems(ctx, ns.String())
	if err != nil {
		return nil, fmt.Errorf("q.GetCartItems: %w", err)
	}

	return mapGetCartItemsRowsToDomain(rows), nil
}

// Write replaces every stored line of the namespace in one transaction.
func (r *cartRepository) Write(ctx context.Context, ns domain.Namespace, items []domain.LineItem) error {
	if ns == "" {
		return fmt.Errorf("namespace is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if _, err := q.DeleteCartItems(ctx, ns.String()); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteCartItems: %w", err)
		}

		for i, item := range items {
			// quantity column is int4
			if !domain.ValidQuantity(item.Quantity) {
				return struct{}{}, fmt.Errorf("item %s quantity %d: %w", item.ProductID, item.Quantity, domain.ErrInvalidQuantity)
			}
			if err := q.InsertCartItem(ctx, mapLineItemToParams(ns, i, item)); err != nil {
				return struct{}{}, fmt.Errorf("q.InsertCartItem[%s]: %w", item.ProductID, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *cartRepository) Remove(ctx context.Context, ns domain.Namespace) error {
	if ns == "" {
		return fmt.Errorf("namespace is empty")
	}

	if _, err := r.q.DeleteCartItems(ctx, ns.String()); err != nil {
		return fmt.Errorf("q.DeleteCartItems: %w", err)
	}

	return nil
}

func mapLineItemToParams(ns domain.Namespace, position int, item domain.LineItem) db.InsertCartItemParams {
	return db.InsertCartItemParams{
		Namespace: ns.String(),
		ProductID: item.ProductID,
		Position:  int32(position),
		Name:      item.Name,
		Price:     item.Price,
		Image:     item.Image,
		Unit:      item.Unit,
		Quantity:  int32(item.Quantity),
	}
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) domain.LineItem {
	return domain.LineItem{
		Product: domain.Product{
			ProductID: row.ProductID,
			Name:      row.Name,
			Price:     row.Price,
			Image:     row.Image,
			Unit:      row.Unit,
		},
		Quantity: int(row.Quantity),
	}
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(rows))

	for _, row := range rows {
		items = append(items, mapGetCartItemsRowToDomain(row))
	}

	return items
}
