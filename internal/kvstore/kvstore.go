// Package kvstore persists carts as one JSON record per namespace key:
// a UTF-8 JSON array of line items.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/port"
)

var ErrCorruptRecord = errors.New("corrupt cart record")

// RecordStore is a string key-value backend. Get reports ok=false for
// missing keys instead of an error.
type RecordStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type store struct {
	records RecordStore
}

func New(records RecordStore) (port.CartStore, error) {
	if records == nil {
		return nil, fmt.Errorf("records is nil")
	}

	return &store{records: records}, nil
}

func (s *store) Read(ctx context.Context, ns domain.Namespace) ([]domain.LineItem, error) {
	if ns == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	raw, ok, err := s.records.Get(ctx, ns.String())
	if err != nil {
		return nil, fmt.Errorf("records.Get: %w", err)
	}
	if !ok {
		return nil, nil
	}

	items, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("Decode[%s]: %w", ns, err)
	}

	return items, nil
}

func (s *store) Write(ctx context.Context, ns domain.Namespace, items []domain.LineItem) error {
	if ns == "" {
		return fmt.Errorf("namespace is empty")
	}

	raw, err := Encode(items)
	if err != nil {
		return fmt.Errorf("Encode: %w", err)
	}

	if err := s.records.Set(ctx, ns.String(), raw); err != nil {
		return fmt.Errorf("records.Set: %w", err)
	}

	return nil
}

func (s *store) Remove(ctx context.Context, ns domain.Namespace) error {
	if ns == "" {
		return fmt.Errorf("namespace is empty")
	}

	if err := s.records.Delete(ctx, ns.String()); err != nil {
		return fmt.Errorf("records.Delete: %w", err)
	}

	return nil
}
