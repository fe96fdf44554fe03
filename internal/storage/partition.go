package storage

import (
	"context"

	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/port"
)

// Partition scopes every namespace to one device, the way a browser
// scopes local storage to one profile. "cart_u1" on device d1 is stored
// under "d1/cart_u1".
type Partition struct {
	storage port.CartStorage
	device  string
}

var _ port.CartStorage = (*Partition)(nil)

func NewPartition(storage port.CartStorage, device string) *Partition {
	return &Partition{
		storage: storage,
		device:  device,
	}
}

func (p *Partition) Read(ctx context.Context, ns domain.Namespace) []domain.LineItem {
	return p.storage.Read(ctx, p.key(ns))
}

func (p *Partition) Write(ctx context.Context, ns domain.Namespace, items []domain.LineItem) {
	p.storage.Write(ctx, p.key(ns), items)
}

func (p *Partition) Remove(ctx context.Context, ns domain.Namespace) {
	p.storage.Remove(ctx, p.key(ns))
}

func (p *Partition) key(ns domain.Namespace) domain.Namespace {
	if p.device == "" {
		return ns
	}
	return domain.Namespace(p.device + "/" + ns.String())
}
