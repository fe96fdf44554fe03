// Package cart holds the in-memory cart of one device and keeps it in
// sync with durable storage and with the active identity.
//
// Every mutation writes the full line-item list through to storage under
// the current namespace before it returns. An identity transition swaps
// the cart wholesale: the visible list is emptied first, then replaced by
// whatever the new namespace has stored. Carts are never merged.
package cart

import (
	"context"
	"sync"

	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/identity"
	"github.com/nikolayk812/grocery-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

var vnd = currency.MustParseISO("VND")

type Container struct {
	storage  port.CartStorage
	currency currency.Unit
	logger   *zap.Logger

	mu   sync.Mutex
	cart domain.Cart
	// bumped by every switch; a load only lands if no newer switch started
	revision uint64
	// set while the latest switch is reading storage; mutations wait on loaded
	loading bool
	loaded  *sync.Cond
}

type Option func(*Container)

func WithCurrency(unit currency.Unit) Option {
	return func(c *Container) {
		c.currency = unit
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns an empty container in the guest namespace. Call Bind or
// SwitchIdentity to load a stored cart.
func New(storage port.CartStorage, opts ...Option) *Container {
	c := &Container{
		storage:  storage,
		currency: vnd,
		logger:   zap.NewNop(),
		cart:     domain.Cart{Namespace: domain.Guest.Namespace()},
	}
	c.loaded = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Bind loads the resolver's current identity and follows every later
// transition until the returned function is called.
func (c *Container) Bind(ctx context.Context, r *identity.Resolver) (unbind func()) {
	unbind = r.Subscribe(func(ctx context.Context, _, next domain.Identity) {
		c.SwitchIdentity(ctx, next)
	})
	c.SwitchIdentity(ctx, r.Current())

	return unbind
}

// SwitchIdentity empties the visible cart, then adopts the record stored
// for the identity's namespace. Mutations issued meanwhile wait for the
// record and apply on top of it. A load overtaken by a newer switch is
// dropped.
func (c *Container) SwitchIdentity(ctx context.Context, id domain.Identity) {
	ns := id.Namespace()

	c.mu.Lock()
	c.revision++
	rev := c.revision
	c.cart = domain.Cart{Namespace: ns}
	c.loading = true
	c.mu.Unlock()

	saved := c.storage.Read(ctx, ns)

	c.mu.Lock()
	defer c.mu.Unlock()

	if rev != c.revision {
		c.logger.Debug("stale cart load dropped", zap.Stringer("namespace", ns))
		return
	}

	c.loading = false
	c.loaded.Broadcast()

	if len(saved) == 0 {
		return
	}

	c.cart.Items = saved
	c.logger.Debug("cart loaded", zap.Stringer("namespace", ns), zap.Int("lines", len(saved)))
}

// AddItem adds quantity units of p, merging with an existing line.
// A quantity below 1 means "not given" and adds one unit.
func (c *Container) AddItem(ctx context.Context, p domain.Product, quantity int) {
	c.mutate(ctx, func(cart *domain.Cart) bool {
		cart.Add(p, quantity)
		return true
	})
}

// UpdateQuantity ignores quantities below 1 and unknown products.
func (c *Container) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	c.mutate(ctx, func(cart *domain.Cart) bool {
		return cart.SetQuantity(productID, quantity)
	})
}

func (c *Container) RemoveItem(ctx context.Context, productID string) {
	c.mutate(ctx, func(cart *domain.Cart) bool {
		return cart.Remove(productID)
	})
}

func (c *Container) Clear(ctx context.Context) {
	c.mutate(ctx, func(cart *domain.Cart) bool {
		cart.Clear()
		return true
	})
}

// Discard wipes the stored record of the current namespace and empties
// the cart. Used when a user logs out and asks to forget the cart.
func (c *Container) Discard(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.awaitLoad()
	c.cart.Clear()
	c.storage.Remove(ctx, c.cart.Namespace)
}

func (c *Container) Items() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.cart.Clone()
	return snapshot.Items
}

func (c *Container) Snapshot() domain.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cart.Clone()
}

func (c *Container) Namespace() domain.Namespace {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cart.Namespace
}

// TotalItems is recomputed from the line items on every call.
func (c *Container) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cart.TotalItems()
}

func (c *Container) Subtotal() domain.Money {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cart.Subtotal(c.currency)
}

func (c *Container) Currency() currency.Unit {
	return c.currency
}

// mutate applies fn and writes the result through while still holding
// the lock, so storage sees mutations in the order they were applied.
func (c *Container) mutate(ctx context.Context, fn func(cart *domain.Cart) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.awaitLoad()
	if !fn(&c.cart) {
		return
	}

	snapshot := c.cart.Clone()
	c.storage.Write(ctx, snapshot.Namespace, snapshot.Items)
}

// awaitLoad blocks until the latest switch has adopted its record.
// c.mu must be held.
func (c *Container) awaitLoad() {
	for c.loading {
		c.loaded.Wait()
	}
}
