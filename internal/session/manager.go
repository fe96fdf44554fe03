// Package session keeps one identity resolver and one cart container per
// device.
package session

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nikolayk812/grocery-cart/internal/cart"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/identity"
	"github.com/nikolayk812/grocery-cart/internal/port"
	"github.com/nikolayk812/grocery-cart/internal/storage"
	"go.uber.org/zap"
)

type Session struct {
	DeviceID string
	Identity *identity.Resolver
	Cart     *cart.Container

	unbind func()
}

// Logout forgets the user's stored cart and hands the device back to the guest.
func (s *Session) Logout(ctx context.Context) {
	s.Cart.Discard(ctx)
	s.Identity.Set(ctx, domain.Guest)
}

func (s *Session) close() {
	s.unbind()
}

type Manager struct {
	storage  port.CartStorage
	cartOpts []cart.Option
	logger   *zap.Logger

	mu       sync.Mutex
	sessions *lru.Cache
}

// NewManager keeps at most size devices in memory, evicting the least
// recently used one. Evicted devices reload from storage on their next request.
func NewManager(storage port.CartStorage, size int, logger *zap.Logger, cartOpts ...cart.Option) (*Manager, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		storage:  storage,
		cartOpts: cartOpts,
		logger:   logger.Named("session"),
	}

	sessions, err := lru.NewWithEvict(size, m.onEvict)
	if err != nil {
		return nil, fmt.Errorf("lru.NewWithEvict: %w", err)
	}
	m.sessions = sessions

	return m, nil
}

// Get returns the device's session, creating and loading it on first use.
// Loading happens outside the registry lock so a slow store only delays
// the device being loaded.
func (m *Manager) Get(ctx context.Context, deviceID string) (*Session, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("deviceID is empty")
	}

	if s, ok := m.lookup(deviceID); ok {
		return s, nil
	}

	s := &Session{
		DeviceID: deviceID,
		Identity: identity.NewResolver(domain.Guest),
	}

	opts := append([]cart.Option{cart.WithLogger(m.logger.With(zap.String("device_id", deviceID)))}, m.cartOpts...)
	s.Cart = cart.New(storage.NewPartition(m.storage, deviceID), opts...)
	s.unbind = s.Cart.Bind(ctx, s.Identity)

	m.mu.Lock()
	defer m.mu.Unlock()

	// another request for the same device may have won the race
	if v, ok := m.sessions.Get(deviceID); ok {
		s.close()
		return v.(*Session), nil
	}

	m.sessions.Add(deviceID, s)
	m.logger.Debug("session created", zap.String("device_id", deviceID))

	return s, nil
}

func (m *Manager) lookup(deviceID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.sessions.Get(deviceID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

func (m *Manager) Close() {
	m.sessions.Purge()
}

func (m *Manager) onEvict(key, value interface{}) {
	s, ok := value.(*Session)
	if !ok {
		return
	}

	s.close()
	m.logger.Debug("session evicted", zap.Any("device_id", key))
}
