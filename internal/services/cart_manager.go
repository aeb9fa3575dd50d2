package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/session"
)

type CartManager struct {
	repo    repository.OrderRepository
	factory *OrderFactory
	locks   *keyedMutex
	now     func() time.Time
}

func NewCartManager(repo repository.OrderRepository, factory *OrderFactory) *CartManager {
	return &CartManager{
		repo:    repo,
		factory: factory,
		locks:   newKeyedMutex(),
		now:     utcNow,
	}
}

// GetCurrentCart returns the cart bound to sess or, failing that, a fresh
// cart that exists only in memory until Save is called. Errors come only
// from the session store or the repository.
func (m *CartManager) GetCurrentCart(ctx context.Context, sess session.Store) (*domain.Order, error) {
	cart, err := NewCartSessionStorage(sess, m.repo).GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = m.factory.Create()
	}
	return cart, nil
}

// Save persists cart and then binds it to sess. The session is never
// rebound when the write fails.
func (m *CartManager) Save(ctx context.Context, sess session.Store, cart *domain.Order) error {
	if err := m.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	if err := NewCartSessionStorage(sess, m.repo).SetCart(ctx, cart); err != nil {
		return fmt.Errorf("bind cart %d: %w", cart.ID, err)
	}

	slog.DebugContext(ctx, "cart saved", "cart_id", cart.ID, "session", sess.ID(), "items", len(cart.Items))
	return nil
}

// UpdateCurrentCart runs load, mutate and save while holding a lock for the
// session, so concurrent requests of one session cannot create two carts and
// lose one of them. The lock is local to this process. Nothing is saved when
// mutate fails.
func (m *CartManager) UpdateCurrentCart(ctx context.Context, sess session.Store, mutate func(cart *domain.Order, now time.Time) error) (*domain.Order, error) {
	unlock := m.locks.Lock(sess.ID())
	defer unlock()

	cart, err := m.GetCurrentCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	if err := mutate(cart, m.now()); err != nil {
		return nil, err
	}

	if err := m.Save(ctx, sess, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
