package services

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/session"
)

// CartSessionStorage binds a session to the cart it is filling. The session
// only carries the cart id; the repository stays the source of truth.
type CartSessionStorage struct {
	session session.Store
	repo    repository.OrderRepository
}

func NewCartSessionStorage(s session.Store, repo repository.OrderRepository) *CartSessionStorage {
	return &CartSessionStorage{session: s, repo: repo}
}

// GetCart returns (nil, nil) when no cart is bound or the bound id no longer
// refers to a cart. A stale id is left in place until the next SetCart.
func (s *CartSessionStorage) GetCart(ctx context.Context) (*domain.Order, error) {
	id, ok, err := s.session.GetInt(ctx, session.CartKey)
	if err != nil {
		return nil, err
	}
	if !ok || id <= 0 {
		return nil, nil
	}

	cart, err := s.repo.FindCart(ctx, uint64(id))
	if err != nil {
		return nil, fmt.Errorf("find cart %d: %w", id, err)
	}
	return cart, nil
}

// SetCart does not check the order status; callers only bind carts.
func (s *CartSessionStorage) SetCart(ctx context.Context, order *domain.Order) error {
	return s.session.SetInt(ctx, session.CartKey, int64(order.ID))
}
