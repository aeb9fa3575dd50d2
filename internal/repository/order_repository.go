package repository

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// OrderRepository is the durable store for carts and orders. Finders return
// (nil, nil) when nothing matches.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindCart(ctx context.Context, id uint64) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
	FindCartsNotModifiedSince(ctx context.Context, cutoff time.Time, limit int) ([]domain.Order, error)
	// DeleteCarts removes, in a single transaction, those of ids that are
	// still carts last modified before cutoff, together with their items.
	DeleteCarts(ctx context.Context, ids []uint64, cutoff time.Time) (int64, error)
}
