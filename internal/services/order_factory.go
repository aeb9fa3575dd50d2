package services

import (
	"time"

	"storefront/internal/domain"
)

type OrderFactory struct {
	now func() time.Time
}

func NewOrderFactory() *OrderFactory {
	return &OrderFactory{now: utcNow}
}

// Create returns an empty, unsaved cart.
func (f *OrderFactory) Create() *domain.Order {
	return domain.NewCart(f.now())
}

func utcNow() time.Time {
	return time.Now().UTC()
}
