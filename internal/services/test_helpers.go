package services

import (
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra"
)

func CreateMockCart(id uint64, updatedAt time.Time, productIDs ...uint64) *domain.Order {
	cart := domain.NewCart(updatedAt)
	cart.ID = id
	for _, pid := range productIDs {
		_ = cart.AddItem(pid, 1, TestProductPrice, updatedAt)
	}
	return cart
}

func CreateMockProduct(id uint64, name string, price int64) *infra.ProductInfo {
	return &infra.ProductInfo{
		ID:    id,
		Name:  name,
		Price: price,
	}
}

const (
	TestProductID    = uint64(1)
	TestCartID       = uint64(10)
	TestSessionID    = "sess-1"
	TestProductName  = "Test Product"
	TestProductPrice = int64(1000)
)
