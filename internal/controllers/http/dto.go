package http

import "storefront/internal/domain"

type AddItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

type CartItemResponse struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Total     int64  `json:"total"`
}

type CartResponse struct {
	ID        uint64             `json:"id"`
	Status    string             `json:"status"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Total     int64              `json:"total"`
}

func toCartResponse(o *domain.Order) CartResponse {
	items := make([]CartItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, CartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total(),
		})
	}
	return CartResponse{
		ID:        o.ID,
		Status:    string(o.Status),
		Items:     items,
		ItemCount: o.ItemCount(),
		Total:     o.Total(),
	}
}
