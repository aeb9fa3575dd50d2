package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotMutable    = errors.New("order is no longer a cart")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrItemNotFound       = errors.New("item not found in cart")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrUnknownOrderStatus = errors.New("unknown order status")
)

type OrderStatus string

const (
	StatusCart      OrderStatus = "cart"
	StatusNew       OrderStatus = "new"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusCart:      {StatusNew},
	StatusNew:       {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   nil,
	StatusCancelled: nil,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Scan rejects values outside the known set so a corrupt row never loads as a valid order.
func (s *OrderStatus) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrUnknownOrderStatus, value)
	}

	st, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrderStatus, string(s))
	}
	return string(s), nil
}

type OrderItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `json:"-" gorm:"not null;index"`
	ProductID uint64 `json:"productId" gorm:"not null"`
	Quantity  int    `json:"quantity" gorm:"not null"`
	UnitPrice int64  `json:"unitPrice" gorm:"not null"`
}

func (i OrderItem) Total() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Order is a cart while its status is StatusCart and a placed order afterwards.
// UpdatedAt is managed by the item mutators below, not by gorm, because the
// expiration sweep relies on it.
type Order struct {
	ID        uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(16);not null;index:idx_orders_status_updated_at,priority:1"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updatedAt" gorm:"autoUpdateTime:false;index:idx_orders_status_updated_at,priority:2"`
}

func NewCart(now time.Time) *Order {
	return &Order{
		Status:    StatusCart,
		Items:     []OrderItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (o *Order) IsCart() bool {
	return o.Status == StatusCart
}

func (o *Order) IsNew() bool {
	return o.ID == 0
}

// AddItem merges quantity into an existing line for the product or appends a new one.
func (o *Order) AddItem(productID uint64, quantity int, unitPrice int64, now time.Time) error {
	if !o.IsCart() {
		return ErrOrderNotMutable
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if i := o.indexOf(productID); i >= 0 {
		o.Items[i].Quantity += quantity
		o.Items[i].UnitPrice = unitPrice
	} else {
		o.Items = append(o.Items, OrderItem{
			OrderID:   o.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		})
	}

	o.UpdatedAt = now
	return nil
}

// SetItemQuantity replaces the quantity of a line; zero removes it.
func (o *Order) SetItemQuantity(productID uint64, quantity int, now time.Time) error {
	if !o.IsCart() {
		return ErrOrderNotMutable
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return o.RemoveItem(productID, now)
	}

	i := o.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}

	o.Items[i].Quantity = quantity
	o.UpdatedAt = now
	return nil
}

func (o *Order) RemoveItem(productID uint64, now time.Time) error {
	if !o.IsCart() {
		return ErrOrderNotMutable
	}

	i := o.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}

	o.Items = append(o.Items[:i], o.Items[i+1:]...)
	o.UpdatedAt = now
	return nil
}

func (o *Order) Clear(now time.Time) error {
	if !o.IsCart() {
		return ErrOrderNotMutable
	}

	o.Items = []OrderItem{}
	o.UpdatedAt = now
	return nil
}

func (o *Order) TransitionTo(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	o.UpdatedAt = now
	return nil
}

func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Total()
	}
	return total
}

func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o *Order) indexOf(productID uint64) int {
	for i, item := range o.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
