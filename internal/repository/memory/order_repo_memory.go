package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// OrderRepository keeps orders in process memory. Stored orders are copied
// on the way in and out so callers never share state with the store.
type OrderRepository struct {
	mu         sync.Mutex
	orders     map[uint64]domain.Order
	nextID     uint64
	nextItemID uint64
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uint64]domain.Order)}
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return clone(o), nil
}

func (r *OrderRepository) FindCart(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil || o == nil || !o.IsCart() {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		r.nextID++
		order.ID = r.nextID
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if order.Items[i].ID == 0 {
			r.nextItemID++
			order.Items[i].ID = r.nextItemID
		}
	}

	r.orders[order.ID] = *clone(*order)
	return nil
}

func (r *OrderRepository) FindCartsNotModifiedSince(ctx context.Context, cutoff time.Time, limit int) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Order
	for _, o := range r.orders {
		if expired(o, cutoff) {
			out = append(out, *clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepository) DeleteCarts(ctx context.Context, ids []uint64, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if o, ok := r.orders[id]; ok && expired(o, cutoff) {
			delete(r.orders, id)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports how many orders are stored.
func (r *OrderRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func expired(o domain.Order, cutoff time.Time) bool {
	return o.IsCart() && o.UpdatedAt.Before(cutoff)
}

func clone(o domain.Order) *domain.Order {
	cp := o
	cp.Items = append([]domain.OrderItem{}, o.Items...)
	return &cp
}
