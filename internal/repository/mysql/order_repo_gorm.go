package mysql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func itemsInInsertionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *orderRepo) FindCart(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ? AND status = ?", id, domain.StatusCart))
}

func (r *orderRepo) first(ctx context.Context, q *gorm.DB) (*domain.Order, error) {
	var o domain.Order
	if err := q.Preload("Items", itemsInInsertionOrder).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "order lookup failed", "err", err)
		return nil, err
	}
	return &o, nil
}

// Save upserts the order row, then reconciles its item rows: lines dropped
// from the order are deleted and the rest are inserted or updated.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}

		keep := make([]uint64, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ID != 0 {
				keep = append(keep, item.ID)
			}
		}

		stale := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&domain.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete removed items: %w", err)
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return fmt.Errorf("save item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "order save failed", "order_id", order.ID, "err", err)
		return err
	}
	return nil
}

func (r *orderRepo) FindCartsNotModifiedSince(ctx context.Context, cutoff time.Time, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", domain.StatusCart, cutoff).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		slog.ErrorContext(ctx, "expired cart query failed", "err", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) DeleteCarts(ctx context.Context, ids []uint64, cutoff time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check the predicate so a cart touched since the batch query survives.
		var expired []uint64
		if err := tx.Model(&domain.Order{}).
			Where("id IN ? AND status = ? AND updated_at < ?", ids, domain.StatusCart, cutoff).
			Pluck("id", &expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		if err := tx.Where("order_id IN ?", expired).Delete(&domain.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}

		res := tx.Where("id IN ?", expired).Delete(&domain.Order{})
		if res.Error != nil {
			return fmt.Errorf("delete carts: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "cart batch delete failed", "batch", len(ids), "err", err)
		return 0, err
	}
	return deleted, nil
}
