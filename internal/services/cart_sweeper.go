package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
)

const (
	DefaultSweepBatchSize = 500
	CartsExpiredPattern   = "carts.expired"
)

var ErrInvalidRetention = errors.New("the number of days should be greater than 0")

// CartSweeper deletes carts that have not been modified for a number of days.
type CartSweeper struct {
	repo      repository.OrderRepository
	publisher rabbit.PublisherInterface
	batchSize int
	now       func() time.Time
}

// NewCartSweeper accepts a nil publisher; no event is sent then.
func NewCartSweeper(repo repository.OrderRepository, publisher rabbit.PublisherInterface, batchSize int) *CartSweeper {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &CartSweeper{
		repo:      repo,
		publisher: publisher,
		batchSize: batchSize,
		now:       utcNow,
	}
}

// RemoveExpired deletes carts whose last change is older than days and
// returns how many were removed. Batches are fetched and deleted one at a
// time, each in its own transaction; a failure stops the sweep but keeps the
// batches already deleted.
func (s *CartSweeper) RemoveExpired(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, ErrInvalidRetention
	}

	started := s.now()
	cutoff := started.Add(-time.Duration(days) * 24 * time.Hour)
	total := 0

	for batchNo := 1; ; batchNo++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch, err := s.repo.FindCartsNotModifiedSince(ctx, cutoff, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("query expired carts: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		ids := make([]uint64, len(batch))
		for i, c := range batch {
			ids[i] = c.ID
		}

		deleted, err := s.repo.DeleteCarts(ctx, ids, cutoff)
		if err != nil {
			return total, fmt.Errorf("delete expired carts: %w", err)
		}
		total += int(deleted)

		slog.DebugContext(ctx, "expired cart batch deleted", "batch", batchNo, "fetched", len(batch), "deleted", deleted)
	}

	slog.InfoContext(ctx, "expired carts removed", "deleted", total, "days", days, "cutoff", cutoff)

	if total > 0 {
		s.publishExpired(ctx, domain.CartsExpiredEvent{
			Count:         total,
			RetentionDays: days,
			Cutoff:        cutoff,
			SweptAt:       started,
		})
	}
	return total, nil
}

func (s *CartSweeper) publishExpired(ctx context.Context, evt domain.CartsExpiredEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, CartsExpiredPattern, evt); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "pattern", CartsExpiredPattern, "err", err)
	}
}
