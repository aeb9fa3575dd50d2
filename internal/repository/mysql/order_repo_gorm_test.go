package mysql

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"
	infradb "storefront/internal/infra/mysql"
	"storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) (repository.OrderRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infradb.Migrate(db))
	return NewOrderRepository(db), db
}

func TestOrderRepo_SaveAndFindCart(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	cart := domain.NewCart(now)
	require.NoError(t, cart.AddItem(11, 2, 250, now))
	require.NoError(t, cart.AddItem(4, 1, 990, now))
	require.NoError(t, repo.Save(ctx, cart))
	require.NotZero(t, cart.ID)

	got, err := repo.FindCart(ctx, cart.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, domain.StatusCart, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, uint64(11), got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, uint64(4), got.Items[1].ProductID)
	assert.True(t, now.Equal(got.UpdatedAt))
}

func TestOrderRepo_SaveUpdatesExistingCart(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)
	now := time.Now().UTC()

	cart := domain.NewCart(now)
	require.NoError(t, cart.AddItem(1, 1, 100, now))
	require.NoError(t, cart.AddItem(2, 1, 200, now))
	require.NoError(t, repo.Save(ctx, cart))
	id := cart.ID

	require.NoError(t, cart.RemoveItem(1, now))
	require.NoError(t, cart.SetItemQuantity(2, 5, now))
	require.NoError(t, cart.AddItem(3, 1, 300, now))
	require.NoError(t, repo.Save(ctx, cart))
	assert.Equal(t, id, cart.ID)

	got, err := repo.FindCart(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, uint64(2), got.Items[0].ProductID)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Equal(t, uint64(3), got.Items[1].ProductID)

	var items int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(2), items)

	var orders int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestOrderRepo_FindCartIgnoresPlacedOrders(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	now := time.Now().UTC()

	order := domain.NewCart(now)
	require.NoError(t, order.TransitionTo(domain.StatusNew, now))
	require.NoError(t, repo.Save(ctx, order))

	got, err := repo.FindCart(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusNew, got.Status)

	got, err = repo.FindByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepo_ExpiredCartBatches(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)
	now := time.Now().UTC()
	cutoff := now.Add(-48 * time.Hour)

	var stale []uint64
	for i := 0; i < 3; i++ {
		c := domain.NewCart(now.Add(-72 * time.Hour))
		require.NoError(t, c.AddItem(uint64(i+1), 1, 100, c.UpdatedAt))
		require.NoError(t, repo.Save(ctx, c))
		stale = append(stale, c.ID)
	}

	fresh := domain.NewCart(now)
	require.NoError(t, repo.Save(ctx, fresh))

	placed := domain.NewCart(now.Add(-240 * time.Hour))
	require.NoError(t, placed.TransitionTo(domain.StatusNew, placed.UpdatedAt))
	require.NoError(t, repo.Save(ctx, placed))

	batch, err := repo.FindCartsNotModifiedSince(ctx, cutoff, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, stale[0], batch[0].ID)
	assert.Equal(t, stale[1], batch[1].ID)

	n, err := repo.DeleteCarts(ctx, []uint64{stale[0], stale[1], fresh.ID, placed.ID}, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	batch, err = repo.FindCartsNotModifiedSince(ctx, cutoff, 2)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, stale[2], batch[0].ID)

	var orphans int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Where("order_id IN ?", stale[:2]).Count(&orphans).Error)
	assert.Zero(t, orphans)

	n, err = repo.DeleteCarts(ctx, nil, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n)
}
