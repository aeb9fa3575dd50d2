package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/mocks"
	"storefront/internal/repository/memory"
	"storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartManager_GetCurrentCart_NewSession(t *testing.T) {
	ctx := context.Background()
	m := NewCartManager(memory.NewOrderRepository(), NewOrderFactory())
	sess := session.NewMemoryProvider().Open(TestSessionID)

	first, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	assert.True(t, first.IsCart())
	assert.True(t, first.IsNew())
	assert.Empty(t, first.Items)
	assert.WithinDuration(t, time.Now(), first.CreatedAt, time.Second)

	// without a save every call hands out a new transient cart
	second, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestCartManager_SaveThenGetReturnsSameCart(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	m := NewCartManager(repo, NewOrderFactory())
	sess := session.NewMemoryProvider().Open(TestSessionID)

	cart, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(TestProductID, 2, TestProductPrice, time.Now().UTC()))
	require.NoError(t, m.Save(ctx, sess, cart))
	require.NotZero(t, cart.ID)

	again, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
	assert.Equal(t, cart.Items, again.Items)

	stored, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, cart.Items, stored.Items)

	// saving twice keeps the binding on the same cart
	require.NoError(t, m.Save(ctx, sess, cart))
	id, _, err := sess.GetInt(ctx, session.CartKey)
	require.NoError(t, err)
	assert.Equal(t, int64(cart.ID), id)
	assert.Equal(t, 1, repo.Len())
}

func TestCartManager_CheckedOutCartIsReplaced(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	m := NewCartManager(repo, NewOrderFactory())
	sess := session.NewMemoryProvider().Open(TestSessionID)

	cart, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, sess, cart))

	require.NoError(t, cart.TransitionTo(domain.StatusNew, time.Now().UTC()))
	require.NoError(t, repo.Save(ctx, cart))

	next, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	assert.True(t, next.IsNew())
	assert.True(t, next.IsCart())
}

func TestCartManager_Save(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError string
		expectBound   bool
	}{
		{
			name: "persists then binds",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = TestCartID
				})
			},
			expectBound: true,
		},
		{
			name: "write failure leaves session untouched",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))
			},
			expectedError: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(mocks.MockOrderRepository)
			tt.setupMocks(repo)

			m := NewCartManager(repo, NewOrderFactory())
			sess := session.NewMemoryProvider().Open(TestSessionID)

			err := m.Save(ctx, sess, NewOrderFactory().Create())

			id, ok, getErr := sess.GetInt(ctx, session.CartKey)
			require.NoError(t, getErr)
			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, int64(TestCartID), id)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestCartManager_UpdateCurrentCart(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	m := NewCartManager(repo, NewOrderFactory())
	sess := session.NewMemoryProvider().Open(TestSessionID)

	cart, err := m.UpdateCurrentCart(ctx, sess, func(c *domain.Order, now time.Time) error {
		return c.AddItem(TestProductID, 1, TestProductPrice, now)
	})
	require.NoError(t, err)
	require.NotZero(t, cart.ID)

	_, err = m.UpdateCurrentCart(ctx, sess, func(c *domain.Order, now time.Time) error {
		return c.AddItem(TestProductID, 0, TestProductPrice, now)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	stored, err := repo.FindCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestCartManager_UpdateCurrentCart_MutateErrorSavesNothing(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	m := NewCartManager(repo, NewOrderFactory())
	sess := session.NewMemoryProvider().Open(TestSessionID)

	_, err := m.UpdateCurrentCart(context.Background(), sess, func(*domain.Order, time.Time) error {
		return domain.ErrItemNotFound
	})

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartManager_ConcurrentUpdatesShareOneCart(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	m := NewCartManager(repo, NewOrderFactory())
	sess := session.NewMemoryProvider().Open(TestSessionID)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(productID uint64) {
			defer wg.Done()
			_, err := m.UpdateCurrentCart(ctx, sess, func(c *domain.Order, now time.Time) error {
				return c.AddItem(productID, 1, TestProductPrice, now)
			})
			assert.NoError(t, err)
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, repo.Len())
	cart, err := m.GetCurrentCart(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, cart.Items, workers)
	assert.Zero(t, m.locks.size())
}
