// Package session holds per-visitor key/value data that outlives a single
// request. Each Store is bound to one session id.
package session

import "context"

// CartKey is where the id of the visitor's active cart is kept.
const CartKey = "cart_id"

type Store interface {
	ID() string
	// GetInt reports false when the key is not set.
	GetInt(ctx context.Context, key string) (int64, bool, error)
	SetInt(ctx context.Context, key string, value int64) error
}

type Provider interface {
	Open(sessionID string) Store
}
