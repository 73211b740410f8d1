package store

import "context"

// Entity is the base interface for all storable types.
type Entity interface {
	// GetID returns the store-assigned identifier.
	GetID() int
}

// KV is the external key/value service a store persists to.
//
// Get reports a missing key with ok=false and a nil error. Any non-nil error
// is treated as a transport failure.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
