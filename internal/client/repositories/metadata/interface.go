// Package metadata is the local key-value store behind the session, the
// user record, the onboarding flag and the avatar reference.
package metadata

import (
	"context"

	"github.com/MacaulyV/foodbridge/internal/dbx"
)

// Repository stores opaque values under string keys. Get returns (nil, nil)
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// Bind returns a repository running on db, typically a transaction.
	Bind(db dbx.DBTX) Repository
}
