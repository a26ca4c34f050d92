// Package state persists small client-side blobs (preferences, the
// pending sale draft) through a pluggable JSON key/value store.
package state

import "context"

// Store is the key/value surface every implementation provides. Values
// are JSON-encoded; Get reports found=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
