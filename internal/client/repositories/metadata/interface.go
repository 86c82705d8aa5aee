// Package metadata is a small key-value store for client sync state, kept
// next to the history table.
package metadata

import "context"

// Keys used by the client.
const (
	KeyLastSyncAt = "last_sync_at"
	KeyServerAddr = "server_addr"
)

type Repository interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
