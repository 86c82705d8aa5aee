package client

import (
	"context"

	"github.com/dmitrijs2005/kodex/internal/rpc"
)

// Client talks to the sync server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	// Push sends records and returns the ids the server stored.
	Push(ctx context.Context, recs []rpc.Record) ([]string, error)
	// List returns the server's live records for this device owner.
	List(ctx context.Context) ([]rpc.Record, error)
	// Publish asks for presigned URLs for a record's image.
	Publish(ctx context.Context, id string) (rpc.PublishResult, error)
}
