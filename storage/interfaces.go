package storage

import (
	"context"

	"github.com/poiesic/usageload/core"
)

// Connection is an open handle on one Target of a document store.
// Implementations are used by a single goroutine at a time.
type Connection interface {
	// Insert persists a single document. There is no batching and no retry.
	// Returns an error wrapping ErrDuplicateKey when the identifier already
	// exists, ErrConnection when the store became unreachable, and ErrWrite
	// for any other rejection.
	Insert(ctx context.Context, doc *core.Document) error

	// Close releases the connection. It is safe to call more than once.
	Close(ctx context.Context) error
}

// OpenFunc opens a Connection to target at the store identified by location.
// Failures to reach the store are reported as ErrConnection.
type OpenFunc func(ctx context.Context, location string, target core.Target) (Connection, error)
