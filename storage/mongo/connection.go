// Package mongo implements storage.Connection on MongoDB using the official
// Go driver. Each Insert is a single InsertOne with retryable writes disabled.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/poiesic/usageload/core"
	"github.com/poiesic/usageload/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

const (
	defaultConnectTimeout = 10 * time.Second
	appName               = "usageload"
)

// Connection writes documents to one MongoDB collection.
type Connection struct {
	client     *mongo.Client
	collection *mongo.Collection
	closeOnce  sync.Once
	closeErr   error
}

var _ storage.Connection = (*Connection)(nil)

// Option configures Open.
type Option func(*config)

type config struct {
	connectTimeout time.Duration
}

// WithConnectTimeout bounds how long Open waits for the server to answer.
// Default is 10 seconds.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// Open connects to the deployment at uri and verifies it is reachable by
// pinging the primary. Any failure is returned wrapped in storage.ErrConnection.
func Open(ctx context.Context, uri string, target core.Target, opts ...Option) (*Connection, error) {
	if err := core.ValidateTarget(target); err != nil {
		return nil, err
	}

	cfg := &config{connectTimeout: defaultConnectTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetConnectTimeout(cfg.connectTimeout).
		SetServerSelectionTimeout(cfg.connectTimeout).
		SetRetryWrites(false)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %w", storage.ErrConnection, err)
	}

	return &Connection{
		client:     client,
		collection: client.Database(target.Database).Collection(target.Collection),
	}, nil
}

// Insert writes doc with InsertOne. The result is not read back.
func (c *Connection) Insert(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}
	_, err := c.collection.InsertOne(ctx, storage.EncodeDocument(doc))
	if err != nil {
		return classify(err, doc.ID)
	}
	return nil
}

// Close disconnects the client.
func (c *Connection) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closeErr = c.client.Disconnect(ctx)
	})
	return c.closeErr
}

// classify maps a driver error onto the storage error taxonomy.
func classify(err error, id string) error {
	var selectionErr topology.ServerSelectionError
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s %q: %w", storage.ErrDuplicateKey, core.IDField, id, err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, mongo.ErrClientDisconnected),
		errors.As(err, &selectionErr),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err):
		return fmt.Errorf("%w: %w", storage.ErrConnection, err)
	default:
		return fmt.Errorf("%w: %s %q: %w", storage.ErrWrite, core.IDField, id, err)
	}
}
