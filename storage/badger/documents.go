package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/usageload/core"
	"github.com/poiesic/usageload/storage"
)

// DocumentRepository stores documents of one target in BadgerDB.
// It implements storage.Connection.
type DocumentRepository struct {
	backend     *Backend
	target      core.Target
	ownsBackend bool
	closeOnce   sync.Once
	closeErr    error
}

var _ storage.Connection = (*DocumentRepository)(nil)

// NewDocumentRepository creates a repository for target on an open backend.
// Closing the repository does not close the backend.
func NewDocumentRepository(backend *Backend, target core.Target) (*DocumentRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrConnection)
	}
	if err := core.ValidateTarget(target); err != nil {
		return nil, err
	}
	return &DocumentRepository{
		backend: backend,
		target:  target,
	}, nil
}

// Open opens a backend in dir (or in memory) and returns a repository that
// owns it. Failure to open the database is reported as storage.ErrConnection.
func Open(dir string, target core.Target, opts ...BackendOption) (*DocumentRepository, error) {
	if err := core.ValidateTarget(target); err != nil {
		return nil, err
	}

	backend, err := OpenBackend(dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrConnection, err)
	}

	repo, err := NewDocumentRepository(backend, target)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	backend.logger.Debug("opened document store", "target", target.String(), "in_memory", backend.InMemory())
	return repo, nil
}

// Insert stores doc under its identifier.
// Returns storage.ErrDuplicateKey if the identifier is already present.
func (r *DocumentRepository) Insert(ctx context.Context, doc *core.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return fmt.Errorf("%w: %w", storage.ErrConnection, storage.ErrStorageClosed)
	}
	if err := core.ValidateDocument(doc); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}

	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}

	key := makeDocumentKey(r.target, doc.ID)
	return r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return fmt.Errorf("%w: %s %q", storage.ErrDuplicateKey, core.IDField, doc.ID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %w", storage.ErrWrite, err)
		}

		if err := tx.Set(key, value); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrWrite, err)
		}
		if err := tx.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) {
				return fmt.Errorf("%w: %s %q", storage.ErrDuplicateKey, core.IDField, doc.ID)
			}
			return fmt.Errorf("%w: %w", storage.ErrWrite, err)
		}
		return nil
	}, true)
}

// GetDocument retrieves a document by identifier.
// Returns storage.ErrNotFound if it doesn't exist.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(r.target, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			doc, unmarshalErr = storage.UnmarshalDocument(val)
			return unmarshalErr
		})
	}, false)
	return doc, err
}

// CountDocuments returns the number of documents stored for the target.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeCollectionPrefix(r.target)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close releases the repository, closing the backend if Open created it.
func (r *DocumentRepository) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		if r.ownsBackend {
			r.closeErr = r.backend.Close()
		}
	})
	return r.closeErr
}
