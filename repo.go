package bookstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("record already exists")
	ErrPoolTimeout = errors.New("timed out waiting for a database connection")
)

// Repository defines the persistence operations available on a
// single entity type T identified by a unique key of type K.
// Uniqueness is enforced by the implementation itself so that
// concurrent creations of the same key cannot both succeed.
type Repository[T any, K comparable] interface {
	// Create persists entity and returns it with any generated key.
	// It fails with ErrConflict when a unique key is already taken.
	Create(ctx context.Context, entity T) (T, error)
	// Get returns the entity identified by key or ErrNotFound.
	Get(ctx context.Context, key K) (T, error)
	// Update overwrites all mutable fields of the entity identified
	// by key in a single write. It fails with ErrNotFound if absent.
	Update(ctx context.Context, key K, entity T) (T, error)
}

// Storages groups the repositories served by one process. A nil
// member means the related endpoints are not exposed.
type Storages struct {
	Books     BookStorage
	Customers CustomerStorage
	closers   []func() error
}

// Close releases the underlying storage clients.
func (s *Storages) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
