// Package storage defines the keyed record-store contract shared by the file
// and postgres backends, plus the typed repositories the services depend on.
//
// The store offers no atomicity across records or collections. The one
// guarantee each backend provides is that Update runs its read-modify-write
// cycle exclusively with respect to other mutations on the same collection,
// which is what serialises concurrent seat reservations.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Update when no record carries the given ID.
var ErrNotFound = errors.New("record not found")

// Collection is a keyed record store for one entity type. Empty or corrupt
// backing storage yields empty results, never an error.
type Collection[T any] interface {
	FindByID(ctx context.Context, id string) (T, bool, error)
	FindBy(ctx context.Context, pred func(T) bool) ([]T, error)
	All(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, rec T) error
	DeleteBy(ctx context.Context, pred func(T) bool) (int, error)
	// Update applies fn to the record with the given ID inside a single
	// exclusive read-modify-write cycle. When fn returns an error nothing is
	// written and the error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*T) error) error
}
