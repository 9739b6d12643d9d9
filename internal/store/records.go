package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
)

// RecordStore is a keyed collection of one kind of owned record. Records are
// returned as copies; changing a returned value never changes the store.
// Authorization is the caller's concern.
type RecordStore[T domain.Record[T]] interface {
	// Add stores rec under a fresh id and returns the stored copy.
	// Returns a validation error if rec is invalid.
	Add(ctx context.Context, rec T) (T, error)

	// Get retrieves a record by id.
	// Returns ErrRecordNotFound if the record does not exist.
	Get(ctx context.Context, id uuid.UUID) (T, error)

	// ListFor returns the records owned by patientID in insertion order.
	ListFor(ctx context.Context, patientID uuid.UUID) ([]T, error)

	// Update replaces the record with the result of fn, atomically with
	// respect to other mutations. fn receives a copy of the current record;
	// if it returns an error the record is left unchanged. The id and owner
	// of the record cannot be changed.
	// Returns ErrRecordNotFound if the record does not exist.
	Update(ctx context.Context, id uuid.UUID, fn func(T) (T, error)) (T, error)

	// Remove deletes a record.
	// Returns ErrRecordNotFound if the record does not exist.
	Remove(ctx context.Context, id uuid.UUID) error

	// Len returns the number of records of this kind.
	Len() int
}
