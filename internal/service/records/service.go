// Package records implements the owned-record operations shared by every
// record kind: add, list, get and update, each behind the same ownership
// check.
package records

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service"
	"github.com/phrazzld/carecompanion/internal/store"
)

// Service manages one kind of owned record. T is the record type and P the
// patch type merged into it on update.
type Service[T domain.Record[T], P domain.Patch[T]] struct {
	store   store.RecordStore[T]
	auth    *Authorizer
	metrics *metrics.Collector
	logger  *slog.Logger
	kind    domain.RecordKind
}

// NewService creates a record service. m may be nil.
func NewService[T domain.Record[T], P domain.Patch[T]](
	recordStore store.RecordStore[T],
	auth *Authorizer,
	m *metrics.Collector,
	logger *slog.Logger,
) *Service[T, P] {
	var zero T
	kind := zero.Kind()
	return &Service[T, P]{
		store:   recordStore,
		auth:    auth,
		metrics: m,
		logger:  logger.With("component", "record_service", "kind", kind),
		kind:    kind,
	}
}

// Kind returns the record kind this service manages.
func (s *Service[T, P]) Kind() domain.RecordKind { return s.kind }

// Add stores rec for its owner under a fresh id.
// Returns ErrNotAuthorized or a validation error wrapping domain.ErrInvalidInput.
func (s *Service[T, P]) Add(ctx context.Context, callerID uuid.UUID, rec T) (T, error) {
	var zero T
	if err := s.auth.Authorize(ctx, callerID, rec.OwnerID()); err != nil {
		s.logger.Debug("add rejected", "caller_id", callerID, "patient_id", rec.OwnerID())
		return zero, err
	}

	stored, err := s.store.Add(ctx, rec)
	if err != nil {
		return zero, s.wrap("add", err)
	}

	s.metrics.RecordWrite(string(s.kind), "add")
	s.logger.Info("record added",
		"record_id", stored.RecordID(),
		"patient_id", stored.OwnerID(),
		"caller_id", callerID)
	return stored, nil
}

// List returns the patient's records in insertion order.
// Returns ErrNotAuthorized if the caller may not read them.
func (s *Service[T, P]) List(ctx context.Context, callerID, patientID uuid.UUID) ([]T, error) {
	if err := s.auth.Authorize(ctx, callerID, patientID); err != nil {
		return nil, err
	}
	recs, err := s.store.ListFor(ctx, patientID)
	if err != nil {
		return nil, s.wrap("list", err)
	}
	return recs, nil
}

// ListFor returns the patient's records without an ownership check. It
// serves internal readers such as the reminder scheduler.
func (s *Service[T, P]) ListFor(ctx context.Context, patientID uuid.UUID) ([]T, error) {
	return s.store.ListFor(ctx, patientID)
}

// Get returns one record.
// Returns store.ErrRecordNotFound or ErrNotAuthorized.
func (s *Service[T, P]) Get(ctx context.Context, callerID, id uuid.UUID) (T, error) {
	var zero T
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, s.wrap("get", err)
	}
	if err := s.auth.Authorize(ctx, callerID, rec.OwnerID()); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update merges patch into the record. The owner of a record never changes,
// so authorizing against the current owner holds for the update.
// Returns store.ErrRecordNotFound, ErrNotAuthorized or a validation error;
// the record is unchanged on failure.
func (s *Service[T, P]) Update(ctx context.Context, callerID, id uuid.UUID, patch P) (T, error) {
	var zero T
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return zero, err
	}

	updated, err := s.store.Update(ctx, id, func(cur T) (T, error) {
		return patch.Apply(cur), nil
	})
	if err != nil {
		return zero, s.wrap("update", err)
	}

	s.metrics.RecordWrite(string(s.kind), "update")
	s.logger.Info("record updated", "record_id", id, "caller_id", callerID)
	return updated, nil
}

// remove deletes a record after the ownership check.
func (s *Service[T, P]) remove(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return s.wrap("remove", err)
	}

	s.metrics.RecordWrite(string(s.kind), "remove")
	s.logger.Info("record removed", "record_id", id, "caller_id", callerID)
	return nil
}

// wrap passes expected store errors through and wraps the rest.
func (s *Service[T, P]) wrap(op string, err error) error {
	switch {
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	s.logger.Error("record store failed", "operation", op, "error", err)
	return service.NewServiceError(string(s.kind), op, "store operation failed", err)
}

// Medications manages medications.
type Medications = Service[domain.Medication, domain.MedicationPatch]

// Schedule manages schedule items.
type Schedule = Service[domain.ScheduleItem, domain.ScheduleItemPatch]

// Routes manages walking routes.
type Routes = Service[domain.WalkingRoute, domain.WalkingRoutePatch]

// Photos manages family photos.
type Photos = Service[domain.FamilyPhoto, domain.FamilyPhotoPatch]

// GameDefinitions manages game definitions, the one kind that can be removed.
type GameDefinitions struct {
	*Service[domain.GameDefinition, domain.GameDefinitionPatch]
}

// NewGameDefinitions creates the game definition service.
func NewGameDefinitions(
	recordStore store.RecordStore[domain.GameDefinition],
	auth *Authorizer,
	m *metrics.Collector,
	logger *slog.Logger,
) *GameDefinitions {
	return &GameDefinitions{
		Service: NewService[domain.GameDefinition, domain.GameDefinitionPatch](recordStore, auth, m, logger),
	}
}

// Remove deletes a game definition.
// Returns store.ErrRecordNotFound, leaving the collection unchanged, or
// ErrNotAuthorized.
func (s *GameDefinitions) Remove(ctx context.Context, callerID, id uuid.UUID) error {
	return s.remove(ctx, callerID, id)
}
