package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// RecordKind names one of the patient-owned record collections.
type RecordKind string

// The five kinds of owned record.
const (
	KindMedication     RecordKind = "medication"
	KindScheduleItem   RecordKind = "schedule_item"
	KindWalkingRoute   RecordKind = "walking_route"
	KindFamilyPhoto    RecordKind = "family_photo"
	KindGameDefinition RecordKind = "game_definition"
)

// Record is the contract shared by every owned record kind. Implementations
// are value types so a stored record can only change through the store.
type Record[T any] interface {
	// RecordID returns the record's identity (uuid.Nil before it is stored).
	RecordID() uuid.UUID
	// OwnerID returns the id of the patient the record belongs to.
	OwnerID() uuid.UUID
	// Kind names the collection the record lives in.
	Kind() RecordKind
	// Validate checks the record's fields.
	Validate() error
	// WithID returns a copy stamped with a fresh identity and creation time.
	WithID(id uuid.UUID, now time.Time) T
	// Touched returns a copy with UpdatedAt set to now.
	Touched(now time.Time) T
	// Clone returns a deep copy.
	Clone() T
}

// Patch merges a partial update into a record of type T. Patches never
// change a record's identity or owner.
type Patch[T any] interface {
	Apply(T) T
}

// Medication is a prescribed medicine and when to take it.
type Medication struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"   validate:"required"`
	Name         string    `json:"name"         validate:"required,max=120"`
	Dosage       string    `json:"dosage"       validate:"required,max=120"`
	Time         string    `json:"time"         validate:"required,max=32"`
	Frequency    string    `json:"frequency"    validate:"required,max=64"`
	Instructions string    `json:"instructions,omitempty" validate:"max=1000"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordID returns the record identifier.
func (m Medication) RecordID() uuid.UUID { return m.ID }

// OwnerID returns the owning patient's identifier.
func (m Medication) OwnerID() uuid.UUID { return m.PatientID }

// Kind reports which record collection this belongs to.
func (m Medication) Kind() RecordKind { return KindMedication }

// Validate checks the struct tags.
func (m Medication) Validate() error { return validateStruct(m) }

// Clone returns a copy that shares no mutable state.
func (m Medication) Clone() Medication { return m }

// WithID assigns the identifier and stamps both timestamps.
func (m Medication) WithID(id uuid.UUID, now time.Time) Medication {
	m.ID, m.CreatedAt, m.UpdatedAt = id, now, now
	return m
}

// Touched stamps UpdatedAt.
func (m Medication) Touched(now time.Time) Medication {
	m.UpdatedAt = now
	return m
}

// MedicationPatch carries the fields of a medication update.
type MedicationPatch struct {
	Name         *string `json:"name,omitempty"`
	Dosage       *string `json:"dosage,omitempty"`
	Time         *string `json:"time,omitempty"`
	Frequency    *string `json:"frequency,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

// Apply implements Patch.
func (p MedicationPatch) Apply(m Medication) Medication {
	setIf(&m.Name, p.Name)
	setIf(&m.Dosage, p.Dosage)
	setIf(&m.Time, p.Time)
	setIf(&m.Frequency, p.Frequency)
	setIf(&m.Instructions, p.Instructions)
	return m
}

// ScheduleItem is an entry in a patient's daily timeline. Time is a 12-hour
// clock label such as "08:00 AM".
type ScheduleItem struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	Time      string    `json:"time"       validate:"required,max=32"`
	Title     string    `json:"title"      validate:"required,max=200"`
	Type      string    `json:"type"       validate:"required,max=32"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID returns the record identifier.
func (s ScheduleItem) RecordID() uuid.UUID { return s.ID }

// OwnerID returns the owning patient's identifier.
func (s ScheduleItem) OwnerID() uuid.UUID { return s.PatientID }

// Kind reports which record collection this belongs to.
func (s ScheduleItem) Kind() RecordKind { return KindScheduleItem }

// Validate checks the struct tags.
func (s ScheduleItem) Validate() error { return validateStruct(s) }

// Clone returns a copy that shares no mutable state.
func (s ScheduleItem) Clone() ScheduleItem { return s }

// WithID assigns the identifier and stamps both timestamps.
func (s ScheduleItem) WithID(id uuid.UUID, now time.Time) ScheduleItem {
	s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
	return s
}

// Touched stamps UpdatedAt.
func (s ScheduleItem) Touched(now time.Time) ScheduleItem {
	s.UpdatedAt = now
	return s
}

// ScheduleItemPatch carries the fields of a schedule item update.
type ScheduleItemPatch struct {
	Time      *string `json:"time,omitempty"`
	Title     *string `json:"title,omitempty"`
	Type      *string `json:"type,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply implements Patch.
func (p ScheduleItemPatch) Apply(s ScheduleItem) ScheduleItem {
	setIf(&s.Time, p.Time)
	setIf(&s.Title, p.Title)
	setIf(&s.Type, p.Type)
	setIf(&s.Completed, p.Completed)
	return s
}

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"  validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// WalkingRoute is a named path a patient can follow.
type WalkingRoute struct {
	ID          uuid.UUID    `json:"id"`
	PatientID   uuid.UUID    `json:"patient_id"  validate:"required"`
	Name        string       `json:"name"        validate:"required,max=120"`
	Coordinates []Coordinate `json:"coordinates" validate:"min=2,dive"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RecordID returns the record identifier.
func (w WalkingRoute) RecordID() uuid.UUID { return w.ID }

// OwnerID returns the owning patient's identifier.
func (w WalkingRoute) OwnerID() uuid.UUID { return w.PatientID }

// Kind reports which record collection this belongs to.
func (w WalkingRoute) Kind() RecordKind { return KindWalkingRoute }

// Validate checks the struct tags.
func (w WalkingRoute) Validate() error { return validateStruct(w) }

// Clone returns a copy that shares no mutable state.
func (w WalkingRoute) Clone() WalkingRoute {
	w.Coordinates = slices.Clone(w.Coordinates)
	return w
}

// WithID assigns the identifier and stamps both timestamps.
func (w WalkingRoute) WithID(id uuid.UUID, now time.Time) WalkingRoute {
	w.ID, w.CreatedAt, w.UpdatedAt = id, now, now
	return w.Clone()
}

// Touched stamps UpdatedAt.
func (w WalkingRoute) Touched(now time.Time) WalkingRoute {
	w.UpdatedAt = now
	return w
}

// WalkingRoutePatch carries the fields of a walking route update.
type WalkingRoutePatch struct {
	Name        *string      `json:"name,omitempty"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
}

// Apply implements Patch.
func (p WalkingRoutePatch) Apply(w WalkingRoute) WalkingRoute {
	setIf(&w.Name, p.Name)
	if p.Coordinates != nil {
		w.Coordinates = slices.Clone(p.Coordinates)
	}
	return w
}

// FamilyPhoto is a picture shared with the patient.
type FamilyPhoto struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"  validate:"required"`
	URI         string    `json:"uri"         validate:"required,max=2048"`
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	UploadedAt  time.Time `json:"uploaded_at"`
	IsLocal     bool      `json:"is_local,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordID returns the record identifier.
func (f FamilyPhoto) RecordID() uuid.UUID { return f.ID }

// OwnerID returns the owning patient's identifier.
func (f FamilyPhoto) OwnerID() uuid.UUID { return f.PatientID }

// Kind reports which record collection this belongs to.
func (f FamilyPhoto) Kind() RecordKind { return KindFamilyPhoto }

// Validate checks the struct tags.
func (f FamilyPhoto) Validate() error { return validateStruct(f) }

// Clone returns a copy that shares no mutable state.
func (f FamilyPhoto) Clone() FamilyPhoto { return f }

// WithID also fills in UploadedAt when the caller left it empty.
func (f FamilyPhoto) WithID(id uuid.UUID, now time.Time) FamilyPhoto {
	f.ID, f.CreatedAt, f.UpdatedAt = id, now, now
	if f.UploadedAt.IsZero() {
		f.UploadedAt = now
	}
	return f
}

// Touched stamps UpdatedAt.
func (f FamilyPhoto) Touched(now time.Time) FamilyPhoto {
	f.UpdatedAt = now
	return f
}

// FamilyPhotoPatch carries the fields of a family photo update.
type FamilyPhotoPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply implements Patch.
func (p FamilyPhotoPatch) Apply(f FamilyPhoto) FamilyPhoto {
	setIf(&f.Title, p.Title)
	setIf(&f.Description, p.Description)
	return f
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
