package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// GameVariant identifies one of the brain-training games.
type GameVariant string

// Supported game variants.
const (
	VariantPairMatching      GameVariant = "pair_matching"
	VariantWordUnscramble    GameVariant = "word_unscramble"
	VariantSequenceInference GameVariant = "sequence_inference"
)

// Valid reports whether v is a known variant.
func (v GameVariant) Valid() bool {
	switch v {
	case VariantPairMatching, VariantWordUnscramble, VariantSequenceInference:
		return true
	default:
		return false
	}
}

// Difficulty selects how much content a game generates.
type Difficulty string

// Supported difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ErrCorrectNextNotOffered is returned when a sequence level's answer is not
// among its options.
var ErrCorrectNextNotOffered = NewValidationError(
	"sequences", "correct_next must be one of the options", ErrInvalidInput)

// SequenceLevel is one round of the sequence-inference game.
type SequenceLevel struct {
	Shown       []int `json:"shown"        yaml:"shown"        validate:"min=2"`
	Options     []int `json:"options"      yaml:"options"      validate:"min=2"`
	CorrectNext int   `json:"correct_next" yaml:"correct_next"`
}

// Clone returns a deep copy of the level.
func (l SequenceLevel) Clone() SequenceLevel {
	l.Shown = slices.Clone(l.Shown)
	l.Options = slices.Clone(l.Options)
	return l
}

// GameDefinition is a game assigned to a patient. Words and Sequences carry
// optional caretaker-authored content; when empty the built-in catalog for
// the difficulty is used.
type GameDefinition struct {
	ID          uuid.UUID       `json:"id"`
	PatientID   uuid.UUID       `json:"patient_id"  validate:"required"`
	Title       string          `json:"title"       validate:"required,max=120"`
	Description string          `json:"description,omitempty" validate:"max=1000"`
	Variant     GameVariant     `json:"variant"     validate:"required,oneof=pair_matching word_unscramble sequence_inference"`
	Difficulty  Difficulty      `json:"difficulty"  validate:"required,oneof=easy medium hard"`
	Duration    string          `json:"duration,omitempty" validate:"max=32"`
	Words       []string        `json:"words,omitempty"`
	Sequences   []SequenceLevel `json:"sequences,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecordID returns the record identifier.
func (g GameDefinition) RecordID() uuid.UUID { return g.ID }

// OwnerID returns the owning patient's identifier.
func (g GameDefinition) OwnerID() uuid.UUID { return g.PatientID }

// Kind reports which record collection this belongs to.
func (g GameDefinition) Kind() RecordKind { return KindGameDefinition }

// Validate checks struct tags and any custom content.
func (g GameDefinition) Validate() error {
	if err := validateStruct(g); err != nil {
		return err
	}
	return ValidateGameContent(g.Words, g.Sequences)
}

type gameContent struct {
	Words     []string        `json:"words"     validate:"dive,required,alpha,min=2,max=24"`
	Sequences []SequenceLevel `json:"sequences" validate:"dive"`
}

// ValidateGameContent checks word lists and sequence levels, whether authored
// by a caretaker or loaded from a catalog. Every sequence level must offer its
// own answer.
func ValidateGameContent(words []string, sequences []SequenceLevel) error {
	if err := validateStruct(gameContent{Words: words, Sequences: sequences}); err != nil {
		return err
	}
	for _, level := range sequences {
		if !slices.Contains(level.Options, level.CorrectNext) {
			return ErrCorrectNextNotOffered
		}
	}
	return nil
}

// Clone returns a copy that shares no mutable state.
func (g GameDefinition) Clone() GameDefinition {
	g.Words = slices.Clone(g.Words)
	if g.Sequences != nil {
		levels := make([]SequenceLevel, len(g.Sequences))
		for i, l := range g.Sequences {
			levels[i] = l.Clone()
		}
		g.Sequences = levels
	}
	return g
}

// WithID assigns the identifier and stamps both timestamps.
func (g GameDefinition) WithID(id uuid.UUID, now time.Time) GameDefinition {
	g.ID, g.CreatedAt, g.UpdatedAt = id, now, now
	return g.Clone()
}

// Touched stamps UpdatedAt.
func (g GameDefinition) Touched(now time.Time) GameDefinition {
	g.UpdatedAt = now
	return g
}

// GameDefinitionPatch carries the fields of a game definition update, used by
// caretakers to configure a patient's games.
type GameDefinitionPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Difficulty  *Difficulty     `json:"difficulty,omitempty"`
	Duration    *string         `json:"duration,omitempty"`
	Words       []string        `json:"words,omitempty"`
	Sequences   []SequenceLevel `json:"sequences,omitempty"`
}

// Apply implements Patch. The variant of a definition is fixed at creation.
func (p GameDefinitionPatch) Apply(g GameDefinition) GameDefinition {
	setIf(&g.Title, p.Title)
	setIf(&g.Description, p.Description)
	setIf(&g.Difficulty, p.Difficulty)
	setIf(&g.Duration, p.Duration)
	if p.Words != nil {
		g.Words = slices.Clone(p.Words)
	}
	if p.Sequences != nil {
		g.Sequences = GameDefinition{Sequences: p.Sequences}.Clone().Sequences
	}
	return g
}
