package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
)

// State is a session's lifecycle state.
type State string

// Session states. Complete is terminal.
const (
	StateSetup    State = "setup"
	StatePlaying  State = "playing"
	StateComplete State = "complete"
)

// Outcome describes the effect of a move.
type Outcome string

// Move outcomes.
const (
	OutcomeRevealed Outcome = "revealed"
	OutcomeMatch    Outcome = "match"
	OutcomeMismatch Outcome = "mismatch"
	OutcomeCorrect  Outcome = "correct"
	OutcomeRetry    Outcome = "retry"
	OutcomeComplete Outcome = "complete"
)

// MoveKind selects what a move does. Each variant accepts exactly one kind.
type MoveKind string

// Move kinds.
const (
	MoveReveal MoveKind = "reveal" // pair matching
	MoveAnswer MoveKind = "answer" // word unscramble
	MoveChoose MoveKind = "choose" // sequence inference
)

// Move is a player action.
type Move struct {
	Kind   MoveKind `json:"kind"`
	CardID int      `json:"card_id,omitempty"`
	Answer string   `json:"answer,omitempty"`
	Choice int      `json:"choice,omitempty"`
}

// UnflipRequest asks the host to hide a mismatched pair after Delay by
// calling ResolveUnflip with Token.
type UnflipRequest struct {
	Token uuid.UUID     `json:"token"`
	Delay time.Duration `json:"delay"`
}

// MoveResult reports the outcome of a move and the session afterwards.
type MoveResult struct {
	Outcome    Outcome        `json:"outcome"`
	ScoreDelta int            `json:"score_delta"`
	Unflip     *UnflipRequest `json:"unflip,omitempty"`
	// AdvanceAfter is how long the host should show feedback before
	// presenting the next level. Zero when the level did not change.
	AdvanceAfter time.Duration `json:"advance_after,omitempty"`
	View         SessionView   `json:"session"`
}

// puzzle is the variant-specific state of a session. It is a closed set:
// *pairMatching, *wordUnscramble and *sequenceInference.
type puzzle interface {
	totalLevels() int
}

// Session is one play-through of a game definition. A Session is not safe for
// concurrent use; the runtime owning it serializes access.
type Session struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	DefinitionID uuid.UUID
	Title        string
	Variant      domain.GameVariant
	Difficulty   domain.Difficulty
	State        State
	Score        int
	Moves        int
	// Level is the number of levels solved, or pairs matched in pair matching.
	Level       int
	Correct     int
	Incorrect   int
	StartedAt   time.Time
	CompletedAt time.Time

	rules  Rules
	puzzle puzzle
}

// NewSession sets up a session for def and moves it to playing. Custom words
// and sequences on the definition take precedence over the catalog. rng
// drives the pair-matching shuffle; nil uses the global source.
func NewSession(
	def domain.GameDefinition,
	catalog *Catalog,
	rules Rules,
	rng *rand.Rand,
	now time.Time,
) (*Session, error) {
	if !def.Variant.Valid() {
		return nil, fmt.Errorf("%w: unsupported variant %q", ErrInvalidMove, def.Variant)
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	difficulty := def.Difficulty
	if !difficulty.Valid() {
		difficulty = domain.DifficultyEasy
	}

	s := &Session{
		ID:           uuid.New(),
		PatientID:    def.PatientID,
		DefinitionID: def.ID,
		Title:        def.Title,
		Variant:      def.Variant,
		Difficulty:   difficulty,
		State:        StateSetup,
		StartedAt:    now,
		rules:        rules,
	}

	switch def.Variant {
	case domain.VariantPairMatching:
		s.puzzle = newPairMatching(catalog.symbolsFor(difficulty), rng)
	case domain.VariantWordUnscramble:
		words := def.Words
		if len(words) == 0 {
			words = catalog.Words[difficulty]
		}
		if len(words) == 0 {
			return nil, ErrNoContent
		}
		s.puzzle = &wordUnscramble{levels: wordLevels(words)}
	case domain.VariantSequenceInference:
		levels := def.Sequences
		if len(levels) == 0 {
			levels = catalog.Sequences[difficulty]
		}
		if len(levels) == 0 {
			return nil, ErrNoContent
		}
		s.puzzle = newSequenceInference(levels)
	}

	s.State = StatePlaying
	return s, nil
}

// ApplyMove applies m to the session. A rejected move leaves the session
// unchanged.
func (s *Session) ApplyMove(m Move, now time.Time) (MoveResult, error) {
	if s.State == StateComplete {
		return MoveResult{}, ErrSessionComplete
	}

	var (
		res MoveResult
		err error
	)
	switch p := s.puzzle.(type) {
	case *pairMatching:
		if m.Kind != MoveReveal {
			return MoveResult{}, fmt.Errorf("%w: %s does not accept %q", ErrInvalidMove, s.Variant, m.Kind)
		}
		res, err = s.reveal(p, m.CardID, now)
	case *wordUnscramble:
		if m.Kind != MoveAnswer {
			return MoveResult{}, fmt.Errorf("%w: %s does not accept %q", ErrInvalidMove, s.Variant, m.Kind)
		}
		res, err = s.answer(p, m.Answer, now)
	case *sequenceInference:
		if m.Kind != MoveChoose {
			return MoveResult{}, fmt.Errorf("%w: %s does not accept %q", ErrInvalidMove, s.Variant, m.Kind)
		}
		res, err = s.choose(p, m.Choice, now)
	default:
		return MoveResult{}, fmt.Errorf("%w: session has no puzzle", ErrInvalidMove)
	}
	if err != nil {
		return MoveResult{}, err
	}

	res.View = s.View()
	return res, nil
}

// ResolveUnflip hides the mismatched pair identified by token. It reports
// false, changing nothing, when the token is stale: the pair was already
// hidden, superseded by a later move or the session is complete.
func (s *Session) ResolveUnflip(token uuid.UUID) bool {
	p, ok := s.puzzle.(*pairMatching)
	if !ok || s.State == StateComplete {
		return false
	}
	return p.resolve(token)
}

// PendingUnflip returns the token of the pair waiting to be hidden, if any.
func (s *Session) PendingUnflip() (uuid.UUID, bool) {
	p, ok := s.puzzle.(*pairMatching)
	if !ok || p.pending == nil {
		return uuid.Nil, false
	}
	return p.pending.token, true
}

// Accuracy is the share of correct attempts, between 0 and 1.
func (s *Session) Accuracy() float64 {
	attempts := s.Correct + s.Incorrect
	if attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(attempts)
}

// IsComplete reports whether the session reached its terminal state.
func (s *Session) IsComplete() bool { return s.State == StateComplete }

// solved records a correct level and either advances or completes.
func (s *Session) solved(total int, now time.Time) MoveResult {
	s.Score += s.rules.LevelScore
	s.Correct++
	s.Level++

	res := MoveResult{Outcome: OutcomeCorrect, ScoreDelta: s.rules.LevelScore}
	if s.Level >= total {
		s.complete(now)
		res.Outcome = OutcomeComplete
		return res
	}
	res.AdvanceAfter = s.rules.AdvanceDelay
	return res
}

func (s *Session) retry() MoveResult {
	s.Incorrect++
	return MoveResult{Outcome: OutcomeRetry}
}

func (s *Session) complete(now time.Time) {
	s.State = StateComplete
	s.CompletedAt = now
}
