package game

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
)

// CardView is a card as the player sees it. Value is empty while the card is
// face down.
type CardView struct {
	ID       int    `json:"id"`
	Value    string `json:"value,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// LevelView is the current level of a word or sequence game.
type LevelView struct {
	Scrambled string `json:"scrambled,omitempty"`
	Shown     []int  `json:"shown,omitempty"`
	Options   []int  `json:"options,omitempty"`
}

// SessionView is a read-only snapshot of a session that never exposes
// hidden card values or answers.
type SessionView struct {
	ID            uuid.UUID          `json:"id"`
	DefinitionID  uuid.UUID          `json:"definition_id"`
	Title         string             `json:"title"`
	Variant       domain.GameVariant `json:"variant"`
	Difficulty    domain.Difficulty  `json:"difficulty"`
	State         State              `json:"state"`
	Score         int                `json:"score"`
	Moves         int                `json:"moves"`
	Level         int                `json:"level"`
	TotalLevels   int                `json:"total_levels"`
	Cards         []CardView         `json:"cards,omitempty"`
	Current       *LevelView         `json:"current,omitempty"`
	PendingUnflip bool               `json:"pending_unflip,omitempty"`
	StartedAt     time.Time          `json:"started_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}

// View returns a snapshot of the session.
func (s *Session) View() SessionView {
	v := SessionView{
		ID:           s.ID,
		DefinitionID: s.DefinitionID,
		Title:        s.Title,
		Variant:      s.Variant,
		Difficulty:   s.Difficulty,
		State:        s.State,
		Score:        s.Score,
		Moves:        s.Moves,
		Level:        s.Level,
		StartedAt:    s.StartedAt,
	}
	if !s.CompletedAt.IsZero() {
		completed := s.CompletedAt
		v.CompletedAt = &completed
	}
	if s.puzzle == nil {
		return v
	}
	v.TotalLevels = s.puzzle.totalLevels()

	switch p := s.puzzle.(type) {
	case *pairMatching:
		v.Cards = make([]CardView, len(p.cards))
		for i, c := range p.cards {
			cv := CardView{ID: c.ID, Revealed: c.Revealed, Matched: c.Matched}
			if c.Revealed || c.Matched {
				cv.Value = c.Value
			}
			v.Cards[i] = cv
		}
		v.PendingUnflip = p.pending != nil
	case *wordUnscramble:
		if s.State == StatePlaying {
			v.Current = &LevelView{Scrambled: p.levels[s.Level].Scrambled}
		}
	case *sequenceInference:
		if s.State == StatePlaying {
			l := p.levels[s.Level]
			v.Current = &LevelView{Shown: slices.Clone(l.Shown), Options: slices.Clone(l.Options)}
		}
	}
	return v
}
