package game

import (
	"time"

	"github.com/phrazzld/carecompanion/internal/domain"
)

// Rules holds the scoring and timing constants of the engine.
type Rules struct {
	// MatchScore is added for every matched pair.
	MatchScore int
	// LevelScore is added for every correctly solved level.
	LevelScore int
	// UnflipDelay is how long a mismatched pair stays face up.
	UnflipDelay time.Duration
	// AdvanceDelay is how long the host shows the result of a correct
	// answer before presenting the next level.
	AdvanceDelay time.Duration
}

// DefaultRules returns the standard rules.
func DefaultRules() Rules {
	return Rules{
		MatchScore:   10,
		LevelScore:   10,
		UnflipDelay:  time.Second,
		AdvanceDelay: 1500 * time.Millisecond,
	}
}

// PairCount returns the number of symbol pairs dealt for a difficulty.
func PairCount(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyMedium:
		return 6
	case domain.DifficultyHard:
		return 8
	default:
		return 4
	}
}
