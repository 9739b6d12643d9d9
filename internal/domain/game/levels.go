package game

import (
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/carecompanion/internal/domain"
)

type wordUnscramble struct {
	levels []WordLevel
}

func (w *wordUnscramble) totalLevels() int { return len(w.levels) }

func (s *Session) answer(w *wordUnscramble, answer string, now time.Time) (MoveResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return MoveResult{}, ErrEmptyAnswer
	}

	s.Moves++
	if !strings.EqualFold(answer, w.levels[s.Level].Answer) {
		return s.retry(), nil
	}
	return s.solved(len(w.levels), now), nil
}

type sequenceInference struct {
	levels []domain.SequenceLevel
}

func newSequenceInference(levels []domain.SequenceLevel) *sequenceInference {
	cp := make([]domain.SequenceLevel, len(levels))
	for i, l := range levels {
		cp[i] = l.Clone()
	}
	return &sequenceInference{levels: cp}
}

func (q *sequenceInference) totalLevels() int { return len(q.levels) }

func (s *Session) choose(q *sequenceInference, choice int, now time.Time) (MoveResult, error) {
	level := q.levels[s.Level]
	if !slices.Contains(level.Options, choice) {
		return MoveResult{}, ErrOptionNotOffered
	}

	s.Moves++
	if choice != level.CorrectNext {
		return s.retry(), nil
	}
	return s.solved(len(q.levels), now), nil
}
