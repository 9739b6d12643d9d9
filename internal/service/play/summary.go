package play

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
)

// ActivitySummary is a patient's game record for the process lifetime.
type ActivitySummary struct {
	PatientID      uuid.UUID                  `json:"patient_id"`
	GamesStarted   int                        `json:"games_started"`
	GamesCompleted int                        `json:"games_completed"`
	TotalPoints    int                        `json:"total_points"`
	Correct        int                        `json:"correct"`
	Incorrect      int                        `json:"incorrect"`
	TimePlayed     time.Duration              `json:"time_played"`
	CompletedBy    map[domain.GameVariant]int `json:"completed_by_variant"`
	LastPlayedAt   *time.Time                 `json:"last_played_at,omitempty"`
}

// Accuracy is the share of correct attempts across all sessions.
func (a ActivitySummary) Accuracy() float64 {
	attempts := a.Correct + a.Incorrect
	if attempts == 0 {
		return 0
	}
	return float64(a.Correct) / float64(attempts)
}

func (a *ActivitySummary) clone() ActivitySummary {
	c := *a
	c.CompletedBy = make(map[domain.GameVariant]int, len(a.CompletedBy))
	for k, v := range a.CompletedBy {
		c.CompletedBy[k] = v
	}
	if a.LastPlayedAt != nil {
		t := *a.LastPlayedAt
		c.LastPlayedAt = &t
	}
	return c
}

// Summary returns the patient's activity summary. The patient and their
// caretaker may read it.
// Returns an error wrapping domain.ErrNotAuthorized otherwise.
func (m *Manager) Summary(ctx context.Context, callerID, patientID uuid.UUID) (ActivitySummary, error) {
	if err := m.auth.Authorize(ctx, callerID, patientID); err != nil {
		return ActivitySummary{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaryLocked(patientID).clone(), nil
}

func (m *Manager) summaryLocked(patientID uuid.UUID) *ActivitySummary {
	s, ok := m.summaries[patientID]
	if !ok {
		s = &ActivitySummary{PatientID: patientID, CompletedBy: make(map[domain.GameVariant]int)}
		m.summaries[patientID] = s
	}
	return s
}

// accountLocked adds a session to its patient's summary once, when it
// completes or is ended.
func (m *Manager) accountLocked(e *entry, completed bool) {
	if e.accounted {
		return
	}
	e.accounted = true

	s := e.session
	end := m.cfg.Now()
	if completed {
		end = s.CompletedAt
	}

	sum := m.summaryLocked(s.PatientID)
	sum.TotalPoints += s.Score
	sum.Correct += s.Correct
	sum.Incorrect += s.Incorrect
	if d := end.Sub(s.StartedAt); d > 0 {
		sum.TimePlayed += d
	}
	if completed {
		sum.GamesCompleted++
		sum.CompletedBy[s.Variant]++
	}
	sum.LastPlayedAt = &end
}
