package game

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Card is one tile on the pair-matching board.
type Card struct {
	ID       int
	Value    string
	Revealed bool
	Matched  bool
}

type pendingUnflip struct {
	token uuid.UUID
	cards [2]int
}

type pairMatching struct {
	cards   []Card
	open    []int // indexes of face-up, unmatched cards of the current turn
	pending *pendingUnflip
	matched int
}

// newPairMatching deals two cards per symbol in a uniformly random order.
func newPairMatching(symbols []string, rng *rand.Rand) *pairMatching {
	values := make([]string, 0, len(symbols)*2)
	for _, s := range symbols {
		values = append(values, s, s)
	}

	// Fisher-Yates.
	swap := func(i, j int) { values[i], values[j] = values[j], values[i] }
	if rng != nil {
		rng.Shuffle(len(values), swap)
	} else {
		rand.Shuffle(len(values), swap)
	}

	cards := make([]Card, len(values))
	for i, v := range values {
		cards[i] = Card{ID: i, Value: v}
	}
	return &pairMatching{cards: cards}
}

func (p *pairMatching) totalLevels() int { return len(p.cards) / 2 }

func (p *pairMatching) resolve(token uuid.UUID) bool {
	if p.pending == nil || p.pending.token != token {
		return false
	}
	for _, i := range p.pending.cards {
		p.cards[i].Revealed = false
	}
	p.pending = nil
	return true
}

func (p *pairMatching) isPending(idx int) bool {
	return p.pending != nil && (p.pending.cards[0] == idx || p.pending.cards[1] == idx)
}

func (s *Session) reveal(p *pairMatching, cardID int, now time.Time) (MoveResult, error) {
	if cardID < 0 || cardID >= len(p.cards) {
		return MoveResult{}, ErrUnknownCard
	}
	card := &p.cards[cardID]
	if card.Matched || (card.Revealed && !p.isPending(cardID)) {
		return MoveResult{}, ErrCardUnavailable
	}

	// Revealing another card settles a mismatch the host has not hidden yet.
	if p.pending != nil {
		p.resolve(p.pending.token)
	}

	s.Moves++
	card.Revealed = true
	p.open = append(p.open, cardID)
	if len(p.open) < 2 {
		return MoveResult{Outcome: OutcomeRevealed}, nil
	}

	a, b := p.open[0], p.open[1]
	p.open = nil

	if p.cards[a].Value != p.cards[b].Value {
		s.Incorrect++
		p.pending = &pendingUnflip{token: uuid.New(), cards: [2]int{a, b}}
		return MoveResult{
			Outcome: OutcomeMismatch,
			Unflip:  &UnflipRequest{Token: p.pending.token, Delay: s.rules.UnflipDelay},
		}, nil
	}

	p.cards[a].Matched = true
	p.cards[b].Matched = true
	p.matched += 2
	s.Score += s.rules.MatchScore
	s.Correct++
	s.Level++

	res := MoveResult{Outcome: OutcomeMatch, ScoreDelta: s.rules.MatchScore}
	if p.matched == len(p.cards) {
		s.complete(now)
		res.Outcome = OutcomeComplete
	}
	return res, nil
}
