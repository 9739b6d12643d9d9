package game

import (
	"errors"
	"fmt"

	"github.com/phrazzld/carecompanion/internal/domain"
)

var (
	// ErrSessionComplete is returned for moves on a session that has already
	// reached the complete state.
	ErrSessionComplete = errors.New("game session is complete")

	// ErrInvalidMove is returned when a move does not fit the session's variant.
	ErrInvalidMove = fmt.Errorf("%w: invalid move", domain.ErrInvalidInput)

	// ErrUnknownCard is returned when a reveal names a card that is not on the board.
	ErrUnknownCard = fmt.Errorf("%w: unknown card", ErrInvalidMove)

	// ErrCardUnavailable is returned when a reveal names a card that is
	// already face up or matched.
	ErrCardUnavailable = fmt.Errorf("%w: card already revealed", ErrInvalidMove)

	// ErrEmptyAnswer is returned when a word answer is blank.
	ErrEmptyAnswer = fmt.Errorf("%w: answer cannot be empty", ErrInvalidMove)

	// ErrOptionNotOffered is returned when a sequence choice is not one of the
	// current level's options.
	ErrOptionNotOffered = fmt.Errorf("%w: option not offered", ErrInvalidMove)

	// ErrNoContent is returned when neither the definition nor the catalog
	// provides content for a variant and difficulty.
	ErrNoContent = fmt.Errorf("%w: no game content", domain.ErrInvalidInput)
)
