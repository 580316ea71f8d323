package tournament

import (
	"errors"
	"fmt"

	"github.com/Zanziz/MK-project/models"
)

// Error categories. Every specific error below wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidPhase = errors.New("operation not allowed in the current phase")
)

var (
	ErrNameRequired           = fmt.Errorf("%w: first name and gamer tag are required", ErrValidation)
	ErrNotEnoughPlayers       = fmt.Errorf("%w: need at least %d players to start", ErrValidation, models.MinPlayers)
	ErrChampionshipIncomplete = fmt.Errorf("%w: complete all championship races to proceed", ErrValidation)
	ErrQualifierSelection     = fmt.Errorf("%w: select exactly %d qualifiers from each semi-final session", ErrValidation, models.SessionQualifiers)
	ErrInvalidPosition        = fmt.Errorf("%w: positions must be between %d and %d", ErrValidation, models.MinPosition, models.MaxPosition)
	ErrPlayerNotInRace        = fmt.Errorf("%w: player is not a participant of this race", ErrValidation)
	ErrPlayerNotInSession     = fmt.Errorf("%w: player is not part of this semi-final session", ErrValidation)
	ErrSessionRacesIncomplete = fmt.Errorf("%w: complete both session races before selecting qualifiers", ErrValidation)

	ErrRaceNotFound    = fmt.Errorf("race %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("semi-final session %w", ErrNotFound)

	ErrRosterLocked    = fmt.Errorf("%w: the roster can only change during registration", ErrInvalidPhase)
	ErrResetNotAllowed = fmt.Errorf("%w: reset is available once every final race is complete", ErrInvalidPhase)
)
