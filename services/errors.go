package services

import (
	"errors"

	"github.com/Zanziz/MK-project/tournament"
)

// Категории ошибок, по которым хендлеры выбирают HTTP статус.
var (
	ErrValidationFailed = tournament.ErrValidation
	ErrNotFound         = tournament.ErrNotFound
	ErrInvalidPhase     = tournament.ErrInvalidPhase

	ErrPersistenceFailed = errors.New("failed to persist tournament state")
)
