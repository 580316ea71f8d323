package repositories

import (
	"context"
	"errors"

	"github.com/Zanziz/MK-project/models"
)

// CurrentStateKey identifies the single persisted tournament document.
const CurrentStateKey = "current"

var (
	ErrStateNotFound     = errors.New("tournament state not found")
	ErrStateTableMissing = errors.New("tournament_state table does not exist")
	ErrStateCorrupted    = errors.New("stored tournament state cannot be decoded")
)

// StateRepository persists the whole tournament as one document. Save always
// writes the complete structure; there are no partial updates.
type StateRepository interface {
	Load(ctx context.Context) (models.TournamentState, error)
	Save(ctx context.Context, state models.TournamentState) error
	Delete(ctx context.Context) error
}
