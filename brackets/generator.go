package brackets

import (
	"context"

	"github.com/Zanziz/MK-project/models"
)

type GenerateRacesParams struct {
	PlayerIDs []string
}

// Schedule is a generated race list plus how it was obtained.
type Schedule struct {
	Races     []models.Race
	Attempts  int
	LooseMode bool // true when the final fallback attempt accepted a duplicate-in-race
}

type RaceGenerator interface {
	GenerateRaces(ctx context.Context, params GenerateRacesParams) (*Schedule, error)

	GetName() string
}
