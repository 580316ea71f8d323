package brackets

import (
	"context"
	"fmt"

	"github.com/Zanziz/MK-project/models"
)

// HeatGenerator produces a fixed number of races with the same participants in
// each, as used by semi-final sessions and the grand final.
type HeatGenerator struct {
	idPrefix   string
	namePrefix string
	count      int
}

func NewSemiFinalHeats(sessionID string) RaceGenerator {
	return &HeatGenerator{idPrefix: sessionID, namePrefix: "Semi GP", count: models.SemiFinalRaceCount}
}

func NewFinalHeats() RaceGenerator {
	return &HeatGenerator{idPrefix: "f", namePrefix: "Final GP", count: models.FinalRaceCount}
}

func (g *HeatGenerator) GetName() string {
	return "Heats"
}

func (g *HeatGenerator) GenerateRaces(ctx context.Context, params GenerateRacesParams) (*Schedule, error) {
	if len(params.PlayerIDs) == 0 {
		return nil, fmt.Errorf("HeatGenerator %s: no participants", g.idPrefix)
	}

	races := make([]models.Race, 0, g.count)
	for i := 1; i <= g.count; i++ {
		races = append(races, models.NewRace(
			fmt.Sprintf("%s-gp%d", g.idPrefix, i),
			fmt.Sprintf("%s %d", g.namePrefix, i),
			params.PlayerIDs,
		))
	}
	return &Schedule{Races: races, Attempts: 1}, nil
}
