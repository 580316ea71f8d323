package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Zanziz/MK-project/models"
)

const (
	RacesPerPlayer      = 3
	PlayersPerRace      = 4
	MaxScheduleAttempts = 100
)

var errForcedCollision = errors.New("forced collision: every remaining pool entry is already in the race")

type ChampionshipOption func(*ChampionshipGenerator)

// WithRand makes the pool shuffle draw from rng.
func WithRand(rng *rand.Rand) ChampionshipOption {
	return func(g *ChampionshipGenerator) {
		g.shuffle = func(pool []string) {
			rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		}
	}
}

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) ChampionshipOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithShuffler replaces the pool shuffle entirely.
func WithShuffler(shuffle func(pool []string)) ChampionshipOption {
	return func(g *ChampionshipGenerator) {
		g.shuffle = shuffle
	}
}

func WithMaxAttempts(n int) ChampionshipOption {
	return func(g *ChampionshipGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// ChampionshipGenerator builds the qualifying schedule: every player races
// exactly RacesPerPlayer times in races of at most PlayersPerRace.
type ChampionshipGenerator struct {
	maxAttempts int
	shuffle     func(pool []string)
}

func NewChampionshipGenerator(opts ...ChampionshipOption) *ChampionshipGenerator {
	g := &ChampionshipGenerator{
		maxAttempts: MaxScheduleAttempts,
		shuffle: func(pool []string) {
			rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *ChampionshipGenerator) GetName() string {
	return "Championship"
}

func (g *ChampionshipGenerator) GenerateRaces(ctx context.Context, params GenerateRacesParams) (*Schedule, error) {
	if len(params.PlayerIDs) == 0 {
		return nil, errors.New("ChampionshipGenerator: no players to schedule")
	}
	s := g.Schedule(params.PlayerIDs)
	return &s, nil
}

// RaceCount is the number of championship races for n players: ceil(3n/4).
func RaceCount(n int) int {
	slots := n * RacesPerPlayer
	return (slots + PlayersPerRace - 1) / PlayersPerRace
}

// Schedule runs up to maxAttempts strict attempts and then one loose attempt,
// which cannot fail. The loose attempt is the only way a race can hold the
// same player twice.
func (g *ChampionshipGenerator) Schedule(playerIDs []string) Schedule {
	raceCount := RaceCount(len(playerIDs))

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		races, err := g.attempt(playerIDs, raceCount, false)
		if err == nil {
			return Schedule{Races: races, Attempts: attempt}
		}
	}

	races, _ := g.attempt(playerIDs, raceCount, true)
	return Schedule{Races: races, Attempts: g.maxAttempts + 1, LooseMode: true}
}

func (g *ChampionshipGenerator) attempt(playerIDs []string, raceCount int, loose bool) ([]models.Race, error) {
	pool := make([]string, 0, len(playerIDs)*RacesPerPlayer)
	for _, id := range playerIDs {
		for i := 0; i < RacesPerPlayer; i++ {
			pool = append(pool, id)
		}
	}
	g.shuffle(pool)

	races := make([]models.Race, 0, raceCount)
	for i := 0; i < raceCount; i++ {
		slots := min(PlayersPerRace, len(pool))
		racePlayers := make([]string, 0, slots)

		for k := 0; k < slots; k++ {
			idx := slices.IndexFunc(pool, func(id string) bool {
				return !slices.Contains(racePlayers, id)
			})
			if idx == -1 {
				if !loose {
					return nil, fmt.Errorf("race %d slot %d: %w", i+1, k+1, errForcedCollision)
				}
				idx = 0
			}
			racePlayers = append(racePlayers, pool[idx])
			pool = slices.Delete(pool, idx, idx+1)
		}

		races = append(races, models.NewRace(
			fmt.Sprintf("gp-%d", i+1),
			fmt.Sprintf("Grand Prix %d", i+1),
			racePlayers,
		))
	}
	return races, nil
}
