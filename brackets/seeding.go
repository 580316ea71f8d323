package brackets

import (
	"cmp"
	"slices"

	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/scoring"
)

// Cross seeding keeps the top seeds apart: A gets ranks 1,8,3,6 and B gets 2,7,4,5.
var (
	sessionASeeds = []int{0, 7, 2, 5}
	sessionBSeeds = []int{1, 6, 3, 4}
)

// RankQualifiers returns a sorted copy of players: score desc, best single
// finish asc (no results counts as scoring.NoPosition), then registration order.
func RankQualifiers(players []models.Player) []models.Player {
	type ranked struct {
		player models.Player
		best   int
		order  int
	}
	items := make([]ranked, len(players))
	for i, p := range players {
		items[i] = ranked{player: p, best: scoring.BestPosition(p.Positions), order: i}
	}
	slices.SortFunc(items, func(a, b ranked) int {
		if c := cmp.Compare(b.player.Score, a.player.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.best, b.best); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	out := make([]models.Player, len(items))
	for i, it := range items {
		out[i] = it.player
	}
	return out
}

// TopQualifiers returns at most n players from the ranking, never padded.
func TopQualifiers(players []models.Player, n int) []models.Player {
	ranked := RankQualifiers(players)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// SeedSemiFinals splits ranked qualifier ids into the two sessions. Seed slots
// past the end of the list are left out, so sessions may hold fewer than 4.
func SeedSemiFinals(rankedIDs []string) (sessionA, sessionB []string) {
	pick := func(seeds []int) []string {
		ids := make([]string, 0, len(seeds))
		for _, idx := range seeds {
			if idx < len(rankedIDs) {
				ids = append(ids, rankedIDs[idx])
			}
		}
		return ids
	}
	return pick(sessionASeeds), pick(sessionBSeeds)
}

// Finalists is session A's confirmed qualifiers followed by session B's, in selection order.
func Finalists(a, b models.SemiFinalSession) []string {
	out := make([]string, 0, len(a.ManualQualifiers)+len(b.ManualQualifiers))
	out = append(out, a.ManualQualifiers...)
	return append(out, b.ManualQualifiers...)
}
