package scoring

import (
	"cmp"
	"slices"

	"github.com/Zanziz/MK-project/models"
)

// Totals is the aggregate of one player's results over a set of races.
type Totals struct {
	Score       int
	RacesPlayed int
	Positions   []int
}

// PlayerTotals sums the player's recorded results over races, in race-list order.
// Races without a result for the player are skipped.
func PlayerTotals(playerID string, races []models.Race) Totals {
	t := Totals{Positions: []int{}}
	for _, r := range races {
		pos, ok := r.Results[playerID]
		if !ok {
			continue
		}
		t.Score += Points(pos)
		t.RacesPlayed++
		t.Positions = append(t.Positions, pos)
	}
	return t
}

// RecomputePlayers rebuilds every player's derived fields from the championship
// races. The input slice is not modified.
func RecomputePlayers(players []models.Player, races []models.Race) []models.Player {
	out := make([]models.Player, len(players))
	for i, p := range players {
		t := PlayerTotals(p.ID, races)
		p = p.Clone()
		p.Score = t.Score
		p.RacesPlayed = t.RacesPlayed
		p.Positions = t.Positions
		out[i] = p
	}
	return out
}

// PhaseStandings aggregates only the given races for the listed participants.
// Nothing carries over from earlier phases. Rows are ranked, ties resolved by
// the order of participantIDs.
func PhaseStandings(participantIDs []string, players []models.Player, races []models.Race) []models.Standing {
	byID := make(map[string]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	rows := make([]models.Standing, 0, len(participantIDs))
	for _, id := range participantIDs {
		t := PlayerTotals(id, races)
		p := byID[id]
		rows = append(rows, models.Standing{
			PlayerID:     id,
			FirstName:    p.FirstName,
			GamerTag:     p.GamerTag,
			Score:        t.Score,
			RacesPlayed:  t.RacesPlayed,
			Positions:    t.Positions,
			BestPosition: BestPosition(t.Positions),
		})
	}
	return Rank(rows)
}

// ChampionshipStandings builds ranked rows from the players' derived totals.
func ChampionshipStandings(players []models.Player) []models.Standing {
	rows := make([]models.Standing, 0, len(players))
	for _, p := range players {
		rows = append(rows, models.Standing{
			PlayerID:     p.ID,
			FirstName:    p.FirstName,
			GamerTag:     p.GamerTag,
			Score:        p.Score,
			RacesPlayed:  p.RacesPlayed,
			Positions:    append([]int{}, p.Positions...),
			BestPosition: BestPosition(p.Positions),
		})
	}
	return Rank(rows)
}

// Rank sorts rows by score (desc), best position (asc) and then input order,
// and fills in the 1-based Rank field.
func Rank(rows []models.Standing) []models.Standing {
	type indexed struct {
		row models.Standing
		idx int
	}
	items := make([]indexed, len(rows))
	for i, r := range rows {
		items[i] = indexed{row: r, idx: i}
	}
	slices.SortFunc(items, func(a, b indexed) int {
		if c := cmp.Compare(b.row.Score, a.row.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.row.BestPosition, b.row.BestPosition); c != 0 {
			return c
		}
		return cmp.Compare(a.idx, b.idx)
	})

	out := make([]models.Standing, len(items))
	for i, it := range items {
		it.row.Rank = i + 1
		out[i] = it.row
	}
	return out
}
