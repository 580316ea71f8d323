package tournament

import (
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/scoring"
)

// Leaderboard computes the standings of every phase from the state. Semi-final
// and final tables only count their own races.
func Leaderboard(s models.TournamentState) models.Leaderboard {
	lb := models.Leaderboard{
		Phase:          s.Phase,
		CompletedRaces: models.CountCompleted(s.ChampionshipRaces),
		TotalRaces:     len(s.ChampionshipRaces),
		Championship:   scoring.ChampionshipStandings(s.Players),
		SemiFinalA:     scoring.PhaseStandings(s.SemiFinals.Session1.PlayerIDs, s.Players, s.SemiFinals.Session1.Races),
		SemiFinalB:     scoring.PhaseStandings(s.SemiFinals.Session2.PlayerIDs, s.Players, s.SemiFinals.Session2.Races),
		Final:          []models.Standing{},
	}

	for i := range lb.Championship {
		lb.Championship[i].Qualifying = s.Phase != models.PhaseRegistration && i < models.QualifierCount
	}

	if len(s.FinalRaces) > 0 {
		lb.Final = scoring.PhaseStandings(s.FinalRaces[0].PlayerIDs, s.Players, s.FinalRaces)
		if models.AllComplete(s.FinalRaces) && len(lb.Final) > 0 {
			champion := lb.Final[0]
			lb.Champion = &champion
		}
	}
	return lb
}
