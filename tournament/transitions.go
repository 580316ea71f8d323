// Package tournament is the phase state machine. Every function takes the
// current state by value and returns the next one; the input is never modified
// and on error the caller keeps its state as it was.
package tournament

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/scoring"
)

// AddPlayer registers a player. A full roster is not an error: the state comes
// back unchanged with a nil player.
func AddPlayer(s models.TournamentState, id, firstName, gamerTag string, now time.Time) (models.TournamentState, *models.Player, error) {
	if s.Phase != models.PhaseRegistration {
		return s, nil, ErrRosterLocked
	}
	firstName = strings.TrimSpace(firstName)
	gamerTag = strings.TrimSpace(gamerTag)
	if firstName == "" || gamerTag == "" {
		return s, nil, ErrNameRequired
	}
	if len(s.Players) >= models.MaxPlayers {
		return s, nil, nil
	}

	next := s.Clone()
	player := models.Player{
		ID:        id,
		FirstName: firstName,
		GamerTag:  gamerTag,
		Positions: []int{},
		CreatedAt: now,
	}
	next.Players = append(next.Players, player)
	return next, &player, nil
}

// RemovePlayer drops a player from the roster; an unknown id is a no-op.
func RemovePlayer(s models.TournamentState, playerID string) (models.TournamentState, error) {
	if s.Phase != models.PhaseRegistration {
		return s, ErrRosterLocked
	}
	next := s.Clone()
	kept := next.Players[:0]
	for _, p := range next.Players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	next.Players = kept
	return next, nil
}

// StartChampionship schedules the qualifying races and opens the championship.
func StartChampionship(ctx context.Context, s models.TournamentState, gen brackets.RaceGenerator) (models.TournamentState, *brackets.Schedule, error) {
	if s.Phase != models.PhaseRegistration {
		return s, nil, fmt.Errorf("start championship from %s: %w", s.Phase, ErrInvalidPhase)
	}
	if len(s.Players) < models.MinPlayers {
		return s, nil, ErrNotEnoughPlayers
	}

	ids := make([]string, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	schedule, err := gen.GenerateRaces(ctx, brackets.GenerateRacesParams{PlayerIDs: ids})
	if err != nil {
		return s, nil, fmt.Errorf("generate %s schedule: %w", gen.GetName(), err)
	}

	next := s.Clone()
	next.Phase = models.PhaseChampionship
	next.ChampionshipRaces = schedule.Races
	next.Players = scoring.RecomputePlayers(next.Players, next.ChampionshipRaces)
	return next, schedule, nil
}

// RecordRaceResult replaces a race's results with positions, marks the race
// complete once every participant has a position and recomputes standings from
// scratch. Championship races are editable during the championship, semi-final
// races during the semi-finals and final races until the tournament is reset.
func RecordRaceResult(s models.TournamentState, raceID string, positions map[string]int) (models.TournamentState, *models.Race, error) {
	next := s.Clone()

	race, allowed := locateRace(&next, raceID)
	if race == nil {
		return s, nil, fmt.Errorf("%w: %q", ErrRaceNotFound, raceID)
	}
	if !allowed {
		return s, nil, fmt.Errorf("record result for %s in phase %s: %w", raceID, s.Phase, ErrInvalidPhase)
	}

	results := make(map[string]int, len(positions))
	for playerID, pos := range positions {
		if !race.HasParticipant(playerID) {
			return s, nil, fmt.Errorf("%w: %q", ErrPlayerNotInRace, playerID)
		}
		if pos < models.MinPosition || pos > models.MaxPosition {
			return s, nil, fmt.Errorf("%w: got %d", ErrInvalidPosition, pos)
		}
		results[playerID] = pos
	}
	race.Results = results
	race.IsCompleted = race.Complete()
	updated := race.Clone()

	next.Players = scoring.RecomputePlayers(next.Players, next.ChampionshipRaces)

	if next.Phase == models.PhaseFinals || next.Phase == models.PhaseCompleted {
		if models.AllComplete(next.FinalRaces) {
			next.Phase = models.PhaseCompleted
		} else {
			next.Phase = models.PhaseFinals
		}
	}
	return next, &updated, nil
}

// locateRace finds raceID in s and reports whether the current phase allows editing it.
func locateRace(s *models.TournamentState, raceID string) (*models.Race, bool) {
	find := func(races []models.Race) *models.Race {
		for i := range races {
			if races[i].ID == raceID {
				return &races[i]
			}
		}
		return nil
	}

	if r := find(s.ChampionshipRaces); r != nil {
		return r, s.Phase == models.PhaseChampionship
	}
	if r := find(s.SemiFinals.Session1.Races); r != nil {
		return r, s.Phase == models.PhaseSemiFinals
	}
	if r := find(s.SemiFinals.Session2.Races); r != nil {
		return r, s.Phase == models.PhaseSemiFinals
	}
	if r := find(s.FinalRaces); r != nil {
		return r, s.Phase == models.PhaseFinals || s.Phase == models.PhaseCompleted
	}
	return nil, false
}

// StartSemiFinals seeds the top 8 of the championship into the two sessions.
func StartSemiFinals(ctx context.Context, s models.TournamentState) (models.TournamentState, error) {
	if s.Phase != models.PhaseChampionship {
		return s, fmt.Errorf("start semi-finals from %s: %w", s.Phase, ErrInvalidPhase)
	}
	if !models.AllComplete(s.ChampionshipRaces) {
		return s, ErrChampionshipIncomplete
	}

	qualifiers := brackets.TopQualifiers(s.Players, models.QualifierCount)
	ranked := make([]string, len(qualifiers))
	for i, q := range qualifiers {
		ranked[i] = q.ID
	}
	seedsA, seedsB := brackets.SeedSemiFinals(ranked)

	next := s.Clone()
	for _, seeded := range []struct {
		session *models.SemiFinalSession
		ids     []string
	}{
		{&next.SemiFinals.Session1, seedsA},
		{&next.SemiFinals.Session2, seedsB},
	} {
		heats, err := brackets.NewSemiFinalHeats(seeded.session.ID).GenerateRaces(ctx, brackets.GenerateRacesParams{PlayerIDs: seeded.ids})
		if err != nil {
			return s, fmt.Errorf("seed %s: %w", seeded.session.Name, err)
		}
		seeded.session.PlayerIDs = append([]string{}, seeded.ids...)
		seeded.session.Races = heats.Races
		seeded.session.ManualQualifiers = []string{}
	}
	next.Phase = models.PhaseSemiFinals
	return next, nil
}

// ToggleQualifier adds or removes playerID from the session's qualifiers. Adding
// a third qualifier is silently ignored; changed reports whether anything moved.
func ToggleQualifier(s models.TournamentState, sessionID, playerID string) (next models.TournamentState, changed bool, err error) {
	if s.Phase != models.PhaseSemiFinals {
		return s, false, fmt.Errorf("toggle qualifier in phase %s: %w", s.Phase, ErrInvalidPhase)
	}
	if s.Session(sessionID) == nil {
		return s, false, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}

	next = s.Clone()
	session := next.Session(sessionID)
	if !session.HasPlayer(playerID) {
		return s, false, fmt.Errorf("%w: %q", ErrPlayerNotInSession, playerID)
	}
	if !models.AllComplete(session.Races) {
		return s, false, ErrSessionRacesIncomplete
	}

	if session.IsQualifier(playerID) {
		kept := make([]string, 0, len(session.ManualQualifiers))
		for _, id := range session.ManualQualifiers {
			if id != playerID {
				kept = append(kept, id)
			}
		}
		session.ManualQualifiers = kept
		return next, true, nil
	}

	if len(session.ManualQualifiers) >= models.SessionQualifiers {
		return s, false, nil
	}
	session.ManualQualifiers = append(session.ManualQualifiers, playerID)
	return next, true, nil
}

// StartFinals builds the grand final from the four confirmed qualifiers.
func StartFinals(ctx context.Context, s models.TournamentState) (models.TournamentState, error) {
	if s.Phase != models.PhaseSemiFinals {
		return s, fmt.Errorf("start finals from %s: %w", s.Phase, ErrInvalidPhase)
	}
	a, b := s.SemiFinals.Session1, s.SemiFinals.Session2
	if len(a.ManualQualifiers) != models.SessionQualifiers || len(b.ManualQualifiers) != models.SessionQualifiers {
		return s, ErrQualifierSelection
	}
	if !models.AllComplete(a.Races) || !models.AllComplete(b.Races) {
		return s, ErrSessionRacesIncomplete
	}

	heats, err := brackets.NewFinalHeats().GenerateRaces(ctx, brackets.GenerateRacesParams{PlayerIDs: brackets.Finalists(a, b)})
	if err != nil {
		return s, fmt.Errorf("build finals: %w", err)
	}

	next := s.Clone()
	next.FinalRaces = heats.Races
	next.Phase = models.PhaseFinals
	return next, nil
}

// ResetAll returns the empty initial state. It is only allowed once every
// final race is complete, or while registration has nobody signed up.
func ResetAll(s models.TournamentState) (models.TournamentState, error) {
	switch {
	case s.Phase == models.PhaseCompleted:
	case s.Phase == models.PhaseRegistration && len(s.Players) == 0:
	default:
		return s, fmt.Errorf("reset from %s: %w", s.Phase, ErrResetNotAllowed)
	}
	return models.NewTournamentState(), nil
}

// DuplicatePositions lists positions claimed by more than one player in a race.
// Duplicates are accepted; callers only report them.
func DuplicatePositions(race models.Race) []int {
	seen := make(map[int]int, len(race.Results))
	for _, pos := range race.Results {
		seen[pos]++
	}
	var dups []int
	for pos := models.MinPosition; pos <= models.MaxPosition; pos++ {
		if seen[pos] > 1 {
			dups = append(dups, pos)
		}
	}
	return dups
}
