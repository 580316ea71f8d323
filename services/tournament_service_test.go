package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/repositories"
	"github.com/Zanziz/MK-project/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc      *tournamentService
	repo     *flakyRepo
	hub      *fakeBroadcaster
	archiver *fakeArchiver
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	repo := &flakyRepo{MemoryStateRepository: repositories.NewMemoryStateRepository()}
	hub := &fakeBroadcaster{}
	archiver := &fakeArchiver{}

	svc, err := newTournamentService(context.Background(), repo, brackets.NewChampionshipGenerator(brackets.WithSeed(21)), hub, archiver, nil, nil)
	require.NoError(t, err)
	svc.newID = sequentialIDs()
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return &serviceFixture{svc: svc, repo: repo, hub: hub, archiver: archiver}
}

func (f *serviceFixture) addPlayers(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, added, err := f.svc.AddPlayer(context.Background(), AddPlayerInput{FirstName: fmt.Sprintf("N%d", i), GamerTag: fmt.Sprintf("T%d", i)})
		require.NoError(t, err)
		require.True(t, added)
	}
}

func (f *serviceFixture) finish(t *testing.T, races []models.Race) {
	t.Helper()
	for _, r := range races {
		positions := map[string]int{}
		for i, id := range r.PlayerIDs {
			positions[id] = i + 1
		}
		_, err := f.svc.RecordRaceResult(context.Background(), r.ID, positions)
		require.NoError(t, err)
	}
}

func TestTournamentService_StartsEmpty(t *testing.T) {
	f := newFixture(t)

	state := f.svc.GetState(context.Background())
	assert.Equal(t, models.PhaseRegistration, state.Phase)
	assert.Zero(t, state.Version)
	assert.Empty(t, f.hub.types())
}

func TestTournamentService_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryStateRepository()
	saved := models.NewTournamentState()
	saved.Players = []models.Player{{ID: "x", FirstName: "X", GamerTag: "X", Positions: []int{}}}
	saved.Version = 12
	require.NoError(t, repo.Save(ctx, saved))

	svc, err := NewTournamentService(ctx, repo, brackets.NewChampionshipGenerator(), nil, nil, nil, nil)
	require.NoError(t, err)

	state := svc.GetState(ctx)
	assert.Equal(t, int64(12), state.Version)
	assert.Len(t, state.Players, 1)
}

func TestTournamentService_AddPlayerPersistsAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, added, err := f.svc.AddPlayer(ctx, AddPlayerInput{FirstName: "Peach", GamerTag: "Princess"})
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, "p1", p.ID)

	stored, err := f.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, "Princess", stored.Players[0].GamerTag)
	assert.Equal(t, []string{brackets.MessageStateUpdated}, f.hub.types())

	_, _, err = f.svc.AddPlayer(ctx, AddPlayerInput{FirstName: "NoTag"})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Len(t, f.hub.types(), 1)
}

func TestTournamentService_AddPlayerAtCapacity(t *testing.T) {
	f := newFixture(t)
	f.addPlayers(t, models.MaxPlayers)
	version := f.svc.GetState(context.Background()).Version

	p, added, err := f.svc.AddPlayer(context.Background(), AddPlayerInput{FirstName: "One", GamerTag: "TooMany"})

	require.NoError(t, err)
	assert.False(t, added)
	assert.Nil(t, p)
	assert.Equal(t, version, f.svc.GetState(context.Background()).Version)
}

func TestTournamentService_RemovePlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlayers(t, 2)

	require.NoError(t, f.svc.RemovePlayer(ctx, "p1"))
	require.NoError(t, f.svc.RemovePlayer(ctx, "ghost"))

	state := f.svc.GetState(ctx)
	require.Len(t, state.Players, 1)
	assert.Equal(t, "p2", state.Players[0].ID)
	assert.Equal(t, int64(3), state.Version, "removing an unknown id is not a mutation")
}

func TestTournamentService_SaveFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlayers(t, 4)
	before := f.svc.GetState(ctx)

	f.repo.failSave = true
	_, err := f.svc.StartChampionship(ctx)
	require.ErrorIs(t, err, ErrPersistenceFailed)

	after := f.svc.GetState(ctx)
	assert.Equal(t, models.PhaseRegistration, after.Phase)
	assert.Equal(t, before.Version, after.Version)
	assert.Empty(t, after.ChampionshipRaces)

	f.repo.failSave = false
	races, err := f.svc.StartChampionship(ctx)
	require.NoError(t, err)
	assert.Len(t, races, 3)
}

func TestTournamentService_FullTournament(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlayers(t, 6)

	races, err := f.svc.StartChampionship(ctx)
	require.NoError(t, err)
	require.Len(t, races, 5)

	_, err = f.svc.StartSemiFinals(ctx)
	assert.ErrorIs(t, err, ErrValidationFailed)

	f.finish(t, races)

	lb := f.svc.GetLeaderboard(ctx)
	assert.Equal(t, 5, lb.CompletedRaces)
	assert.Equal(t, 5, lb.TotalRaces)

	semis, err := f.svc.StartSemiFinals(ctx)
	require.NoError(t, err)
	assert.Len(t, semis.Session1.PlayerIDs, 3)
	assert.Len(t, semis.Session2.PlayerIDs, 3)

	f.finish(t, semis.Session1.Races)
	f.finish(t, semis.Session2.Races)

	for _, session := range []models.SemiFinalSession{semis.Session1, semis.Session2} {
		for _, id := range session.PlayerIDs {
			got, err := f.svc.ToggleQualifier(ctx, session.ID, id)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(got.ManualQualifiers), models.SessionQualifiers)
		}
	}

	finals, err := f.svc.StartFinals(ctx)
	require.NoError(t, err)
	require.Len(t, finals, 3)
	assert.Len(t, finals[0].PlayerIDs, 4)

	f.finish(t, finals)
	f.svc.background.Wait()

	state := f.svc.GetState(ctx)
	assert.Equal(t, models.PhaseCompleted, state.Phase)
	assert.NotNil(t, f.svc.GetLeaderboard(ctx).Champion)
	assert.Equal(t, []string{storage.ReasonCompleted}, f.archiver.calls())

	race, err := f.svc.GetRace(ctx, "f-gp1")
	require.NoError(t, err)
	assert.True(t, race.IsCompleted)
	_, err = f.svc.GetRace(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// complete plays a 4 player tournament through to the last final race.
func (f *serviceFixture) complete(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	f.addPlayers(t, 4)
	races, err := f.svc.StartChampionship(ctx)
	require.NoError(t, err)
	f.finish(t, races)

	semis, err := f.svc.StartSemiFinals(ctx)
	require.NoError(t, err)
	for _, session := range []models.SemiFinalSession{semis.Session1, semis.Session2} {
		f.finish(t, session.Races)
		for _, id := range session.PlayerIDs {
			_, err := f.svc.ToggleQualifier(ctx, session.ID, id)
			require.NoError(t, err)
		}
	}

	finals, err := f.svc.StartFinals(ctx)
	require.NoError(t, err)
	f.finish(t, finals)
	f.svc.background.Wait()
	require.Equal(t, models.PhaseCompleted, f.svc.GetState(ctx).Phase)
}

func TestTournamentService_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.complete(t)
	version := f.svc.GetState(ctx).Version

	require.NoError(t, f.svc.Reset(ctx))

	state := f.svc.GetState(ctx)
	assert.Equal(t, models.PhaseRegistration, state.Phase)
	assert.Empty(t, state.Players)
	assert.Equal(t, version+1, state.Version)

	require.Equal(t, []string{storage.ReasonCompleted, storage.ReasonReset}, f.archiver.calls())
	assert.Len(t, f.archiver.states[1].Players, 4, "archive holds the state before the wipe")

	types := f.hub.types()
	assert.Equal(t, brackets.MessageTournamentReset, types[len(types)-1])
}

func TestTournamentService_ResetRefusedBeforeFinalsComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlayers(t, 4)

	assert.ErrorIs(t, f.svc.Reset(ctx), ErrInvalidPhase, "registration with players")

	_, err := f.svc.StartChampionship(ctx)
	require.NoError(t, err)
	before := f.svc.GetState(ctx)
	broadcasts := len(f.hub.types())

	assert.ErrorIs(t, f.svc.Reset(ctx), ErrInvalidPhase)

	after := f.svc.GetState(ctx)
	assert.Equal(t, models.PhaseChampionship, after.Phase)
	assert.Equal(t, before.Version, after.Version)
	assert.Len(t, after.Players, 4)
	assert.Empty(t, f.archiver.calls())
	assert.Len(t, f.hub.types(), broadcasts)
}

func TestTournamentService_ResetEmptyRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.Reset(ctx))
	assert.Equal(t, models.PhaseRegistration, f.svc.GetState(ctx).Phase)
	assert.Empty(t, f.archiver.calls(), "nothing to archive")
}

func TestTournamentService_ResetSurvivesArchiveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.complete(t)
	f.archiver.err = fmt.Errorf("bucket gone")

	require.NoError(t, f.svc.Reset(ctx))
	assert.Empty(t, f.svc.GetState(ctx).Players)
}

func TestTournamentService_PhaseErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlayers(t, 4)

	_, err := f.svc.StartFinals(ctx)
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = f.svc.ToggleQualifier(ctx, models.SessionAID, "p1")
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = f.svc.StartChampionship(ctx)
	require.NoError(t, err)
	err = f.svc.RemovePlayer(ctx, "p1")
	assert.ErrorIs(t, err, ErrInvalidPhase)
}
