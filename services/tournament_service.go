package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/metrics"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/repositories"
	"github.com/Zanziz/MK-project/storage"
	"github.com/Zanziz/MK-project/tournament"
	"github.com/google/uuid"
)

type AddPlayerInput struct {
	FirstName string `json:"first_name"`
	GamerTag  string `json:"gamer_tag"`
}

type TournamentService interface {
	GetState(ctx context.Context) models.TournamentState
	GetLeaderboard(ctx context.Context) models.Leaderboard
	GetRace(ctx context.Context, raceID string) (*models.Race, error)

	AddPlayer(ctx context.Context, input AddPlayerInput) (player *models.Player, added bool, err error)
	RemovePlayer(ctx context.Context, playerID string) error
	StartChampionship(ctx context.Context) ([]models.Race, error)
	RecordRaceResult(ctx context.Context, raceID string, positions map[string]int) (*models.Race, error)
	StartSemiFinals(ctx context.Context) (models.SemiFinals, error)
	ToggleQualifier(ctx context.Context, sessionID, playerID string) (*models.SemiFinalSession, error)
	StartFinals(ctx context.Context) ([]models.Race, error)
	Reset(ctx context.Context) error
}

// tournamentService owns the only mutable copy of the state. Every mutation
// runs transition, persist and swap under mu, so a failed save leaves the
// previous state current.
type tournamentService struct {
	mu    sync.Mutex
	state models.TournamentState

	repo      repositories.StateRepository
	generator brackets.RaceGenerator
	hub       Broadcaster
	archiver  StateArchiver
	metrics   *metrics.TournamentMetrics
	logger    *slog.Logger

	newID      func() string
	now        func() time.Time
	background sync.WaitGroup
}

// NewTournamentService loads the persisted state, or starts empty when there is none.
// hub and archiver may be nil.
func NewTournamentService(
	ctx context.Context,
	repo repositories.StateRepository,
	generator brackets.RaceGenerator,
	hub Broadcaster,
	archiver StateArchiver,
	m *metrics.TournamentMetrics,
	logger *slog.Logger,
) (TournamentService, error) {
	return newTournamentService(ctx, repo, generator, hub, archiver, m, logger)
}

func newTournamentService(
	ctx context.Context,
	repo repositories.StateRepository,
	generator brackets.RaceGenerator,
	hub Broadcaster,
	archiver StateArchiver,
	m *metrics.TournamentMetrics,
	logger *slog.Logger,
) (*tournamentService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewTournamentMetrics(nil)
	}

	state, err := repo.Load(ctx)
	switch {
	case errors.Is(err, repositories.ErrStateNotFound):
		state = models.NewTournamentState()
	case err != nil:
		return nil, fmt.Errorf("load tournament state: %w", err)
	}

	s := &tournamentService{
		state:     state,
		repo:      repo,
		generator: generator,
		hub:       hub,
		archiver:  archiver,
		metrics:   m,
		logger:    logger.With(slog.String("component", "tournament_service")),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	s.metrics.Players.Set(float64(len(state.Players)))
	s.logger.Info("tournament state loaded",
		slog.String("phase", string(state.Phase)),
		slog.Int("players", len(state.Players)),
		slog.Int64("version", state.Version),
	)
	return s, nil
}

func (s *tournamentService) GetState(ctx context.Context) models.TournamentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *tournamentService) GetLeaderboard(ctx context.Context) models.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tournament.Leaderboard(s.state)
}

func (s *tournamentService) GetRace(ctx context.Context, raceID string) (*models.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	race, ok := findRace(s.state, raceID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", tournament.ErrRaceNotFound, raceID)
	}
	return &race, nil
}

func (s *tournamentService) AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, player, err := tournament.AddPlayer(s.state, s.newID(), input.FirstName, input.GamerTag, s.now())
	if err != nil {
		return nil, false, err
	}
	if player == nil {
		s.logger.Info("roster full, player not added", slog.Int("max_players", models.MaxPlayers))
		return nil, false, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, false, err
	}
	s.logger.Info("player registered", slog.String("player_id", player.ID), slog.String("gamer_tag", player.GamerTag))
	return player, true, nil
}

func (s *tournamentService) RemovePlayer(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := tournament.RemovePlayer(s.state, playerID)
	if err != nil {
		return err
	}
	if len(next.Players) == len(s.state.Players) {
		return nil
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Info("player removed", slog.String("player_id", playerID))
	return nil
}

func (s *tournamentService) StartChampionship(ctx context.Context) ([]models.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, schedule, err := tournament.StartChampionship(ctx, s.state, s.generator)
	if err != nil {
		return nil, err
	}

	s.metrics.ScheduleAttempts.Observe(float64(schedule.Attempts))
	if schedule.LooseMode {
		s.metrics.LooseSchedules.Inc()
		s.logger.Warn("championship schedule fell back to loose mode; a race may repeat a player",
			slog.Int("players", len(next.Players)),
			slog.Int("attempts", schedule.Attempts),
		)
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return s.state.Clone().ChampionshipRaces, nil
}

func (s *tournamentService) RecordRaceResult(ctx context.Context, raceID string, positions map[string]int) (*models.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, race, err := tournament.RecordRaceResult(s.state, raceID, positions)
	if err != nil {
		return nil, err
	}

	if dups := tournament.DuplicatePositions(*race); len(dups) > 0 {
		s.metrics.DuplicatePositions.Inc()
		s.logger.Warn("race result has duplicate positions",
			slog.String("race_id", raceID),
			slog.Any("positions", dups),
		)
	}

	phase := s.state.Phase
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.metrics.ResultsRecorded.WithLabelValues(string(phase)).Inc()
	s.logger.Info("race result recorded",
		slog.String("race_id", raceID),
		slog.Int("results", len(race.Results)),
		slog.Bool("completed", race.IsCompleted),
	)
	return race, nil
}

func (s *tournamentService) StartSemiFinals(ctx context.Context) (models.SemiFinals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := tournament.StartSemiFinals(ctx, s.state)
	if err != nil {
		return models.SemiFinals{}, err
	}
	if err := s.commit(ctx, next); err != nil {
		return models.SemiFinals{}, err
	}
	return s.state.Clone().SemiFinals, nil
}

func (s *tournamentService) ToggleQualifier(ctx context.Context, sessionID, playerID string) (*models.SemiFinalSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := tournament.ToggleQualifier(s.state, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.commit(ctx, next); err != nil {
			return nil, err
		}
	} else {
		s.logger.Debug("qualifier toggle ignored, session already has its qualifiers",
			slog.String("session_id", sessionID),
			slog.String("player_id", playerID),
		)
	}
	session := s.state.Session(sessionID).Clone()
	return &session, nil
}

func (s *tournamentService) StartFinals(ctx context.Context) ([]models.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := tournament.StartFinals(ctx, s.state)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return s.state.Clone().FinalRaces, nil
}

func (s *tournamentService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := tournament.ResetAll(s.state)
	if err != nil {
		return err
	}

	if s.archiver != nil && len(s.state.Players) > 0 {
		archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
		s.archive(archiveCtx, storage.ReasonReset, s.state.Clone())
		cancel()
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.metrics.Players.Set(0)
	s.metrics.PhaseTransitions.WithLabelValues(string(models.PhaseRegistration)).Inc()
	s.logger.Info("tournament reset", slog.Int64("version", s.state.Version))
	s.broadcast(brackets.MessageTournamentReset)
	return nil
}

// commit persists next, adopts it and notifies listeners.
func (s *tournamentService) commit(ctx context.Context, next models.TournamentState) error {
	prev := s.state.Phase
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.metrics.Players.Set(float64(len(s.state.Players)))

	if s.state.Phase != prev {
		s.metrics.PhaseTransitions.WithLabelValues(string(s.state.Phase)).Inc()
		s.logger.Info("tournament phase changed",
			slog.String("from", string(prev)),
			slog.String("to", string(s.state.Phase)),
		)
		if s.state.Phase == models.PhaseCompleted {
			s.archiveInBackground(storage.ReasonCompleted, s.state.Clone())
		}
	}
	s.broadcast(brackets.MessageStateUpdated)
	return nil
}

// persist stamps and saves next; it becomes current only after the save succeeds.
func (s *tournamentService) persist(ctx context.Context, next models.TournamentState) error {
	next.Version = s.state.Version + 1
	next.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist tournament state", slog.Int64("version", next.Version), slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	s.state = next
	return nil
}

func (s *tournamentService) broadcast(msgType string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(brackets.TournamentRoom, stateMessage(msgType, s.state.Clone()))
}

func (s *tournamentService) archiveInBackground(reason string, snapshot models.TournamentState) {
	if s.archiver == nil {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		s.archive(ctx, reason, snapshot)
	}()
}

func (s *tournamentService) archive(ctx context.Context, reason string, snapshot models.TournamentState) {
	res, err := s.archiver.Archive(ctx, reason, snapshot)
	if err != nil {
		s.metrics.Archives.WithLabelValues("failed").Inc()
		s.logger.Error("failed to archive tournament", slog.String("reason", reason), slog.Any("error", err))
		return
	}
	s.metrics.Archives.WithLabelValues("ok").Inc()
	s.logger.Info("tournament archive written", slog.String("reason", reason), slog.String("state_url", res.StateURL))
}
