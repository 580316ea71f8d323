package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/storage"
	"github.com/go-co-op/gocron/v2"
)

// StateReader is the read side of TournamentService used by background jobs.
type StateReader interface {
	GetState(ctx context.Context) models.TournamentState
}

// BackupScheduler periodically archives the current state when it changed
// since the last backup.
type BackupScheduler struct {
	scheduler gocron.Scheduler
	reader    StateReader
	archiver  StateArchiver
	logger    *slog.Logger

	mu          sync.Mutex
	lastVersion int64
}

func NewBackupScheduler(reader StateReader, archiver StateArchiver, interval time.Duration, logger *slog.Logger) (*BackupScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		return nil, fmt.Errorf("backup interval must be positive, got %s", interval)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	b := &BackupScheduler{
		scheduler:   sched,
		reader:      reader,
		archiver:    archiver,
		logger:      logger.With(slog.String("component", "backup_scheduler")),
		lastVersion: -1,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			if _, err := b.runBackup(ctx); err != nil {
				b.logger.Error("periodic backup failed", slog.Any("error", err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register backup job: %w", err)
	}
	return b, nil
}

func (b *BackupScheduler) Start() {
	b.scheduler.Start()
	b.logger.Info("backup scheduler started")
}

func (b *BackupScheduler) Shutdown() error {
	return b.scheduler.Shutdown()
}

// runBackup archives the state unless it is empty or unchanged. It reports
// whether an archive was written.
func (b *BackupScheduler) runBackup(ctx context.Context) (bool, error) {
	state := b.reader.GetState(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(state.Players) == 0 || state.Version == b.lastVersion {
		b.logger.Debug("backup skipped", slog.Int64("version", state.Version))
		return false, nil
	}
	if _, err := b.archiver.Archive(ctx, storage.ReasonBackup, state); err != nil {
		return false, err
	}
	b.lastVersion = state.Version
	return true, nil
}
