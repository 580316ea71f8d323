package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/tournament"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

const (
	contentTypeJSON = "application/json"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	archiveRoot = "archives"
)

// Archive reasons.
const (
	ReasonCompleted = "completed"
	ReasonReset     = "reset"
	ReasonBackup    = "backup"
)

// ArchiveResult lists what was written for one archive.
type ArchiveResult struct {
	Prefix       string `json:"prefix"`
	StateURL     string `json:"state_url"`
	StandingsURL string `json:"standings_url"`
}

// Archiver writes point-in-time copies of the tournament (the raw state and a
// standings workbook) to an object store.
type Archiver struct {
	uploader FileUploader
	prefix   string
	logger   *slog.Logger
	now      func() time.Time
}

func NewArchiver(uploader FileUploader, tournamentName string, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	name := slug.Make(tournamentName)
	if name == "" {
		name = "tournament"
	}
	return &Archiver{
		uploader: uploader,
		prefix:   path.Join(archiveRoot, name),
		logger:   logger.With(slog.String("component", "archiver")),
		now:      time.Now,
	}
}

// Archive uploads state.json and standings.xlsx in parallel under
// archives/<tournament>/<timestamp>-<reason>/. When one upload fails the other
// object is removed so an archive is either complete or absent.
func (a *Archiver) Archive(ctx context.Context, reason string, state models.TournamentState) (*ArchiveResult, error) {
	stateJSON, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state for archive: %w", err)
	}
	workbook, err := StandingsWorkbook(tournament.Leaderboard(state))
	if err != nil {
		return nil, fmt.Errorf("build standings workbook: %w", err)
	}

	prefix := path.Join(a.prefix, fmt.Sprintf("%s-%s", a.now().UTC().Format("20060102T150405Z"), reason))
	stateKey := path.Join(prefix, "state.json")
	standingsKey := path.Join(prefix, "standings.xlsx")

	var stateRes, standingsRes *UploadResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stateRes, err = a.uploader.Upload(gctx, stateKey, contentTypeJSON, bytes.NewReader(stateJSON))
		return err
	})
	g.Go(func() error {
		var err error
		standingsRes, err = a.uploader.Upload(gctx, standingsKey, contentTypeXLSX, bytes.NewReader(workbook))
		return err
	})
	if err := g.Wait(); err != nil {
		for _, uploaded := range []*UploadResult{stateRes, standingsRes} {
			if uploaded == nil {
				continue
			}
			if delErr := a.uploader.Delete(context.WithoutCancel(ctx), uploaded.Key); delErr != nil {
				a.logger.Warn("failed to remove partial archive object", slog.String("key", uploaded.Key), slog.Any("error", delErr))
			}
		}
		return nil, fmt.Errorf("upload archive %s: %w", prefix, err)
	}

	a.logger.Info("tournament archived",
		slog.String("reason", reason),
		slog.String("prefix", prefix),
		slog.Int64("version", state.Version),
	)
	return &ArchiveResult{
		Prefix:       prefix,
		StateURL:     stateRes.Location,
		StandingsURL: standingsRes.Location,
	}, nil
}
