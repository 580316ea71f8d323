package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/db"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/repositories"
	"github.com/Zanziz/MK-project/scoring"
	"github.com/Zanziz/MK-project/storage"
	"github.com/Zanziz/MK-project/tournament"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

type schedulePreview struct {
	Players   int            `yaml:"players" json:"players"`
	Attempts  int            `yaml:"attempts" json:"attempts"`
	LooseMode bool           `yaml:"loose_mode" json:"loose_mode"`
	Races     []previewRace  `yaml:"races" json:"races"`
	PerPlayer map[string]int `yaml:"races_per_player" json:"races_per_player"`
}

type previewRace struct {
	ID      string   `yaml:"id" json:"id"`
	Players []string `yaml:"players" json:"players"`
}

// openRepo lets tests swap the Postgres repository for an in-memory one.
var openRepo = func(ctx context.Context, dsn string) (repositories.StateRepository, func() error, error) {
	if dsn == "" {
		return nil, nil, errors.New("database url is required (--database-url or DATABASE_URL)")
	}
	conn, err := db.Connect(dsn, 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPostgresStateRepository(conn), conn.Close, nil
}

func newApp(out io.Writer) *cli.App {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "format",
			Value: formatText,
			Usage: "output format: text, yaml or json",
		}
	}
	dbFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "database-url",
			EnvVars: []string{"DATABASE_URL"},
			Usage:   "PostgreSQL DSN of the tournament server",
		}
	}

	return &cli.App{
		Name:      "mkctl",
		Usage:     "Mario Kart tournament operator tool",
		Writer:    out,
		ErrWriter: out,
		Before: func(c *cli.Context) error {
			_ = godotenv.Load()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "schedule",
				Usage: "preview a championship schedule for N players",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "players", Aliases: []string{"n"}, Required: true, Usage: "number of players (4-50)"},
					&cli.Uint64Flag{Name: "seed", Usage: "shuffle seed; 0 picks a random one"},
					formatFlag(),
				},
				Action: func(c *cli.Context) error {
					return runSchedule(c.App.Writer, c.Int("players"), c.Uint64("seed"), c.String("format"))
				},
			},
			{
				Name:  "points",
				Usage: "print the points table",
				Action: func(c *cli.Context) error {
					return printPoints(c.App.Writer)
				},
			},
			{
				Name:  "state",
				Usage: "inspect or reset the persisted tournament",
				Subcommands: []*cli.Command{
					{
						Name:  "show",
						Usage: "print the leaderboard of the stored tournament",
						Flags: []cli.Flag{dbFlag(), formatFlag()},
						Action: func(c *cli.Context) error {
							return withRepo(c, func(repo repositories.StateRepository) error {
								state, err := loadState(c.Context, repo)
								if err != nil {
									return err
								}
								return printLeaderboard(c.App.Writer, tournament.Leaderboard(state), c.String("format"))
							})
						},
					},
					{
						Name:  "export",
						Usage: "write the standings workbook of the stored tournament",
						Flags: []cli.Flag{dbFlag(), &cli.StringFlag{Name: "out", Value: "standings.xlsx", Usage: "output file"}},
						Action: func(c *cli.Context) error {
							return withRepo(c, func(repo repositories.StateRepository) error {
								state, err := loadState(c.Context, repo)
								if err != nil {
									return err
								}
								data, err := storage.StandingsWorkbook(tournament.Leaderboard(state))
								if err != nil {
									return err
								}
								if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
									return fmt.Errorf("write %s: %w", c.String("out"), err)
								}
								fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String("out"))
								return nil
							})
						},
					},
					{
						Name:  "reset",
						Usage: "delete the stored tournament (the server must be restarted afterwards)",
						Flags: []cli.Flag{dbFlag(), &cli.BoolFlag{Name: "yes", Usage: "confirm the deletion"}},
						Action: func(c *cli.Context) error {
							if !c.Bool("yes") {
								return errors.New("refusing to reset without --yes")
							}
							return withRepo(c, func(repo repositories.StateRepository) error {
								err := repo.Delete(c.Context)
								if errors.Is(err, repositories.ErrStateNotFound) {
									fmt.Fprintln(c.App.Writer, "nothing stored")
									return nil
								}
								if err != nil {
									return err
								}
								fmt.Fprintln(c.App.Writer, "tournament state deleted")
								return nil
							})
						},
					},
				},
			},
		},
	}
}

func withRepo(c *cli.Context, fn func(repositories.StateRepository) error) error {
	repo, closeFn, err := openRepo(c.Context, c.String("database-url"))
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(repo)
}

func loadState(ctx context.Context, repo repositories.StateRepository) (models.TournamentState, error) {
	state, err := repo.Load(ctx)
	if errors.Is(err, repositories.ErrStateNotFound) {
		return models.NewTournamentState(), nil
	}
	return state, err
}

func runSchedule(out io.Writer, players int, seed uint64, format string) error {
	if players < models.MinPlayers || players > models.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d, got %d", models.MinPlayers, models.MaxPlayers, players)
	}
	var opts []brackets.ChampionshipOption
	if seed != 0 {
		opts = append(opts, brackets.WithSeed(seed))
	}

	ids := make([]string, players)
	for i := range ids {
		ids[i] = fmt.Sprintf("P%d", i+1)
	}
	schedule := brackets.NewChampionshipGenerator(opts...).Schedule(ids)

	preview := schedulePreview{
		Players:   players,
		Attempts:  schedule.Attempts,
		LooseMode: schedule.LooseMode,
		PerPlayer: map[string]int{},
	}
	for _, r := range schedule.Races {
		preview.Races = append(preview.Races, previewRace{ID: r.ID, Players: r.PlayerIDs})
		for _, id := range r.PlayerIDs {
			preview.PerPlayer[id]++
		}
	}

	switch format {
	case formatYAML:
		return yaml.NewEncoder(out).Encode(preview)
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(preview)
	case formatText:
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "%d players, %d races, attempts=%d loose=%t\n", players, len(preview.Races), preview.Attempts, preview.LooseMode)
		for _, r := range preview.Races {
			fmt.Fprintf(tw, "%s\t%v\n", r.ID, r.Players)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printPoints(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Position\tPoints")
	for i := range scoring.PointsTable {
		fmt.Fprintf(tw, "%d\t%d\n", i+1, scoring.Points(i+1))
	}
	return tw.Flush()
}

func printLeaderboard(out io.Writer, lb models.Leaderboard, format string) error {
	switch format {
	case formatYAML:
		return yaml.NewEncoder(out).Encode(lb)
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(lb)
	case formatText:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Phase: %s (%d/%d championship races)\n", lb.Phase, lb.CompletedRaces, lb.TotalRaces)
	fmt.Fprintln(tw, "#\tGamer Tag\tScore\tRaces\tQ")
	for _, s := range lb.Championship {
		mark := ""
		if s.Qualifying {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", s.Rank, s.GamerTag, s.Score, s.RacesPlayed, mark)
	}
	if lb.Champion != nil {
		fmt.Fprintf(tw, "Champion: %s\n", lb.Champion.GamerTag)
	}
	return tw.Flush()
}
