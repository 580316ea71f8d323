package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zanziz/MK-project/models"
	"github.com/lib/pq"
)

type postgresStateRepository struct {
	exec SQLExecutor
}

// NewPostgresStateRepository works on a *sql.DB or inside a caller-owned *sql.Tx.
func NewPostgresStateRepository(exec SQLExecutor) StateRepository {
	return &postgresStateRepository{exec: exec}
}

func (r *postgresStateRepository) Load(ctx context.Context) (models.TournamentState, error) {
	query := `SELECT state FROM tournament_state WHERE id = $1`

	var raw []byte
	err := r.exec.QueryRowContext(ctx, query, CurrentStateKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TournamentState{}, ErrStateNotFound
		}
		return models.TournamentState{}, r.handleStateError(err)
	}

	state := models.NewTournamentState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.TournamentState{}, fmt.Errorf("%w: %w", ErrStateCorrupted, err)
	}
	return state, nil
}

func (r *postgresStateRepository) Save(ctx context.Context, state models.TournamentState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode tournament state: %w", err)
	}

	query := `
		INSERT INTO tournament_state (id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`

	_, err = r.exec.ExecContext(ctx, query, CurrentStateKey, string(raw), state.UpdatedAt)
	return r.handleStateError(err)
}

func (r *postgresStateRepository) Delete(ctx context.Context) error {
	query := `DELETE FROM tournament_state WHERE id = $1`

	result, err := r.exec.ExecContext(ctx, query, CurrentStateKey)
	if err != nil {
		return r.handleStateError(err)
	}
	return checkAffectedRows(result, ErrStateNotFound)
}

func (r *postgresStateRepository) handleStateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
		return fmt.Errorf("%w: %w", ErrStateTableMissing, err)
	}
	return err
}
