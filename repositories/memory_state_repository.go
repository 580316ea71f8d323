package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Zanziz/MK-project/models"
)

// MemoryStateRepository keeps the encoded document in memory. It is used when
// no DATABASE_URL is configured and by tests. Storing bytes instead of the
// struct keeps the same round-trip as the Postgres repository.
type MemoryStateRepository struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

func (r *MemoryStateRepository) Load(ctx context.Context) (models.TournamentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return models.TournamentState{}, ErrStateNotFound
	}
	state := models.NewTournamentState()
	if err := json.Unmarshal(r.data, &state); err != nil {
		return models.TournamentState{}, fmt.Errorf("%w: %w", ErrStateCorrupted, err)
	}
	return state, nil
}

func (r *MemoryStateRepository) Save(ctx context.Context, state models.TournamentState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode tournament state: %w", err)
	}
	r.mu.Lock()
	r.data = raw
	r.mu.Unlock()
	return nil
}

func (r *MemoryStateRepository) Delete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return ErrStateNotFound
	}
	r.data = nil
	return nil
}
