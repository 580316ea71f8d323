package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/repositories"
	"github.com/Zanziz/MK-project/storage"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := message.(brackets.WebSocketMessage); ok {
		f.messages = append(f.messages, msg)
	}
}

func (f *fakeBroadcaster) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Type
	}
	return out
}

type fakeArchiver struct {
	mu      sync.Mutex
	reasons []string
	states  []models.TournamentState
	err     error
}

func (f *fakeArchiver) Archive(ctx context.Context, reason string, state models.TournamentState) (*storage.ArchiveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.reasons = append(f.reasons, reason)
	f.states = append(f.states, state)
	return &storage.ArchiveResult{Prefix: reason, StateURL: "https://cdn.test/" + reason}, nil
}

func (f *fakeArchiver) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.reasons...)
}

// flakyRepo wraps the memory repository and fails saves on demand.
type flakyRepo struct {
	*repositories.MemoryStateRepository
	failSave bool
}

func (r *flakyRepo) Save(ctx context.Context, state models.TournamentState) error {
	if r.failSave {
		return errors.New("disk on fire")
	}
	return r.MemoryStateRepository.Save(ctx, state)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}
