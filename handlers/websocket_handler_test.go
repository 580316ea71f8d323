package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/services"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingStateService commits a newer version while the snapshot is being read.
type racingStateService struct {
	services.TournamentService
	hub *brackets.Hub
}

func (s *racingStateService) GetState(ctx context.Context) models.TournamentState {
	next := models.NewTournamentState()
	next.Version = 2
	s.hub.BroadcastToRoom(brackets.TournamentRoom, brackets.WebSocketMessage{
		Type:    brackets.MessageStateUpdated,
		Payload: next,
		RoomID:  brackets.TournamentRoom,
	})

	snapshot := models.NewTournamentState()
	snapshot.Version = 1
	return snapshot
}

func TestServeWs_UpdateDuringSnapshotIsDelivered(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := brackets.NewHub(logger)
	go hub.Run(ctx)

	h := NewWebSocketHandler(hub, &racingStateService{hub: hub}, []string{"*"}, logger)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWs))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var versions []int64
	for range 2 {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg struct {
			Type    string                 `json:"type"`
			Payload models.TournamentState `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, brackets.MessageStateUpdated, msg.Type)
		versions = append(versions, msg.Payload.Version)
	}
	assert.ElementsMatch(t, []int64{1, 2}, versions)
}
