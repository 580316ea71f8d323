package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/handlers"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/repositories"
	"github.com/Zanziz/MK-project/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := brackets.NewHub(logger)
	go hub.Run(ctx)

	svc, err := services.NewTournamentService(ctx, repositories.NewMemoryStateRepository(),
		brackets.NewChampionshipGenerator(brackets.WithSeed(99)), hub, nil, nil, logger)
	require.NoError(t, err)

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Tournament: handlers.NewTournamentHandler(svc),
		Player:     handlers.NewPlayerHandler(svc),
		Race:       handlers.NewRaceHandler(svc),
		WebSocket:  handlers.NewWebSocketHandler(hub, svc, []string{"*"}, logger),
		Health:     handlers.NewHealthHandler(svc, hub),
	}, []string{"*"}, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type playerResp struct {
	Player *models.Player `json:"player"`
	Added  bool           `json:"added"`
}

type racesResp struct {
	Races []models.Race `json:"races"`
}

func TestAPI_TournamentFlow(t *testing.T) {
	srv := newTestServer(t)

	var errBody map[string]string
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/tournament/championship", nil, &errBody))
	assert.Contains(t, errBody["error"], "at least 4")

	ids := make([]string, 0, 4)
	for _, tag := range []string{"Mario", "Luigi", "Peach", "Toad"} {
		var p playerResp
		status := do(t, srv, http.MethodPost, "/api/players", services.AddPlayerInput{FirstName: tag, GamerTag: tag}, &p)
		require.Equal(t, http.StatusCreated, status)
		require.True(t, p.Added)
		ids = append(ids, p.Player.ID)
	}

	var races racesResp
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/tournament/championship", nil, &races))
	require.Len(t, races.Races, 3)

	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/api/players", services.AddPlayerInput{FirstName: "Late", GamerTag: "Late"}, nil))

	for _, r := range races.Races {
		positions := map[string]int{}
		for i, id := range ids {
			positions[id] = i + 1
		}
		var got struct {
			Race models.Race `json:"race"`
		}
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/api/races/"+r.ID+"/results", map[string]interface{}{"positions": positions}, &got))
		assert.True(t, got.Race.IsCompleted)
	}

	var lb struct {
		Leaderboard models.Leaderboard `json:"leaderboard"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/leaderboard", nil, &lb))
	require.Len(t, lb.Leaderboard.Championship, 4)
	assert.Equal(t, ids[0], lb.Leaderboard.Championship[0].PlayerID)
	assert.Equal(t, 45, lb.Leaderboard.Championship[0].Score)

	var semis struct {
		SemiFinals models.SemiFinals `json:"semi_finals"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/tournament/semifinals", nil, &semis))
	assert.Equal(t, []string{ids[0], ids[2]}, semis.SemiFinals.Session1.PlayerIDs)
	assert.Equal(t, []string{ids[1], ids[3]}, semis.SemiFinals.Session2.PlayerIDs)

	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, srv, http.MethodPost, "/api/semifinals/s1/qualifiers/"+ids[0], nil, nil), "session races not complete yet")
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/semifinals/s7/qualifiers/"+ids[0], nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/races/missing", nil, nil))

	var state struct {
		Tournament models.TournamentState `json:"tournament"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/tournament", nil, &state))
	assert.Equal(t, models.PhaseSemiFinals, state.Tournament.Phase)

	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodDelete, "/api/tournament", nil, &errBody), "finals not played yet")
	assert.Contains(t, errBody["error"], "final race")
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/tournament", nil, &state))
	assert.Equal(t, models.PhaseSemiFinals, state.Tournament.Phase)
	assert.Len(t, state.Tournament.Players, 4)
}

func TestAPI_RecordResultValidation(t *testing.T) {
	srv := newTestServer(t)

	var ids []string
	for _, tag := range []string{"A", "B", "C", "D"} {
		var p playerResp
		require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/players", services.AddPlayerInput{FirstName: tag, GamerTag: tag}, &p))
		ids = append(ids, p.Player.ID)
	}
	var races racesResp
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/tournament/championship", nil, &races))
	raceID := races.Races[0].ID

	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, srv, http.MethodPut, "/api/races/"+raceID+"/results", map[string]interface{}{"positions": map[string]int{ids[0]: 30}}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, srv, http.MethodPut, "/api/races/"+raceID+"/results", map[string]interface{}{"positions": map[string]int{"ghost": 1}}, nil))
	assert.Equal(t, http.StatusBadRequest,
		do(t, srv, http.MethodPut, "/api/races/"+raceID+"/results", map[string]interface{}{"places": map[string]int{}}, nil))
	assert.Equal(t, http.StatusNotFound,
		do(t, srv, http.MethodPut, "/api/races/gp-99/results", map[string]interface{}{"positions": map[string]int{}}, nil))
}

func TestAPI_RemovePlayer(t *testing.T) {
	srv := newTestServer(t)

	var p playerResp
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/players", services.AddPlayerInput{FirstName: "Wario", GamerTag: "Wah"}, &p))
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/players/"+p.Player.ID, nil, nil))
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/players/"+p.Player.ID, nil, nil))

	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, srv, http.MethodPost, "/api/players", map[string]string{"first_name": " ", "gamer_tag": "x"}, nil))
}

func TestAPI_OpsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var health map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, string(models.PhaseRegistration), health["phase"])

	var doc map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/docs/openapi.json", nil, &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestAPI_WebSocketReceivesSnapshotAndUpdates(t *testing.T) {
	srv := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() brackets.WebSocketMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg brackets.WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, brackets.MessageStateUpdated, read().Type, "snapshot on connect")

	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/tournament", nil, nil))
	assert.Equal(t, brackets.MessageTournamentReset, read().Type)

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/players", services.AddPlayerInput{FirstName: "Daisy", GamerTag: "Daisy"}, nil))
	assert.Equal(t, brackets.MessageStateUpdated, read().Type)
}
