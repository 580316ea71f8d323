package handlers

import (
	"net/http"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/services"
)

type HealthHandler struct {
	tournamentService services.TournamentService
	hub               *brackets.Hub
}

func NewHealthHandler(ts services.TournamentService, hub *brackets.Hub) *HealthHandler {
	return &HealthHandler{tournamentService: ts, hub: hub}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	state := h.tournamentService.GetState(r.Context())
	body := jsonResponse{
		"status":  "ok",
		"phase":   state.Phase,
		"version": state.Version,
	}
	if h.hub != nil {
		body["live_clients"] = h.hub.ClientCount(brackets.TournamentRoom)
	}
	if err := writeJSON(w, http.StatusOK, body, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
