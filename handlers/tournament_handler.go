package handlers

import (
	"net/http"

	"github.com/Zanziz/MK-project/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// GetState godoc
// @Summary Полное состояние турнира
// @Tags tournament
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/tournament [get]
func (h *TournamentHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.tournamentService.GetState(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLeaderboard godoc
// @Summary Таблицы всех этапов
// @Tags tournament
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/leaderboard [get]
func (h *TournamentHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb := h.tournamentService.GetLeaderboard(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": lb}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartChampionship godoc
// @Summary Сгенерировать расписание чемпионата
// @Tags tournament
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Неверный этап"
// @Failure 422 {object} map[string]string "Мало игроков"
// @Router /api/tournament/championship [post]
func (h *TournamentHandler) StartChampionship(w http.ResponseWriter, r *http.Request) {
	races, err := h.tournamentService.StartChampionship(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"races": races}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartSemiFinals godoc
// @Summary Посев полуфиналов
// @Tags tournament
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Неверный этап"
// @Failure 422 {object} map[string]string "Чемпионат не завершён"
// @Router /api/tournament/semifinals [post]
func (h *TournamentHandler) StartSemiFinals(w http.ResponseWriter, r *http.Request) {
	semis, err := h.tournamentService.StartSemiFinals(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"semi_finals": semis}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ToggleQualifier godoc
// @Summary Отметить или снять квалифицированного игрока полуфинала
// @Tags tournament
// @Produce json
// @Param sessionID path string true "s1 или s2"
// @Param playerID path string true "ID игрока"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Failure 422 {object} map[string]string "Игрок не из этой сессии или гонки не завершены"
// @Router /api/semifinals/{sessionID}/qualifiers/{playerID} [post]
func (h *TournamentHandler) ToggleQualifier(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlParam(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := urlParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.tournamentService.ToggleQualifier(r.Context(), sessionID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartFinals godoc
// @Summary Создать гонки финала
// @Tags tournament
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Неверный этап"
// @Failure 422 {object} map[string]string "Нужно ровно по 2 квалифицированных в каждой сессии"
// @Router /api/tournament/finals [post]
func (h *TournamentHandler) StartFinals(w http.ResponseWriter, r *http.Request) {
	races, err := h.tournamentService.StartFinals(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"races": races}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset godoc
// @Summary Сбросить турнир
// @Tags tournament
// @Success 204
// @Failure 409 {object} map[string]string "Финалы ещё не завершены"
// @Router /api/tournament [delete]
func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.Reset(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
