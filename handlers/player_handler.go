package handlers

import (
	"net/http"

	"github.com/Zanziz/MK-project/services"
)

type PlayerHandler struct {
	tournamentService services.TournamentService
}

func NewPlayerHandler(ts services.TournamentService) *PlayerHandler {
	return &PlayerHandler{tournamentService: ts}
}

// AddPlayer godoc
// @Summary Зарегистрировать игрока
// @Tags players
// @Accept json
// @Produce json
// @Param body body services.AddPlayerInput true "Имя и геймертег"
// @Success 201 {object} map[string]interface{} "Игрок добавлен"
// @Success 200 {object} map[string]interface{} "Состав заполнен, игрок не добавлен"
// @Failure 409 {object} map[string]string "Регистрация закрыта"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /api/players [post]
func (h *PlayerHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.AddPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, added, err := h.tournamentService.AddPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"player": player, "added": added}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemovePlayer godoc
// @Summary Удалить игрока (только во время регистрации)
// @Tags players
// @Param playerID path string true "ID игрока"
// @Success 204
// @Failure 409 {object} map[string]string "Регистрация закрыта"
// @Router /api/players/{playerID} [delete]
func (h *PlayerHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.RemovePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
