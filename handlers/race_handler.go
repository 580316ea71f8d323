package handlers

import (
	"net/http"

	"github.com/Zanziz/MK-project/services"
)

// RecordResultInput maps player id to finish position. Omitted players stay without a result.
type RecordResultInput struct {
	Positions map[string]int `json:"positions"`
}

type RaceHandler struct {
	tournamentService services.TournamentService
}

func NewRaceHandler(ts services.TournamentService) *RaceHandler {
	return &RaceHandler{tournamentService: ts}
}

// GetRace godoc
// @Summary Получить гонку
// @Tags races
// @Produce json
// @Param raceID path string true "ID гонки"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Гонка не найдена"
// @Router /api/races/{raceID} [get]
func (h *RaceHandler) GetRace(w http.ResponseWriter, r *http.Request) {
	raceID, err := urlParam(r, "raceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	race, err := h.tournamentService.GetRace(r.Context(), raceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"race": race}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Записать результаты гонки (полная замена)
// @Tags races
// @Accept json
// @Produce json
// @Param raceID path string true "ID гонки"
// @Param body body RecordResultInput true "Позиции по ID игрока"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Гонка не найдена"
// @Failure 409 {object} map[string]string "Гонка закрыта на этом этапе"
// @Failure 422 {object} map[string]string "Неверная позиция или игрок"
// @Router /api/races/{raceID}/results [put]
func (h *RaceHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	raceID, err := urlParam(r, "raceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	race, err := h.tournamentService.RecordRaceResult(r.Context(), raceID, input.Positions)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"race": race}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
