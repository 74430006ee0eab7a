package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// ListMatchesHandler godoc
// @Summary Матчи турнира
// @Tags matches
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param round query int false "Глобальный номер тура (с 0)"
// @Param is_playoff query bool false "Только плей-офф / только лига"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var filter repositories.ListMatchesFilter
	round, err := optionalIntQuery(r, "round", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.Round = round
	if raw := r.URL.Query().Get("is_playoff"); raw != "" {
		isPlayoff, err := strconv.ParseBool(raw)
		if err != nil {
			badRequestResponse(w, r, errInvalidQuery("is_playoff"))
			return
		}
		filter.IsPlayoff = &isPlayoff
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatchHandler godoc
// @Summary Матч
// @Tags matches
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Матч не найден"
// @Router /tournaments/{tournamentID}/matches/{matchID} [get]
func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), tournamentID, chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler godoc
// @Summary Внести или исправить результат
// @Tags matches
// @Description Пересчитывает таблицу и сетки; исправление блокируется после сыгранного следующего раунда плей-офф.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path string true "Match ID"
// @Param input body services.ResultInput true "Счёт и дата (RFC 3339 или YYYY-MM-DD)"
// @Success 200 {object} services.ResultOutcome
// @Failure 403 {object} map[string]string "Не организатор турнира"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Участники ещё не определены / результат заблокирован"
// @Failure 422 {object} map[string]string "Некорректный счёт"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [put]
func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.RecordResult(r.Context(), actor, tournamentID, chi.URLParam(r, "matchID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
