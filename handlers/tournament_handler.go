package handlers

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	scheduleService   services.ScheduleService
	matchService      services.MatchService
}

func NewTournamentHandler(ts services.TournamentService, ss services.ScheduleService, ms services.MatchService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		scheduleService:   ss,
		matchService:      ms,
	}
}

// CreateHandler godoc
// @Summary Создать турнир
// @Tags tournaments
// @Description Состав команд и формат проверяются сразу; расписание генерируется отдельным запросом.
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Название, команды и настройки формата"
// @Success 201 {object} map[string]interface{} "Турнир создан"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 409 {object} map[string]string "Название занято"
// @Failure 422 {object} map[string]string "Ошибка валидации формата"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Турнир с расписанием, матчами и таблицей
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.scheduleService.GetTournamentData(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Список турниров
// @Tags tournaments
// @Produce json
// @Param organizer_id query int false "Organizer ID"
// @Param status query string false "draft | scheduled | active | completed"
// @Param limit query int false "Limit (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListTournamentsFilter

	organizerID, err := optionalIntQuery(r, "organizer_id", 1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.OrganizerID = organizerID

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.TournamentStatus(statusStr)
		switch status {
		case models.StatusDraft, models.StatusScheduled, models.StatusActive, models.StatusCompleted:
			filter.Status = &status
		default:
			badRequestResponse(w, r, errInvalidQuery("status"))
			return
		}
	}

	limit, err := optionalIntQuery(r, "limit", 1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if limit != nil {
		filter.Limit = *limit
	}
	offset, err := optionalIntQuery(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if offset != nil {
		filter.Offset = *offset
	}

	tournaments, err := h.tournamentService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateScheduleHandler godoc
// @Summary Сгенерировать расписание
// @Tags tournaments
// @Description Заменяет предыдущее расписание, пока не внесён ни один результат.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Расписание"
// @Failure 403 {object} map[string]string "Не организатор турнира"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Результаты уже внесены"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/schedule [post]
func (h *TournamentHandler) GenerateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	schedule, err := h.scheduleService.GenerateSchedule(r.Context(), actor, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": schedule}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandingsHandler godoc
// @Summary Турнирная таблица
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.scheduleService.GetStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetDisciplinaryHandler godoc
// @Summary Штрафные (дисциплинарные) очки
// @Tags tournaments
// @Description Полностью заменяет очки; меньше очков выше в таблице при равенстве.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body map[string]int true "team_id -> очки"
// @Success 200 {object} services.ResultOutcome
// @Failure 403 {object} map[string]string "Не организатор турнира"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/disciplinary [put]
func (h *TournamentHandler) SetDisciplinaryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var points map[string]int
	if err := readJSON(w, r, &points); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.SetDisciplinaryPoints(r.Context(), actor, id, points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
