package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/go-chi/chi/v5"
)

type FormatHandler struct {
	formatService services.FormatService
}

func NewFormatHandler(fs services.FormatService) *FormatHandler {
	return &FormatHandler{formatService: fs}
}

type previewInput struct {
	TeamIDs  []string        `json:"team_ids"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// ListFormats godoc
// @Summary Доступные форматы
// @Tags formats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /formats [get]
func (h *FormatHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"formats": h.formatService.ListModes()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Preview godoc
// @Summary Предпросмотр расписания без сохранения
// @Tags formats
// @Accept json
// @Produce json
// @Param mode path string true "round_robin | swiss_elimination | groups_divisions | custom_playoff"
// @Param input body previewInput true "Команды и настройки формата"
// @Success 200 {object} map[string]interface{} "Расписание"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /preview/{mode} [post]
func (h *FormatHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var input previewInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.TeamIDs) == 0 {
		badRequestResponse(w, r, errors.New("team_ids are required"))
		return
	}

	var settings models.FormatSettings
	if raw := bytes.TrimSpace(input.Settings); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		parsed, err := h.formatService.ParseSettings(raw)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		settings = parsed
	}
	settings.Mode = models.FormatMode(chi.URLParam(r, "mode"))

	schedule, err := h.formatService.Preview(settings, input.TeamIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": schedule}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
