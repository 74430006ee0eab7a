package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/fixture-engine/services" // Импортируем для маппинга ошибок сервисов
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576 // 1MB

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Не найдено
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrScheduleNotFound):
		notFoundResponse(w, r, err.Error())

	// Конфликты
	case errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrTournamentNameConflict),
		errors.Is(err, services.ErrResultLocked),
		errors.Is(err, services.ErrScheduleLocked),
		errors.Is(err, services.ErrMatchNotReady):
		conflictResponse(w, r, err.Error())

	// Невалидные данные / бизнес-правила
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrUnknownFormatMode),
		errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrDuplicateTeamID),
		errors.Is(err, services.ErrReservedTeamID),
		errors.Is(err, services.ErrInvalidLegs),
		errors.Is(err, services.ErrInvalidGroupRounds),
		errors.Is(err, services.ErrInvalidQualifiers),
		errors.Is(err, services.ErrInvalidGroupSettings),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrPlayoffDrawNotAllowed):
		failedValidationResponse(w, r, err)

	// Ошибки авторизации/доступа
	case errors.Is(err, services.ErrAuthenticationFailed),
		errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// optionalIntQuery returns nil for an absent parameter.
func optionalIntQuery(r *http.Request, name string, min int) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return nil, errInvalidQuery(name)
	}
	return &v, nil
}

func errInvalidQuery(name string) error {
	return fmt.Errorf("invalid %s query parameter", name)
}
