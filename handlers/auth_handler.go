package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/fixture-engine/middleware"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/Dosada05/fixture-engine/utils"
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    utils.TokenTTL,
	}
}

// Register godoc
// @Summary Регистрация организатора
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.RegisterInput true "Имя, email и пароль"
// @Success 201 {object} map[string]interface{} "Созданный пользователь"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 409 {object} map[string]string "Email уже занят"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		badRequestResponse(w, r, errors.New("name, email, and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login godoc
// @Summary Вход и получение JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "Email и пароль"
// @Success 200 {object} map[string]interface{} "Токен и пользователь"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 401 {object} map[string]string "Неверные учётные данные"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tokenString, err := utils.GenerateToken(h.jwtSecret, user, h.tokenTTL)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to issue token: %w", err))
		return
	}

	response := jsonResponse{
		"token":      tokenString,
		"expires_in": int(h.tokenTTL.Seconds()),
		"user":       user,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// actorFromRequest builds the service-level caller from the token claims.
func actorFromRequest(r *http.Request) (services.Actor, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return services.Actor{}, err
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: userID, Role: role}, nil
}
