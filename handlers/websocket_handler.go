package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub               *realtime.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler: allowedOrigins ["*"] accepts any origin.
func NewWebSocketHandler(hub *realtime.Hub, ts services.TournamentService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs обрабатывает WebSocket запросы для конкретного турнира.
// Клиент должен подключаться к /ws/tournaments/{tournamentID}
// @Summary Подписка на события турнира
// @Tags realtime
// @Param tournamentID path int true "Tournament ID"
// @Success 101
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /ws/tournaments/{tournamentID} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.tournamentService.GetByID(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	room := realtime.TournamentRoom(tournamentID)
	client := realtime.NewClient(h.hub, conn, room)
	if !h.hub.RegisterClient(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	slog.DebugContext(r.Context(), "websocket client registered", slog.String("room", room))
}
