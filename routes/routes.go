package routes

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/middleware"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Format     *handlers.FormatHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, jwtSecret []byte, allowedOrigins []string, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.With(authenticate).Get("/me", h.Auth.Me)
	})

	router.Get("/formats", h.Format.ListFormats)
	router.Post("/preview/{mode}", h.Format.Preview)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.GetStandingsHandler)
		r.Get("/{tournamentID}/matches", h.Match.ListMatchesHandler)
		r.Get("/{tournamentID}/matches/{matchID}", h.Match.GetMatchHandler)

		// Защищенные маршруты только для организаторов
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/", h.Tournament.CreateHandler)
			r.Post("/{tournamentID}/schedule", h.Tournament.GenerateScheduleHandler)
			r.Put("/{tournamentID}/disciplinary", h.Tournament.SetDisciplinaryHandler)
			r.Put("/{tournamentID}/matches/{matchID}/result", h.Match.RecordResultHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
}
