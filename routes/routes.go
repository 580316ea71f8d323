package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Zanziz/MK-project/docs"
	"github.com/Zanziz/MK-project/handlers"
	"github.com/Zanziz/MK-project/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const requestTimeout = 15 * time.Second

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Player     *handlers.PlayerHandler
	Race       *handlers.RaceHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
	Metrics    http.Handler
}

func SetupRoutes(router chi.Router, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Healthz)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}
	router.Get("/docs/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPI)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/docs/openapi.json")))

	// Websocket живёт дольше таймаута запросов
	router.Get("/ws", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Get("/tournament", h.Tournament.GetState)
		r.Delete("/tournament", h.Tournament.Reset)
		r.Post("/tournament/championship", h.Tournament.StartChampionship)
		r.Post("/tournament/semifinals", h.Tournament.StartSemiFinals)
		r.Post("/tournament/finals", h.Tournament.StartFinals)
		r.Get("/leaderboard", h.Tournament.GetLeaderboard)

		r.Post("/players", h.Player.AddPlayer)
		r.Delete("/players/{playerID}", h.Player.RemovePlayer)

		r.Get("/races/{raceID}", h.Race.GetRace)
		r.Put("/races/{raceID}/results", h.Race.RecordResult)

		r.Post("/semifinals/{sessionID}/qualifiers/{playerID}", h.Tournament.ToggleQualifier)
	})
}
