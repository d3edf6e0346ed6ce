package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hangman/service"
)

// Server bundles the router and the services the handlers call into
type Server struct {
	r         *chi.Mux
	users     service.UserService
	games     service.GameService
	rankings  service.RankingService
	stats     service.StatsService
	reminders service.ReminderService
}

// New constructs a Server, installs middleware, and registers routes
func New(
	users service.UserService,
	games service.GameService,
	rankings service.RankingService,
	stats service.StatsService,
	reminders service.ReminderService,
) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		users:     users,
		games:     games,
		rankings:  rankings,
		stats:     stats,
		reminders: reminders,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))
	s.r.Use(metricsMiddleware)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	s.r.Post("/user", s.handleCreateUser)

	s.r.Post("/game", s.handleNewGame)
	s.r.Get("/game/{key}", s.handleGetGame)
	s.r.Put("/game/{key}", s.handleGuess)
	s.r.Delete("/game/cancel/{key}", s.handleCancelGame)
	s.r.Get("/game/history/{key}", s.handleGameHistory)
	s.r.Get("/games/active/user/{name}", s.handleUserGames)
	s.r.Get("/games/average_misses", s.handleAverageMisses)

	s.r.Get("/scores/user/{name}", s.handleUserScores)
	s.r.Get("/scores/high", s.handleHighScores)
	s.r.Get("/scores/user-rankings", s.handleUserRankings)

	s.r.Post("/tasks/cache_average_misses", s.handleCacheAverageMisses)
	s.r.Get("/crons/send_reminder", s.handleSendReminders)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	return s
}

// Router exposes the internal router for tests and the HTTP server
func (s *Server) Router() chi.Router { return s.r }
