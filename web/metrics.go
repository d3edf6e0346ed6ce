package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangman_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hangman_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	gamesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hangman_games_created_total",
			Help: "Games created since process start",
		},
	)

	gamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangman_games_finished_total",
			Help: "Games finished since process start, by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveGameCreated records a new game in the process metrics
func ObserveGameCreated() {
	gamesCreated.Inc()
}

// ObserveGameFinished records a finished game in the process metrics
func ObserveGameFinished(won bool) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	gamesFinished.WithLabelValues(outcome).Inc()
}

// metricsMiddleware records request counts and latency per chi route pattern
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
