package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type createUserRequest struct {
	Name  string `json:"user_name"`
	Email string `json:"email"`
}

type newGameRequest struct {
	UserName string `json:"user_name"`
	Misses   int    `json:"misses"`
}

type guessRequest struct {
	Guess string `json:"guess"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("User %s created!", user.Name),
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	view, err := s.games.NewGame(r.Context(), req.UserName, req.Misses)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.GetGame(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	view, err := s.games.ApplyGuess(r.Context(), chi.URLParam(r, "key"), req.Guess)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCancelGame(w http.ResponseWriter, r *http.Request) {
	message, err := s.games.CancelGame(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (s *Server) handleGameHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := s.games.GetGameHistory(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleUserGames(w http.ResponseWriter, r *http.Request) {
	views, err := s.games.GetUserGames(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleUserScores(w http.ResponseWriter, r *http.Request) {
	views, err := s.rankings.UserScores(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	views, err := s.rankings.TopScores(r.Context(), limitParam(r, 10))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleUserRankings(w http.ResponseWriter, r *http.Request) {
	views, err := s.rankings.UserRankings(r.Context(), limitParam(r, 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAverageMisses(w http.ResponseWriter, r *http.Request) {
	// The cache reads as empty until the recompute task has run
	value, _ := s.stats.AverageMissesRemaining()
	writeJSON(w, http.StatusOK, messageResponse{Message: value})
}

func (s *Server) handleCacheAverageMisses(w http.ResponseWriter, r *http.Request) {
	if err := s.stats.RecomputeAverageMissesRemaining(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Average misses cache updated!"})
}

func (s *Server) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	emailed, err := s.reminders.SendReminders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.WithField("emailed", emailed).Info("Sent game reminders")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Reminders sent!",
		"emailed": emailed,
	})
}

// limitParam reads the optional limit query parameter; zero means unbounded
func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
