package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hangman/models"
	"hangman/service"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, name string) (*models.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockGameService struct{ mock.Mock }

func (m *mockGameService) NewGame(ctx context.Context, userName string, allowedMisses int) (*models.GameView, error) {
	args := m.Called(ctx, userName, allowedMisses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameView), args.Error(1)
}

func (m *mockGameService) GetGame(ctx context.Context, key string) (*models.GameView, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameView), args.Error(1)
}

func (m *mockGameService) ApplyGuess(ctx context.Context, key, guess string) (*models.GameView, error) {
	args := m.Called(ctx, key, guess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameView), args.Error(1)
}

func (m *mockGameService) CancelGame(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockGameService) GetUserGames(ctx context.Context, userName string) ([]*models.GameView, error) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameView), args.Error(1)
}

func (m *mockGameService) GetGameHistory(ctx context.Context, key string) ([]*models.TurnView, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TurnView), args.Error(1)
}

type mockRankingService struct{ mock.Mock }

func (m *mockRankingService) TopScores(ctx context.Context, limit int) ([]*models.ScoreView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreView), args.Error(1)
}

func (m *mockRankingService) UserRankings(ctx context.Context, limit int) ([]*models.RankingView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RankingView), args.Error(1)
}

func (m *mockRankingService) UserScores(ctx context.Context, userName string) ([]*models.ScoreView, error) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreView), args.Error(1)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) RecomputeAverageMissesRemaining(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStatsService) AverageMissesRemaining() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *mockStatsService) ResetCache() {
	m.Called()
}

type mockReminderService struct{ mock.Mock }

func (m *mockReminderService) SendReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type serverMocks struct {
	users     *mockUserService
	games     *mockGameService
	rankings  *mockRankingService
	stats     *mockStatsService
	reminders *mockReminderService
}

func newTestServer() (*serverMocks, *Server) {
	m := &serverMocks{
		users:     new(mockUserService),
		games:     new(mockGameService),
		rankings:  new(mockRankingService),
		stats:     new(mockStatsService),
		reminders: new(mockReminderService),
	}
	return m, New(m.users, m.games, m.rankings, m.stats, m.reminders)
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthEndpoint(t *testing.T) {
	_, server := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		m, server := newTestServer()
		m.users.On("CreateUser", mock.Anything, "alice", "alice@example.com").
			Return(&models.User{ID: 1, Name: "alice"}, nil)

		rec := doRequest(t, server, http.MethodPost, "/user",
			createUserRequest{Name: "alice", Email: "alice@example.com"})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var body messageResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, "User alice created!", body.Message)
	})

	t.Run("validation failure", func(t *testing.T) {
		m, server := newTestServer()
		m.users.On("CreateUser", mock.Anything, "ab", "").
			Return(nil, service.NewValidationError("Username must be at least 3 characters!"))

		rec := doRequest(t, server, http.MethodPost, "/user", createUserRequest{Name: "ab"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate name", func(t *testing.T) {
		m, server := newTestServer()
		m.users.On("CreateUser", mock.Anything, "alice", "").
			Return(nil, fmt.Errorf("user %q: %w", "alice", service.ErrDuplicateUser))

		rec := doRequest(t, server, http.MethodPost, "/user", createUserRequest{Name: "alice"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, server := newTestServer()

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNewGameEndpoint(t *testing.T) {
	m, server := newTestServer()
	view := &models.GameView{
		Key:           "game-1",
		UserName:      "alice",
		MissesLeft:    6,
		MissedLetters: []string{},
		RevealedWord:  "---",
		Message:       models.MsgNewGame,
	}
	m.games.On("NewGame", mock.Anything, "alice", 6).Return(view, nil)

	rec := doRequest(t, server, http.MethodPost, "/game",
		newGameRequest{UserName: "alice", Misses: 6})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body models.GameView
	decodeBody(t, rec, &body)
	assert.Equal(t, "game-1", body.Key)
	assert.Equal(t, "---", body.RevealedWord)
}

func TestGetGameEndpoint_NotFound(t *testing.T) {
	m, server := newTestServer()
	m.games.On("GetGame", mock.Anything, "missing").
		Return(nil, fmt.Errorf("game %q: %w", "missing", service.ErrNotFound))

	rec := doRequest(t, server, http.MethodGet, "/game/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuessEndpoint(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		m, server := newTestServer()
		view := &models.GameView{
			Key:          "game-1",
			RevealedWord: "-a-",
			MissesLeft:   6,
			Message:      models.MsgLetterInWord,
		}
		m.games.On("ApplyGuess", mock.Anything, "game-1", "a").Return(view, nil)

		rec := doRequest(t, server, http.MethodPut, "/game/game-1", guessRequest{Guess: "a"})

		assert.Equal(t, http.StatusOK, rec.Code)
		var body models.GameView
		decodeBody(t, rec, &body)
		assert.Equal(t, "-a-", body.RevealedWord)
	})

	t.Run("finished game", func(t *testing.T) {
		m, server := newTestServer()
		m.games.On("ApplyGuess", mock.Anything, "game-1", "a").
			Return(nil, service.ErrGameOver)

		rec := doRequest(t, server, http.MethodPut, "/game/game-1", guessRequest{Guess: "a"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid guess", func(t *testing.T) {
		m, server := newTestServer()
		m.games.On("ApplyGuess", mock.Anything, "game-1", "ab").
			Return(nil, service.NewValidationError("Exactly 1 character must be entered!"))

		rec := doRequest(t, server, http.MethodPut, "/game/game-1", guessRequest{Guess: "ab"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCancelGameEndpoint(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		m, server := newTestServer()
		m.games.On("CancelGame", mock.Anything, "game-1").Return(models.MsgCancelled, nil)

		rec := doRequest(t, server, http.MethodDelete, "/game/cancel/game-1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body messageResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, models.MsgCancelled, body.Message)
	})

	t.Run("already over", func(t *testing.T) {
		m, server := newTestServer()
		m.games.On("CancelGame", mock.Anything, "game-1").Return(models.MsgCancelTooLate, nil)

		rec := doRequest(t, server, http.MethodDelete, "/game/cancel/game-1", nil)

		// Refusal is a normal response, not an error status
		assert.Equal(t, http.StatusOK, rec.Code)
		var body messageResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, models.MsgCancelTooLate, body.Message)
	})
}

func TestGameHistoryEndpoint(t *testing.T) {
	m, server := newTestServer()
	m.games.On("GetGameHistory", mock.Anything, "game-1").Return([]*models.TurnView{
		{Guess: "a", Result: models.MsgLetterInWord, RevealedWord: "-a-"},
	}, nil)

	rec := doRequest(t, server, http.MethodGet, "/game/history/game-1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []*models.TurnView
	decodeBody(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "a", body[0].Guess)
}

func TestUserGamesEndpoint(t *testing.T) {
	m, server := newTestServer()
	m.games.On("GetUserGames", mock.Anything, "alice").Return([]*models.GameView{
		{Key: "game-1", UserName: "alice"},
	}, nil)

	rec := doRequest(t, server, http.MethodGet, "/games/active/user/alice", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []*models.GameView
	decodeBody(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "game-1", body[0].Key)
}

func TestHighScoresEndpoint(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		m, server := newTestServer()
		m.rankings.On("TopScores", mock.Anything, 10).Return([]*models.ScoreView{}, nil)

		rec := doRequest(t, server, http.MethodGet, "/scores/high", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.rankings.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		m, server := newTestServer()
		m.rankings.On("TopScores", mock.Anything, 3).Return([]*models.ScoreView{}, nil)

		rec := doRequest(t, server, http.MethodGet, "/scores/high?limit=3", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.rankings.AssertExpectations(t)
	})
}

func TestUserRankingsEndpoint(t *testing.T) {
	m, server := newTestServer()
	m.rankings.On("UserRankings", mock.Anything, 0).Return([]*models.RankingView{
		{UserName: "alice", WinRatio: 1.0},
	}, nil)

	rec := doRequest(t, server, http.MethodGet, "/scores/user-rankings", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []*models.RankingView
	decodeBody(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "alice", body[0].UserName)
}

func TestUserScoresEndpoint_UnknownUser(t *testing.T) {
	m, server := newTestServer()
	m.rankings.On("UserScores", mock.Anything, "ghost").
		Return(nil, fmt.Errorf("user %q: %w", "ghost", service.ErrNotFound))

	rec := doRequest(t, server, http.MethodGet, "/scores/user/ghost", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAverageMissesEndpoint(t *testing.T) {
	t.Run("cached value", func(t *testing.T) {
		m, server := newTestServer()
		m.stats.On("AverageMissesRemaining").Return("The average misses remaining is 7.50", true)

		rec := doRequest(t, server, http.MethodGet, "/games/average_misses", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body messageResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, "The average misses remaining is 7.50", body.Message)
	})

	t.Run("unset cache reads empty", func(t *testing.T) {
		m, server := newTestServer()
		m.stats.On("AverageMissesRemaining").Return("", false)

		rec := doRequest(t, server, http.MethodGet, "/games/average_misses", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body messageResponse
		decodeBody(t, rec, &body)
		assert.Empty(t, body.Message)
	})
}

func TestCacheAverageMissesTask(t *testing.T) {
	m, server := newTestServer()
	m.stats.On("RecomputeAverageMissesRemaining", mock.Anything).Return(nil)

	rec := doRequest(t, server, http.MethodPost, "/tasks/cache_average_misses", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.stats.AssertExpectations(t)
}

func TestSendRemindersCron(t *testing.T) {
	m, server := newTestServer()
	m.reminders.On("SendReminders", mock.Anything).Return(3, nil)

	rec := doRequest(t, server, http.MethodGet, "/crons/send_reminder", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, float64(3), body["emailed"])
}

func TestInternalErrorsMapTo500(t *testing.T) {
	m, server := newTestServer()
	m.games.On("GetGame", mock.Anything, "game-1").
		Return(nil, errors.New("connection reset"))

	rec := doRequest(t, server, http.MethodGet, "/game/game-1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Internal server error", body.Error)
}
