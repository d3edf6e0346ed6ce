package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hangman/models"
	"hangman/words"
)

// CreateTestGame creates an active test game for the given user
func CreateTestGame(userID int64, secretWord string, allowedMisses int) *models.Game {
	now := time.Now()
	return &models.Game{
		ID:            uuid.New().String(),
		UserID:        userID,
		SecretWord:    secretWord,
		RevealedWord:  strings.Repeat("-", len(secretWord)),
		AllowedMisses: allowedMisses,
		MissesLeft:    allowedMisses,
		MissedLetters: []string{},
		Difficulty:    words.Difficulty(secretWord),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CreateFinishedTestGame creates a game that is already over
func CreateFinishedTestGame(userID int64, secretWord string, won bool) *models.Game {
	game := CreateTestGame(userID, secretWord, models.MinAllowedMisses)
	game.GameOver = true
	if won {
		game.RevealedWord = secretWord
	} else {
		game.MissesLeft = 0
		game.MissedLetters = []string{"q", "x", "z", "j", "v", "k"}
	}
	return game
}

// CreateTestScore creates a score record for a finished game
func CreateTestScore(userID int64, gameID string, won bool, misses, difficulty int) *models.Score {
	return &models.Score{
		ID:         uuid.New().String(),
		UserID:     userID,
		GameID:     gameID,
		Won:        won,
		Misses:     misses,
		Difficulty: difficulty,
		Date:       time.Now(),
	}
}
