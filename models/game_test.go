package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(secret string, allowedMisses int) *Game {
	revealed := make([]byte, len(secret))
	for i := range revealed {
		revealed[i] = '-'
	}
	return &Game{
		ID:            "test-game",
		UserID:        1,
		SecretWord:    secret,
		RevealedWord:  string(revealed),
		AllowedMisses: allowedMisses,
		MissesLeft:    allowedMisses,
		MissedLetters: []string{},
	}
}

func TestGame_ApplyGuess_CorrectLetter(t *testing.T) {
	game := newTestGame("cat", 6)

	result := game.ApplyGuess("a")

	assert.Equal(t, MsgLetterInWord, result.Message)
	assert.False(t, result.AlreadyTried)
	assert.False(t, result.Finished)
	assert.Equal(t, "-a-", game.RevealedWord)
	assert.Equal(t, 6, game.MissesLeft)
	assert.Empty(t, game.MissedLetters)
}

func TestGame_ApplyGuess_RepeatedLetterReveals(t *testing.T) {
	game := newTestGame("banana", 6)

	result := game.ApplyGuess("a")

	require.False(t, result.Finished)
	assert.Equal(t, "-a-a-a", game.RevealedWord)
}

func TestGame_ApplyGuess_WrongLetter(t *testing.T) {
	game := newTestGame("cat", 6)

	result := game.ApplyGuess("z")

	assert.Equal(t, MsgLetterNotInWord, result.Message)
	assert.False(t, result.Finished)
	assert.Equal(t, 5, game.MissesLeft)
	assert.Equal(t, []string{"z"}, game.MissedLetters)
	assert.Equal(t, 1, game.MissesTaken())
}

func TestGame_ApplyGuess_AlreadyTriedMiss(t *testing.T) {
	game := newTestGame("cat", 6)
	game.ApplyGuess("z")

	result := game.ApplyGuess("z")

	assert.Equal(t, MsgAlreadyGuessed, result.Message)
	assert.True(t, result.AlreadyTried)
	// Nothing changed on the repeat
	assert.Equal(t, 5, game.MissesLeft)
	assert.Equal(t, []string{"z"}, game.MissedLetters)
}

func TestGame_ApplyGuess_AlreadyTriedHit(t *testing.T) {
	game := newTestGame("cat", 6)
	game.ApplyGuess("a")

	result := game.ApplyGuess("a")

	assert.True(t, result.AlreadyTried)
	assert.Equal(t, "-a-", game.RevealedWord)
}

func TestGame_ApplyGuess_Win(t *testing.T) {
	game := newTestGame("cat", 6)
	game.ApplyGuess("c")
	game.ApplyGuess("a")

	result := game.ApplyGuess("t")

	assert.True(t, result.Finished)
	assert.True(t, result.Won)
	assert.True(t, game.GameOver)
	assert.Equal(t, "cat", game.RevealedWord)
	assert.Equal(t, GameStateWon, game.State())
	assert.Contains(t, result.Message, "You win! The secret word is cat.")
}

func TestGame_ApplyGuess_Loss(t *testing.T) {
	game := newTestGame("cat", 6)
	for _, letter := range []string{"b", "d", "e", "f", "g"} {
		result := game.ApplyGuess(letter)
		require.False(t, result.Finished)
	}

	result := game.ApplyGuess("h")

	assert.True(t, result.Finished)
	assert.False(t, result.Won)
	assert.True(t, game.GameOver)
	assert.Equal(t, 0, game.MissesLeft)
	assert.Equal(t, GameStateLost, game.State())
	assert.Contains(t, result.Message, "You lost! The secret word was cat.")
}

func TestGame_ApplyGuess_WinOnLastMiss(t *testing.T) {
	// A correct final letter with one miss left wins; the loss check never
	// fires because a winning guess does not decrement.
	game := newTestGame("cat", 6)
	game.MissesLeft = 1
	game.ApplyGuess("c")
	game.ApplyGuess("a")

	result := game.ApplyGuess("t")

	assert.True(t, result.Won)
	assert.Equal(t, 1, game.MissesLeft)
	assert.NotContains(t, result.Message, "You lost!")
}

func TestGame_State_Active(t *testing.T) {
	game := newTestGame("cat", 6)
	assert.Equal(t, GameStateActive, game.State())
}

func TestGame_ToView_HidesSecret(t *testing.T) {
	game := newTestGame("cat", 6)
	game.UserName = "alice"

	view := game.ToView(MsgTakeTurn)

	assert.Equal(t, "test-game", view.Key)
	assert.Equal(t, "alice", view.UserName)
	assert.Equal(t, "---", view.RevealedWord)
	assert.Equal(t, MsgTakeTurn, view.Message)
	assert.NotNil(t, view.MissedLetters)
}
