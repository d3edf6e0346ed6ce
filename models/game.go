package models

import (
	"fmt"
	"strings"
	"time"
)

// GameState represents the state of a game
type GameState string

const (
	GameStateActive GameState = "active"
	GameStateWon    GameState = "won"
	GameStateLost   GameState = "lost"
)

// Allowed misses bounds for a new game
const (
	MinAllowedMisses = 6
	MaxAllowedMisses = 10
)

// Player-facing messages. The texts are part of the API contract.
const (
	MsgNewGame        = "Enjoy playing Hangman!"
	MsgTakeTurn       = "Time to take a turn!"
	MsgGameOver       = "The game is over!"
	MsgAlreadyGuessed = "That letter was already guessed. Try a different letter!"
	MsgLetterInWord   = "Guessed letter is in secret word!"
	MsgLetterNotInWord = "Guessed letter not in secret word!"
	MsgCancelled      = "Game has been cancelled!"
	MsgCancelTooLate  = "Failed to cancel: Game already over!"
)

// Game represents a single hangman session owned by one user
type Game struct {
	ID            string    `db:"id"`
	UserID        int64     `db:"user_id"`
	UserName      string    `db:"-"` // joined from users for outward views
	SecretWord    string    `db:"secret_word"`
	RevealedWord  string    `db:"revealed_word"`
	AllowedMisses int       `db:"allowed_misses"`
	MissesLeft    int       `db:"misses_left"`
	MissedLetters []string  `db:"missed_letters"` // wrong guesses in insertion order
	Difficulty    int       `db:"difficulty"`
	GameOver      bool      `db:"game_over"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// TurnRecord is one entry of a game's append-only turn history
type TurnRecord struct {
	GameID       string    `db:"game_id"`
	Turn         int       `db:"turn"`
	Guess        string    `db:"guess"`
	Result       string    `db:"result"`
	RevealedWord string    `db:"revealed_word"`
	CreatedAt    time.Time `db:"created_at"`
}

// GuessResult is the outcome of applying one guess to a game
type GuessResult struct {
	Message      string
	AlreadyTried bool // repeat of a previous guess; nothing changed
	Finished     bool
	Won          bool
}

// State derives the game state. A terminal game is won exactly when the
// full secret word was revealed; a lost game never reaches full reveal.
func (g *Game) State() GameState {
	if !g.GameOver {
		return GameStateActive
	}
	if g.RevealedWord == g.SecretWord {
		return GameStateWon
	}
	return GameStateLost
}

// MissesTaken returns the number of wrong guesses so far
func (g *Game) MissesTaken() int {
	return g.AllowedMisses - g.MissesLeft
}

// ApplyGuess runs one turn of the state machine. The letter must already be
// normalized to a single lowercase alphabetic character and the game must be
// active; the service layer enforces both before calling.
//
// A repeated guess is a no-op: no state changes and no turn is recorded.
// A correct final letter wins before the loss check runs, and a winning
// guess never decrements MissesLeft, so a single guess cannot both win and
// lose the game.
func (g *Game) ApplyGuess(letter string) GuessResult {
	if g.alreadyTried(letter) {
		return GuessResult{Message: MsgAlreadyGuessed, AlreadyTried: true}
	}

	var message string
	if strings.Contains(g.SecretWord, letter) {
		g.revealLetter(letter)
		message = MsgLetterInWord
		if g.RevealedWord == g.SecretWord {
			g.GameOver = true
			message += fmt.Sprintf(" You win! The secret word is %s.", g.SecretWord)
		}
	} else {
		g.MissesLeft--
		g.MissedLetters = append(g.MissedLetters, letter)
		message = MsgLetterNotInWord
	}

	if g.MissesLeft < 1 {
		g.GameOver = true
		message += fmt.Sprintf(" You lost! The secret word was %s.", g.SecretWord)
	}

	return GuessResult{
		Message:  message,
		Finished: g.GameOver,
		Won:      g.GameOver && g.RevealedWord == g.SecretWord,
	}
}

// alreadyTried reports whether the letter was guessed before, either as a
// miss or as a revealed position.
func (g *Game) alreadyTried(letter string) bool {
	for _, missed := range g.MissedLetters {
		if missed == letter {
			return true
		}
	}
	return strings.Contains(g.RevealedWord, letter)
}

// revealLetter replaces every dash whose secret-word position holds the letter
func (g *Game) revealLetter(letter string) {
	revealed := []byte(g.RevealedWord)
	for i := 0; i < len(g.SecretWord); i++ {
		if string(g.SecretWord[i]) == letter {
			revealed[i] = g.SecretWord[i]
		}
	}
	g.RevealedWord = string(revealed)
}
