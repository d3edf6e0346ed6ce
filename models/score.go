package models

import (
	"time"
)

// Score is the immutable record of one finished game. Exactly one score
// exists per terminated game; the scores table enforces this with a unique
// constraint on the game ID.
type Score struct {
	ID         string    `db:"id"`
	UserID     int64     `db:"user_id"`
	UserName   string    `db:"-"` // joined from users for outward views
	GameID     string    `db:"game_id"`
	Won        bool      `db:"won"`
	Misses     int       `db:"misses"` // allowed misses minus misses left at termination
	Difficulty int       `db:"difficulty"`
	Date       time.Time `db:"date"`
}
