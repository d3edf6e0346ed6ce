package models

import (
	"time"
)

// User represents a registered player with cumulative game counters
type User struct {
	ID                 int64     `db:"id"`
	Name               string    `db:"name"`
	Email              string    `db:"email"` // optional contact address, empty when none
	Wins               int64     `db:"wins"`
	TotalGames         int64     `db:"total_games"`
	Misses             int64     `db:"misses"`
	WonGamesDifficulty int64     `db:"won_games_difficulty"`
	WinRatio           *float64  `db:"win_ratio"`          // nil until TotalGames >= 1
	AvgMisses          *float64  `db:"avg_misses"`         // nil until TotalGames >= 1
	AvgWonDifficulty   *float64  `db:"avg_won_difficulty"` // nil until Wins >= 1
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// ApplyResult folds one finished game into the counters and recomputes the
// derived aggregates. Must run with the user row locked so concurrent
// terminations do not lose updates.
func (u *User) ApplyResult(won bool, misses int, difficulty int) {
	u.TotalGames++
	u.Misses += int64(misses)
	if won {
		u.Wins++
		u.WonGamesDifficulty += int64(difficulty)
	}

	winRatio := float64(u.Wins) / float64(u.TotalGames)
	u.WinRatio = &winRatio

	avgMisses := float64(u.Misses) / float64(u.TotalGames)
	u.AvgMisses = &avgMisses

	if u.Wins > 0 {
		avgWonDifficulty := float64(u.WonGamesDifficulty) / float64(u.Wins)
		u.AvgWonDifficulty = &avgWonDifficulty
	}
}

// Ranked reports whether the user qualifies for the rankings list.
// Only users that have completed at least one game are ranked.
func (u *User) Ranked() bool {
	return u.TotalGames >= 1 && u.WinRatio != nil
}
