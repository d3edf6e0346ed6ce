package models

// Outward-facing serializable views of the domain records. These are what
// the HTTP layer renders; internal fields such as the secret word never
// leave the service boundary.

// GameView is the outbound representation of a game plus a result message
type GameView struct {
	Key           string   `json:"key"`
	UserName      string   `json:"user_name"`
	MissesLeft    int      `json:"misses_left"`
	MissedLetters []string `json:"missed_letters"`
	RevealedWord  string   `json:"revealed_word"`
	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message"`
}

// ScoreView is the outbound representation of a score
type ScoreView struct {
	UserName   string `json:"user_name"`
	Date       string `json:"date"`
	Won        bool   `json:"won"`
	Misses     int    `json:"misses"`
	Difficulty int    `json:"difficulty"`
}

// RankingView is one row of the user rankings list
type RankingView struct {
	UserName         string   `json:"user_name"`
	WinRatio         float64  `json:"win_ratio"`
	Wins             int64    `json:"wins"`
	TotalGames       int64    `json:"total_games"`
	AvgWonDifficulty *float64 `json:"avg_won_difficulty,omitempty"`
	AvgMisses        float64  `json:"avg_misses"`
}

// TurnView is one entry of a game's turn history
type TurnView struct {
	Guess        string `json:"guess"`
	Result       string `json:"result"`
	RevealedWord string `json:"revealed_word"`
}

// ToView renders the game with a caller-supplied message
func (g *Game) ToView(message string) *GameView {
	letters := g.MissedLetters
	if letters == nil {
		letters = []string{}
	}
	return &GameView{
		Key:           g.ID,
		UserName:      g.UserName,
		MissesLeft:    g.MissesLeft,
		MissedLetters: letters,
		RevealedWord:  g.RevealedWord,
		GameOver:      g.GameOver,
		Message:       message,
	}
}

// ToView renders the score for outbound listings
func (s *Score) ToView() *ScoreView {
	return &ScoreView{
		UserName:   s.UserName,
		Date:       s.Date.Format("2006-01-02"),
		Won:        s.Won,
		Misses:     s.Misses,
		Difficulty: s.Difficulty,
	}
}

// ToRankingView renders the user's ranking row. Callers must only rank
// users for which the derived aggregates are defined.
func (u *User) ToRankingView() *RankingView {
	view := &RankingView{
		UserName:         u.Name,
		Wins:             u.Wins,
		TotalGames:       u.TotalGames,
		AvgWonDifficulty: u.AvgWonDifficulty,
	}
	if u.WinRatio != nil {
		view.WinRatio = *u.WinRatio
	}
	if u.AvgMisses != nil {
		view.AvgMisses = *u.AvgMisses
	}
	return view
}

// ToView renders one turn history entry
func (t *TurnRecord) ToView() *TurnView {
	return &TurnView{
		Guess:        t.Guess,
		Result:       t.Result,
		RevealedWord: t.RevealedWord,
	}
}
