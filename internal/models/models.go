package models

import "time"

// Color identifies a side of the board.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Other returns the opposite color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// ParseColor converts "white"/"black" into a Color.
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white":
		return White, true
	case "black":
		return Black, true
	}
	return White, false
}

// Result values follow the PGN result vocabulary, plus the two
// pre-terminal states a live game moves through.
const (
	WhiteWins  = "White wins"
	BlackWins  = "Black wins"
	Draw       = "Draw"
	InProgress = "In progress"
	Scheduled  = "Scheduled"
)

// Termination reasons, per the PGN spec (c9.8.1).
const (
	Abandoned       = "Abandoned"
	Adjudication    = "Adjudication"
	Normal          = "Normal"
	RulesInfraction = "Rules infraction"
	TimeForfeit     = "Time forfeit"
	Capitulation    = "Capitulation"
	Unterminated    = "Unterminated"
)

// Result pairs the game outcome with the reason it terminated.
type Result struct {
	Result      string `json:"result"`
	Termination string `json:"termination"`
}

// Finished reports whether the result is terminal. Once terminal it
// never changes.
func (r Result) Finished() bool {
	switch r.Result {
	case WhiteWins, BlackWins, Draw:
		return true
	}
	return false
}

// WinnerFor returns the terminal result where the given color wins.
func WinnerFor(c Color) string {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Player is a seated participant with their rating record. The rating
// fields are mutated only by the rating updater, once per finished game.
type Player struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Rating         int       `json:"rating"`
	PreviousRating int       `json:"previous_rating"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	Draws          int       `json:"draws"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultRating is the rating assigned to new players.
const DefaultRating = 1200

// TimeControl is shared, read-only reference data. A nil BaseSeconds
// means the game is untimed.
type TimeControl struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	BaseSeconds      *int   `json:"base_seconds"`
	IncrementSeconds *int   `json:"increment_seconds"`
}
