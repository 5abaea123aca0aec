package models

import "time"

// Move is a single ply. Moves are append-only: the insertion order is
// the game history, and a stored move is never updated or deleted.
type Move struct {
	ID         int64     `json:"id"`
	GameID     string    `json:"game_id"`
	Ply        int       `json:"ply"`
	FromSquare string    `json:"from_square"`
	ToSquare   string    `json:"to_square"`
	Promotion  string    `json:"promotion,omitempty"`
	PlayerID   *int64    `json:"player_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// UCI renders the move in UCI notation, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	return m.FromSquare + m.ToSquare + m.Promotion
}
