package models

import "time"

// Broadcast types control which video rooms get provisioned for a game.
const (
	BroadcastNone  = "none"
	BroadcastCam   = "cam"
	BroadcastBoard = "board"
	BroadcastBoth  = "both"
)

// PerColor holds one value per side, indexed by Color.
type PerColor[T any] [2]T

// Game is the aggregate root for a single chess game. The board position
// is never stored piece by piece; it is derived by replaying the move
// ledger and projected as a FEN string in snapshots.
type Game struct {
	ID            string     `json:"id"`
	WhitePlayerID *int64     `json:"white_player_id"`
	BlackPlayerID *int64     `json:"black_player_id"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	Result        Result     `json:"result"`

	CanClaimDraw PerColor[bool]   `json:"-"`
	CamRooms     PerColor[string] `json:"-"`
	BoardRooms   PerColor[string] `json:"-"`

	BroadcastType string `json:"broadcast_type"`
	TimeControlID int64  `json:"time_control_id"`
}

// PlayerID returns the player seated as the given color, or nil when
// the seat is empty.
func (g *Game) PlayerID(c Color) *int64 {
	if c == White {
		return g.WhitePlayerID
	}
	return g.BlackPlayerID
}

// SetPlayerID seats a player as the given color.
func (g *Game) SetPlayerID(c Color, id int64) {
	if c == White {
		g.WhitePlayerID = &id
	} else {
		g.BlackPlayerID = &id
	}
}

// ColorOf returns the color the given user is seated as. When the same
// user occupies both seats, White is reported first.
func (g *Game) ColorOf(userID int64) (Color, bool) {
	if g.WhitePlayerID != nil && *g.WhitePlayerID == userID {
		return White, true
	}
	if g.BlackPlayerID != nil && *g.BlackPlayerID == userID {
		return Black, true
	}
	return White, false
}

// Full reports whether both seats are taken.
func (g *Game) Full() bool {
	return g.WhitePlayerID != nil && g.BlackPlayerID != nil
}

// LocalMode reports whether one user occupies both seats.
func (g *Game) LocalMode() bool {
	return g.Full() && *g.WhitePlayerID == *g.BlackPlayerID
}

// SnapshotSeat is the per-player view embedded in a snapshot.
type SnapshotSeat struct {
	Player       *Player `json:"player"`
	CanClaimDraw bool    `json:"can_claim_draw"`
	CamRoom      string  `json:"cam_room,omitempty"`
	BoardRoom    string  `json:"board_room,omitempty"`
	RemainingSec int     `json:"remaining_seconds"`
}

// Snapshot is the serialized game view published to subscribers after
// every mutation. It is self-contained: a client needs nothing else to
// render the game.
type Snapshot struct {
	ID              string       `json:"id"`
	FEN             string       `json:"fen"`
	BoardFEN        string       `json:"board_fen"`
	BoardFENFlipped string       `json:"board_fen_flipped"`
	White           SnapshotSeat `json:"white"`
	Black           SnapshotSeat `json:"black"`
	Result          Result       `json:"result"`
	Moves           []string     `json:"moves"`
	PGN             string       `json:"pgn"`
	BroadcastType   string       `json:"broadcast_type"`
	CreatedAt       time.Time    `json:"created_at"`
	StartedAt       *time.Time   `json:"started_at"`
	FinishedAt      *time.Time   `json:"finished_at"`
}
