package engine

import (
	"github.com/corentings/chess/v2"

	"github.com/chessarena/server/internal/models"
)

// State enumerates the ways a position can be terminal.
type State int

const (
	StateNone State = iota
	StateCheckmate
	StateStalemate
	StateInsufficientMaterial
	StateFiftyMoveRule
	StateThreefoldRepetition
)

func (s State) String() string {
	switch s {
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	case StateInsufficientMaterial:
		return "insufficient material"
	case StateFiftyMoveRule:
		return "fifty-move rule"
	case StateThreefoldRepetition:
		return "threefold repetition"
	}
	return "none"
}

// Status is the terminal evaluation of a position. Winner is only
// meaningful when State is StateCheckmate.
type Status struct {
	State  State
	Winner models.Color
}

// Terminal evaluates the position for game-over and draw conditions.
// Repetition is computed from the replayed move history, never from a
// single snapshot. Decisive and automatic-draw outcomes take precedence
// over claimable draws.
func (p *Position) Terminal() Status {
	switch p.game.Outcome() {
	case chess.WhiteWon:
		return Status{State: StateCheckmate, Winner: models.White}
	case chess.BlackWon:
		return Status{State: StateCheckmate, Winner: models.Black}
	case chess.Draw:
		switch p.game.Method() {
		case chess.Stalemate:
			return Status{State: StateStalemate}
		case chess.InsufficientMaterial:
			return Status{State: StateInsufficientMaterial}
		case chess.FivefoldRepetition:
			return Status{State: StateThreefoldRepetition}
		case chess.SeventyFiveMoveRule:
			return Status{State: StateFiftyMoveRule}
		}
		return Status{State: StateStalemate}
	}

	for _, m := range p.game.EligibleDraws() {
		switch m {
		case chess.ThreefoldRepetition:
			return Status{State: StateThreefoldRepetition}
		case chess.FiftyMoveRule:
			return Status{State: StateFiftyMoveRule}
		}
	}
	return Status{State: StateNone}
}

// CanClaimThreefold reports whether the current position has occurred
// three times over the game history.
func (p *Position) CanClaimThreefold() bool {
	for _, m := range p.game.EligibleDraws() {
		if m == chess.ThreefoldRepetition {
			return true
		}
	}
	return false
}
