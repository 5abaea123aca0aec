// Package clock derives remaining thinking time from the move ledger
// and a time-control configuration. It is stateless: times are
// recomputed from the ledger on every read, so there is no stored
// clock value to drift out of sync with the derived one.
package clock

import (
	"time"

	"github.com/chessarena/server/internal/models"
)

// Remaining computes the remaining seconds for one color.
//
// The delta for ply n is the wall time between move n-1 and move n,
// with the game start time standing in for "move 0". By convention the
// mover of ply n pays for that delta, so odd plies charge White and
// even plies charge Black; the time between game start and the first
// move is White's. Per-move increment is credited for each ply the
// color has played. An unset base time means the game is untimed and
// the remaining time is reported as zero.
func Remaining(tc models.TimeControl, c models.Color, startedAt *time.Time, moves []models.Move) int {
	if tc.BaseSeconds == nil {
		return 0
	}
	remaining := *tc.BaseSeconds

	remaining -= spentSeconds(c, startedAt, moves)

	if tc.IncrementSeconds != nil {
		remaining += movesBy(c, moves) * *tc.IncrementSeconds
	}
	return remaining
}

// Both computes remaining seconds for the two colors in one pass over
// the ledger.
func Both(tc models.TimeControl, startedAt *time.Time, moves []models.Move) (white, black int) {
	return Remaining(tc, models.White, startedAt, moves),
		Remaining(tc, models.Black, startedAt, moves)
}

func spentSeconds(c models.Color, startedAt *time.Time, moves []models.Move) int {
	if startedAt == nil || len(moves) == 0 {
		return 0
	}
	spent := 0
	prev := *startedAt
	for i, mv := range moves {
		ply := i + 1
		delta := int(mv.CreatedAt.Sub(prev).Seconds())
		if moverOf(ply) == c {
			spent += delta
		}
		prev = mv.CreatedAt
	}
	return spent
}

func movesBy(c models.Color, moves []models.Move) int {
	count := 0
	for i := range moves {
		if moverOf(i+1) == c {
			count++
		}
	}
	return count
}

// moverOf maps a 1-based ply to the color that played it.
func moverOf(ply int) models.Color {
	if ply%2 == 1 {
		return models.White
	}
	return models.Black
}
