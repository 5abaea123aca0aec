package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chessarena/server/internal/clock"
	"github.com/chessarena/server/internal/models"
)

func intPtr(v int) *int { return &v }

func timed(base, inc int) models.TimeControl {
	tc := models.TimeControl{Name: "test", BaseSeconds: intPtr(base)}
	if inc > 0 {
		tc.IncrementSeconds = intPtr(inc)
	}
	return tc
}

// movesAt builds a ledger with moves at the given second offsets from start.
func movesAt(start time.Time, offsets ...int) []models.Move {
	moves := make([]models.Move, len(offsets))
	for i, off := range offsets {
		moves[i] = models.Move{Ply: i + 1, CreatedAt: start.Add(time.Duration(off) * time.Second)}
	}
	return moves
}

func TestRemainingNoMoves(t *testing.T) {
	tc := timed(300, 0)
	white, black := clock.Both(tc, nil, nil)
	assert.Equal(t, 300, white)
	assert.Equal(t, 300, black)
}

func TestRemainingUntimed(t *testing.T) {
	tc := models.TimeControl{Name: "correspondence"}
	start := time.Now()
	moves := movesAt(start, 10, 25)
	white, black := clock.Both(tc, &start, moves)
	assert.Equal(t, 0, white)
	assert.Equal(t, 0, black)
}

func TestRemainingAttributesDeltasByParity(t *testing.T) {
	tc := timed(300, 0)
	start := time.Unix(1000, 0)

	// White thinks 10s before ply 1, black 20s before ply 2,
	// white 5s before ply 3.
	moves := movesAt(start, 10, 30, 35)

	white, black := clock.Both(tc, &start, moves)
	assert.Equal(t, 300-10-5, white)
	assert.Equal(t, 300-20, black)
}

func TestRemainingWithIncrement(t *testing.T) {
	tc := timed(180, 2)
	start := time.Unix(1000, 0)
	moves := movesAt(start, 10, 30, 35)

	white, black := clock.Both(tc, &start, moves)
	// White played two plies, black one.
	assert.Equal(t, 180-15+2*2, white)
	assert.Equal(t, 180-20+2, black)
}

func TestRemainingFirstDeltaChargedToWhite(t *testing.T) {
	tc := timed(60, 0)
	start := time.Unix(1000, 0)
	moves := movesAt(start, 45)

	white, black := clock.Both(tc, &start, moves)
	assert.Equal(t, 15, white)
	assert.Equal(t, 60, black)
}

func TestRemainingCanGoNegative(t *testing.T) {
	tc := timed(30, 0)
	start := time.Unix(1000, 0)
	moves := movesAt(start, 50)

	white := clock.Remaining(tc, models.White, &start, moves)
	assert.Equal(t, -20, white)
}
