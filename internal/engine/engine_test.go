package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessarena/server/internal/engine"
	apperrors "github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/models"
)

func mv(from, to string) models.Move {
	return models.Move{FromSquare: from, ToSquare: to}
}

func mvp(from, to, promo string) models.Move {
	return models.Move{FromSquare: from, ToSquare: to, Promotion: promo}
}

func applyAll(t *testing.T, moves ...models.Move) *engine.Position {
	t.Helper()
	pos, err := engine.Replay(moves)
	require.NoError(t, err)
	return pos
}

func TestInitialPosition(t *testing.T) {
	pos := engine.Initial()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", pos.Encode())
	assert.Equal(t, models.White, pos.Turn())
	assert.Equal(t, engine.StateNone, pos.Terminal().State)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	positions := []*engine.Position{
		engine.Initial(),
		applyAll(t, mv("e2", "e4")),
		applyAll(t, mv("e2", "e4"), mv("c7", "c5"), mv("g1", "f3")),
		applyAll(t, mv("e2", "e4"), mv("e7", "e5"), mv("g1", "f3"), mv("b8", "c6"), mv("f1", "b5")),
	}
	for _, pos := range positions {
		decoded, err := engine.Decode(pos.Encode())
		require.NoError(t, err)
		assert.Equal(t, pos.Encode(), decoded.Encode())
		assert.Equal(t, pos.Turn(), decoded.Turn())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := engine.Decode("not a fen")
	assert.Error(t, err)
}

func TestApplyAlternatesTurn(t *testing.T) {
	pos := engine.Initial()
	next, err := pos.Apply(mv("e2", "e4"))
	require.NoError(t, err)
	assert.Equal(t, models.Black, next.Turn())
	// The receiver is unchanged.
	assert.Equal(t, models.White, pos.Turn())
}

func TestApplyIllegalMove(t *testing.T) {
	pos := engine.Initial()
	_, err := pos.Apply(mv("e2", "e5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NewIllegalMoveError("e2e5"))
}

func TestApplyPromotion(t *testing.T) {
	// 1.a4 b5 2.axb5 a6 3.bxa6 Bb7 4.axb7 c6 leaves a white pawn on b7
	// ready to capture the a8 rook.
	pos := applyAll(t,
		mv("a2", "a4"), mv("b7", "b5"),
		mv("a4", "b5"), mv("a7", "a6"),
		mv("b5", "a6"), mv("c8", "b7"),
		mv("a6", "b7"), mv("c7", "c6"),
	)

	_, err := pos.Apply(mv("b7", "a8"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NewPromotionRequiredError("b7a8"))

	next, err := pos.Apply(mvp("b7", "a8", "q"))
	require.NoError(t, err)
	assert.Contains(t, next.Encode(), "Q")
}

func TestApplyPromotionStraightPush(t *testing.T) {
	pos, err := engine.Decode("k7/4P3/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)

	_, err = pos.Apply(mv("e7", "e8"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NewPromotionRequiredError("e7e8"))

	next, err := pos.Apply(mvp("e7", "e8", "q"))
	require.NoError(t, err)
	assert.Contains(t, next.Encode(), "Q")
}

func TestFoolsMate(t *testing.T) {
	pos := applyAll(t,
		mv("f2", "f3"), mv("e7", "e5"),
		mv("g2", "g4"), mv("d8", "h4"),
	)
	status := pos.Terminal()
	assert.Equal(t, engine.StateCheckmate, status.State)
	assert.Equal(t, models.Black, status.Winner)
}

func TestThreefoldRepetition(t *testing.T) {
	shuffle := []models.Move{
		mv("b1", "c3"), mv("b8", "a6"),
		mv("c3", "b1"), mv("a6", "b8"),
	}
	var moves []models.Move
	moves = append(moves, shuffle...)
	moves = append(moves, shuffle...)

	pos := applyAll(t, moves...)
	assert.True(t, pos.CanClaimThreefold())
	assert.Equal(t, engine.StateThreefoldRepetition, pos.Terminal().State)

	// One shuffle short of repetition.
	pos = applyAll(t, shuffle...)
	assert.False(t, pos.CanClaimThreefold())
	assert.Equal(t, engine.StateNone, pos.Terminal().State)
}

func TestStalemate(t *testing.T) {
	// Loyd's ten-move stalemate.
	pos := applyAll(t,
		mv("e2", "e3"), mv("a7", "a5"),
		mv("d1", "h5"), mv("a8", "a6"),
		mv("h5", "a5"), mv("h7", "h5"),
		mv("a5", "c7"), mv("a6", "h6"),
		mv("h2", "h4"), mv("f7", "f6"),
		mv("c7", "d7"), mv("e8", "f7"),
		mv("d7", "b7"), mv("d8", "d3"),
		mv("b7", "b8"), mv("d3", "h7"),
		mv("b8", "c8"), mv("f7", "g6"),
		mv("c8", "e6"),
	)
	assert.Equal(t, engine.StateStalemate, pos.Terminal().State)
}

func TestReplayDeterminism(t *testing.T) {
	moves := []models.Move{
		mv("e2", "e4"), mv("e7", "e5"),
		mv("g1", "f3"), mv("b8", "c6"),
		mv("f1", "c4"), mv("g8", "f6"),
	}

	stepwise := engine.Initial()
	for _, m := range moves {
		next, err := stepwise.Apply(m)
		require.NoError(t, err)
		stepwise = next
	}

	replayed, err := engine.Replay(moves)
	require.NoError(t, err)
	assert.Equal(t, stepwise.Encode(), replayed.Encode())
	assert.Equal(t, []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6"}, replayed.UCIHistory())
}

func TestReplayRejectsCorruptLedger(t *testing.T) {
	_, err := engine.Replay([]models.Move{
		mv("e2", "e4"),
		mv("e4", "e5"), // black cannot move white's pawn
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ply 2")
}

func TestBoardFENFlipped(t *testing.T) {
	pos := engine.Initial()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", pos.BoardFEN())
	assert.Equal(t, "RNBKQBNR/PPPPPPPP/8/8/8/8/pppppppp/rnbkqbnr", pos.BoardFENFlipped())

	// A single asymmetric move keeps the flip an involution.
	next, err := pos.Apply(mv("e2", "e4"))
	require.NoError(t, err)
	twice, err := engine.Decode(next.Encode())
	require.NoError(t, err)
	assert.Equal(t, next.BoardFEN(), twice.BoardFEN())
}

func TestPGNExport(t *testing.T) {
	pos := applyAll(t, mv("e2", "e4"), mv("e7", "e5"))
	pgn := pos.PGN()
	assert.Contains(t, pgn, "1. e4 e5")
}
