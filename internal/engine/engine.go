package engine

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"

	apperrors "github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/models"
)

// Position is the authoritative chess state for one game: the board,
// side to move, castling rights, en-passant square and the full move
// history required for repetition detection. It is always reconstructed
// by replaying the move ledger; it is never persisted piece by piece.
type Position struct {
	game     *chess.Game
	startFEN string
	ucis     []string
}

// Initial returns the standard starting position.
func Initial() *Position {
	return &Position{game: chess.NewGame()}
}

// Decode builds a Position from a FEN string. The result carries no
// move history, so repetition detection is not available on it.
func Decode(fen string) (*Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, apperrors.NewValidationError("fen", err.Error())
	}
	return &Position{game: chess.NewGame(opt), startFEN: fen}, nil
}

// Encode renders the position as a FEN string, the inverse of Decode.
func (p *Position) Encode() string {
	return p.game.FEN()
}

// BoardFEN is the piece-placement field of the FEN string.
func (p *Position) BoardFEN() string {
	fen := p.Encode()
	if i := strings.IndexByte(fen, ' '); i > 0 {
		return fen[:i]
	}
	return fen
}

// BoardFENFlipped is the piece placement as seen from the black side,
// the board rotated a half turn. Clients rendering for black consume
// this directly instead of transforming the board themselves.
func (p *Position) BoardFENFlipped() string {
	return flipBoardFEN(p.BoardFEN())
}

// Turn returns the side to move. This is derived state; it is never
// stored independently of the position.
func (p *Position) Turn() models.Color {
	if p.game.Position().Turn() == chess.Black {
		return models.Black
	}
	return models.White
}

// UCIHistory returns the move history in UCI form, in ply order.
func (p *Position) UCIHistory() []string {
	return append([]string(nil), p.ucis...)
}

// PGN exports the game in PGN movetext form.
func (p *Position) PGN() string {
	return p.game.String()
}

func (p *Position) clone() (*Position, error) {
	var g *chess.Game
	if p.startFEN != "" {
		opt, err := chess.FEN(p.startFEN)
		if err != nil {
			return nil, err
		}
		g = chess.NewGame(opt)
	} else {
		g = chess.NewGame()
	}
	for _, u := range p.ucis {
		if err := g.PushNotationMove(u, chess.UCINotation{}, nil); err != nil {
			return nil, err
		}
	}
	return &Position{game: g, startFEN: p.startFEN, ucis: append([]string(nil), p.ucis...)}, nil
}

// Apply validates the move against the legal move set for the side to
// move and returns the successor position. The receiver is unchanged.
// A pawn move to the last rank must name a promotion piece.
func (p *Position) Apply(mv models.Move) (*Position, error) {
	uci := strings.ToLower(mv.UCI())

	if mv.Promotion == "" && p.promotionRequired(mv) {
		return nil, apperrors.NewPromotionRequiredError(uci)
	}

	next, err := p.clone()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := next.game.PushNotationMove(uci, chess.UCINotation{}, nil); err != nil {
		return nil, apperrors.NewIllegalMoveError(uci)
	}
	next.ucis = append(next.ucis, uci)
	return next, nil
}

// promotionRequired reports whether the move is a legal pawn push or
// capture onto the last rank that is only missing its promotion piece.
func (p *Position) promotionRequired(mv models.Move) bool {
	from, ok := parseSquare(mv.FromSquare)
	if !ok {
		return false
	}
	to, ok := parseSquare(mv.ToSquare)
	if !ok {
		return false
	}
	piece := p.game.Position().Board().Piece(from)
	if piece.Type() != chess.Pawn {
		return false
	}
	rank := int(to) / 8
	if !(rank == 7 && piece.Color() == chess.White) && !(rank == 0 && piece.Color() == chess.Black) {
		return false
	}
	// Only report PromotionRequired when promoting to a queen would be
	// legal; otherwise the move is plainly illegal.
	probe, err := p.clone()
	if err != nil {
		return false
	}
	return probe.game.PushNotationMove(strings.ToLower(mv.FromSquare+mv.ToSquare)+"q", chess.UCINotation{}, nil) == nil
}

// Replay folds Apply over the ledger from the starting position. Any
// stored move that no longer applies means the ledger is corrupt; the
// error names the offending ply.
func Replay(moves []models.Move) (*Position, error) {
	pos := Initial()
	for i, mv := range moves {
		next, err := pos.Apply(mv)
		if err != nil {
			return nil, fmt.Errorf("replay failed at ply %d (%s): %w", i+1, mv.UCI(), err)
		}
		pos = next
	}
	return pos, nil
}

func parseSquare(s string) (chess.Square, bool) {
	if len(s) != 2 {
		return 0, false
	}
	file := s[0] - 'a'
	rank := s[1] - '1'
	if file > 7 || rank > 7 {
		return 0, false
	}
	return chess.Square(int(rank)*8 + int(file)), true
}

// flipBoardFEN rotates a piece-placement string a half turn: ranks are
// reversed and each rank is mirrored.
func flipBoardFEN(boardFEN string) string {
	ranks := strings.Split(boardFEN, "/")
	out := make([]string, 0, len(ranks))
	for i := len(ranks) - 1; i >= 0; i-- {
		out = append(out, reverseRank(ranks[i]))
	}
	return strings.Join(out, "/")
}

func reverseRank(rank string) string {
	runes := []rune(rank)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
