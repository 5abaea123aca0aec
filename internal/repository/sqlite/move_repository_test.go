package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
	"github.com/chessarena/server/internal/repository/sqlite"
	"github.com/chessarena/server/internal/testutil"
)

type MoveRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	repo   repository.MoveRepository
	gameID string
}

func (s *MoveRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewMoveRepository(s.db)

	s.gameID = uuid.NewString()
	games := sqlite.NewGameRepository(s.db)
	err := games.Insert(context.Background(), models.Game{
		ID:            s.gameID,
		CreatedAt:     time.Now(),
		Result:        models.Result{Result: models.Scheduled, Termination: models.Unterminated},
		CanClaimDraw:  models.PerColor[bool]{true, true},
		BroadcastType: models.BroadcastNone,
		TimeControlID: 1,
	})
	s.Require().NoError(err)
}

func (s *MoveRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *MoveRepositorySuite) move(ply int, from, to string) models.Move {
	return models.Move{
		GameID:     s.gameID,
		Ply:        ply,
		FromSquare: from,
		ToSquare:   to,
		CreatedAt:  time.Now(),
	}
}

func (s *MoveRepositorySuite) TestAppendAndList() {
	ctx := context.Background()

	id, err := s.repo.Append(ctx, s.move(1, "e2", "e4"))
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	_, err = s.repo.Append(ctx, s.move(2, "e7", "e5"))
	s.Require().NoError(err)

	moves, err := s.repo.ListForGame(ctx, s.gameID)
	s.Require().NoError(err)
	s.Require().Len(moves, 2)
	s.Assert().Equal("e2e4", moves[0].UCI())
	s.Assert().Equal("e7e5", moves[1].UCI())
	s.Assert().Equal(1, moves[0].Ply)
	s.Assert().Equal(2, moves[1].Ply)

	count, err := s.repo.CountForGame(ctx, s.gameID)
	s.Require().NoError(err)
	s.Assert().Equal(2, count)
}

func (s *MoveRepositorySuite) TestAppend_OutOfOrder() {
	ctx := context.Background()

	// Skipping a ply is rejected.
	_, err := s.repo.Append(ctx, s.move(2, "e7", "e5"))
	s.Assert().ErrorIs(err, errors.NewOutOfOrderError(s.gameID, 2))

	_, err = s.repo.Append(ctx, s.move(1, "e2", "e4"))
	s.Require().NoError(err)

	// Replaying an already-written ply is rejected too.
	_, err = s.repo.Append(ctx, s.move(1, "d2", "d4"))
	s.Assert().ErrorIs(err, errors.NewOutOfOrderError(s.gameID, 1))

	count, err := s.repo.CountForGame(ctx, s.gameID)
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
}

func (s *MoveRepositorySuite) TestAppend_Promotion() {
	ctx := context.Background()

	mv := s.move(1, "b7", "a8")
	mv.Promotion = "q"
	_, err := s.repo.Append(ctx, mv)
	s.Require().NoError(err)

	moves, err := s.repo.ListForGame(ctx, s.gameID)
	s.Require().NoError(err)
	s.Require().Len(moves, 1)
	s.Assert().Equal("b7a8q", moves[0].UCI())
}

func (s *MoveRepositorySuite) TestListForGame_Empty() {
	moves, err := s.repo.ListForGame(context.Background(), s.gameID)
	s.Require().NoError(err)
	s.Assert().Empty(moves)
}

func TestMoveRepositorySuite(t *testing.T) {
	suite.Run(t, new(MoveRepositorySuite))
}
