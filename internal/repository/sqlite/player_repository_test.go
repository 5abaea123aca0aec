package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
	"github.com/chessarena/server/internal/repository/sqlite"
	"github.com/chessarena/server/internal/testutil"
)

type PlayerRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PlayerRepository
}

func (s *PlayerRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPlayerRepository(s.db)
}

func (s *PlayerRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PlayerRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	alice, err := s.repo.Insert(ctx, "alice")
	s.Require().NoError(err)
	s.Assert().Greater(alice.ID, int64(0))
	s.Assert().Equal("alice", alice.Username)
	s.Assert().Equal(models.DefaultRating, alice.Rating)
	s.Assert().Equal(models.DefaultRating, alice.PreviousRating)
	s.Assert().Zero(alice.Wins)

	got, err := s.repo.GetByUsername(ctx, "alice")
	s.Require().NoError(err)
	s.Assert().Equal(alice.ID, got.ID)
}

func (s *PlayerRepositorySuite) TestInsert_DuplicateUsername() {
	ctx := context.Background()

	_, err := s.repo.Insert(ctx, "alice")
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, "alice")
	s.Assert().Error(err)
}

func (s *PlayerRepositorySuite) TestGetByUsername_NotFound() {
	_, err := s.repo.GetByUsername(context.Background(), "nobody")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *PlayerRepositorySuite) TestUpdateRatings() {
	ctx := context.Background()

	alice, err := s.repo.Insert(ctx, "alice")
	s.Require().NoError(err)
	bob, err := s.repo.Insert(ctx, "bob")
	s.Require().NoError(err)

	alice.PreviousRating = alice.Rating
	alice.Rating = 1216
	alice.Wins = 1
	bob.PreviousRating = bob.Rating
	bob.Rating = 1184
	bob.Losses = 1

	s.Require().NoError(s.repo.UpdateRatings(ctx, *alice, *bob))

	got, err := s.repo.Get(ctx, alice.ID)
	s.Require().NoError(err)
	s.Assert().Equal(1216, got.Rating)
	s.Assert().Equal(models.DefaultRating, got.PreviousRating)
	s.Assert().Equal(1, got.Wins)

	got, err = s.repo.Get(ctx, bob.ID)
	s.Require().NoError(err)
	s.Assert().Equal(1184, got.Rating)
	s.Assert().Equal(1, got.Losses)
}

func (s *PlayerRepositorySuite) TestList_OrderedByRating() {
	ctx := context.Background()

	alice, err := s.repo.Insert(ctx, "alice")
	s.Require().NoError(err)
	bob, err := s.repo.Insert(ctx, "bob")
	s.Require().NoError(err)

	bob.Rating = 1500
	s.Require().NoError(s.repo.UpdateRatings(ctx, *bob, *alice))

	players, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Assert().Equal("bob", players[0].Username)
	s.Assert().Equal("alice", players[1].Username)
}

func TestPlayerRepositorySuite(t *testing.T) {
	suite.Run(t, new(PlayerRepositorySuite))
}
