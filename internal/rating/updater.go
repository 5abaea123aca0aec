package rating

import (
	"context"

	"github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

// Updater applies the post-game Elo adjustment to both participants.
type Updater struct {
	players repository.PlayerRepository
	k       int
}

// NewUpdater creates an Updater. A non-positive k falls back to
// DefaultKFactor.
func NewUpdater(players repository.PlayerRepository, k int) *Updater {
	if k <= 0 {
		k = DefaultKFactor
	}
	return &Updater{players: players, k: k}
}

// Update mutates both players' rating records for a finished game. Both
// expected scores are evaluated against the pre-update ratings before
// either write, so the outcome does not depend on update order, and
// both records are persisted in one transaction. A game where one user
// holds both seats leaves ratings untouched.
func (u *Updater) Update(ctx context.Context, game *models.Game) error {
	log := logger.FromContext(ctx).WithPrefix("rating")

	if !game.Result.Finished() {
		return errors.NewValidationError("result", "game is not finished")
	}
	if !game.Full() {
		return errors.NewValidationError("players", "both seats must be occupied")
	}
	if game.LocalMode() {
		log.Debug("local game %s, skipping rating update", game.ID)
		return nil
	}

	white, err := u.players.Get(ctx, *game.WhitePlayerID)
	if err != nil {
		return err
	}
	black, err := u.players.Get(ctx, *game.BlackPlayerID)
	if err != nil {
		return err
	}

	whiteScore, blackScore := scores(game.Result.Result)

	switch game.Result.Result {
	case models.Draw:
		white.Draws++
		black.Draws++
	case models.WhiteWins:
		white.Wins++
		black.Losses++
	case models.BlackWins:
		black.Wins++
		white.Losses++
	}

	// Both new ratings come from the pre-update snapshot.
	whiteBefore, blackBefore := white.Rating, black.Rating
	white.PreviousRating = whiteBefore
	black.PreviousRating = blackBefore
	white.Rating = NewRating(u.k, whiteScore, whiteBefore, blackBefore)
	black.Rating = NewRating(u.k, blackScore, blackBefore, whiteBefore)

	if err := u.players.UpdateRatings(ctx, *white, *black); err != nil {
		log.Error("failed to persist ratings for game %s: %v", game.ID, err)
		return err
	}

	log.Info("ratings updated for game %s: white %d->%d, black %d->%d",
		game.ID, whiteBefore, white.Rating, blackBefore, black.Rating)
	return nil
}

func scores(result string) (white, black float64) {
	switch result {
	case models.WhiteWins:
		return ScoreWin, ScoreLoss
	case models.BlackWins:
		return ScoreLoss, ScoreWin
	default:
		return ScoreDraw, ScoreDraw
	}
}
