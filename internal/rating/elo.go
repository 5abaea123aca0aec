// Package rating implements post-game Elo adjustment.
// https://en.wikipedia.org/wiki/Elo_rating_system#Mathematical_details
package rating

import "math"

// DefaultKFactor is the K used when none is configured.
const DefaultKFactor = 32

// Score values per result.
const (
	ScoreLoss = 0.0
	ScoreDraw = 0.5
	ScoreWin  = 1.0
)

// ExpectedScore is the logistic win expectancy of a player against an
// opponent, rounded to two decimal places. A player rated 100 points
// below their opponent expects 0.36.
func ExpectedScore(playerRating, opponentRating int) float64 {
	expected := 1 / (1 + math.Pow(10, float64(opponentRating-playerRating)/400))
	return math.Round(expected*100) / 100
}

// NewRating computes the post-game rating from the actual score and the
// win expectancy.
func NewRating(k int, score float64, playerRating, opponentRating int) int {
	expected := ExpectedScore(playerRating, opponentRating)
	return int(math.Round(float64(playerRating) + float64(k)*(score-expected)))
}
