package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chessarena/server/internal/broadcast"
	"github.com/chessarena/server/internal/clock"
	"github.com/chessarena/server/internal/engine"
	"github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/rating"
	"github.com/chessarena/server/internal/repository"
)

// GameService orchestrates a single game: turn ownership, the move
// ledger, draw negotiation, capitulation and start/finish transitions.
type GameService interface {
	CreateGame(ctx context.Context, timeControlID int64, broadcastType string) (*models.Game, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListGames(ctx context.Context, filter repository.GameFilter) ([]models.Game, error)
	Snapshot(ctx context.Context, id string) (*models.Snapshot, error)
	AssignColor(ctx context.Context, gameID string, playerID int64, preferred string) (models.Color, error)
	Move(ctx context.Context, gameID string, playerID int64, from, to, promotion string) (*models.Move, error)
	Capitulate(ctx context.Context, gameID string, playerID int64) error
	ClaimDraw(ctx context.Context, gameID string, playerID int64) (bool, error)
	AgreeDraw(ctx context.Context, gameID string, playerID int64) (bool, error)
	Repeat(ctx context.Context, gameID string) (*models.Game, error)
	PGN(ctx context.Context, gameID string) (string, error)
	RemainingTime(ctx context.Context, gameID string) (white, black int, err error)
}

type gameService struct {
	games        repository.GameRepository
	moves        repository.MoveRepository
	players      repository.PlayerRepository
	timeControls repository.TimeControlRepository
	rating       *rating.Updater
	publisher    broadcast.Publisher
	provisioner  broadcast.RoomProvisioner

	// One lock per live game serializes mutations: a losing concurrent
	// request gets a retryable conflict instead of interleaving.
	locks sync.Map

	now func() time.Time
}

// NewGameService creates a new GameService
func NewGameService(
	games repository.GameRepository,
	moves repository.MoveRepository,
	players repository.PlayerRepository,
	timeControls repository.TimeControlRepository,
	ratingUpdater *rating.Updater,
	publisher broadcast.Publisher,
	provisioner broadcast.RoomProvisioner,
) GameService {
	return &gameService{
		games:        games,
		moves:        moves,
		players:      players,
		timeControls: timeControls,
		rating:       ratingUpdater,
		publisher:    publisher,
		provisioner:  provisioner,
		now:          time.Now,
	}
}

func (s *gameService) lock(gameID string) (func(), error) {
	muAny, _ := s.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	if !mu.TryLock() {
		return nil, errors.NewConflictError(gameID)
	}
	return mu.Unlock, nil
}

func (s *gameService) CreateGame(ctx context.Context, timeControlID int64, broadcastType string) (*models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating game: time_control_id=%d, broadcast_type=%s", timeControlID, broadcastType)

	switch broadcastType {
	case models.BroadcastNone, models.BroadcastCam, models.BroadcastBoard, models.BroadcastBoth:
	case "":
		broadcastType = models.BroadcastNone
	default:
		return nil, errors.NewValidationError("broadcast_type", "unknown value "+broadcastType)
	}

	if _, err := s.timeControls.Get(ctx, timeControlID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("time control", timeControlID)
		}
		return nil, errors.NewInternalError(err)
	}

	game := models.Game{
		ID:            uuid.NewString(),
		CreatedAt:     s.now(),
		Result:        models.Result{Result: models.Scheduled, Termination: models.Unterminated},
		CanClaimDraw:  models.PerColor[bool]{true, true},
		BroadcastType: broadcastType,
		TimeControlID: timeControlID,
	}
	if err := s.games.Insert(ctx, game); err != nil {
		log.Error("failed to insert game: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.publish(ctx, &game, engine.Initial())
	log.Info("game %s created", game.ID)
	return &game, nil
}

func (s *gameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("game", id)
		}
		return nil, errors.NewInternalError(err)
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, filter repository.GameFilter) ([]models.Game, error) {
	games, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return games, nil
}

func (s *gameService) AssignColor(ctx context.Context, gameID string, playerID int64, preferred string) (models.Color, error) {
	log := logger.FromContext(ctx)
	log.Debug("assigning color in game %s: player_id=%d, preferred=%s", gameID, playerID, preferred)

	unlock, err := s.lock(gameID)
	if err != nil {
		return models.White, err
	}
	defer unlock()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return models.White, err
	}
	if game.Full() {
		return models.White, errors.NewGameFullError(gameID)
	}

	var color models.Color
	switch {
	case game.WhitePlayerID != nil:
		color = models.Black
	case game.BlackPlayerID != nil:
		color = models.White
	default:
		// Both seats empty: honor the preference, coin-flip on "random".
		switch preferred {
		case "black":
			color = models.Black
		case "white", "":
			color = models.White
		case "random":
			color = randomColor()
		default:
			return models.White, errors.NewValidationError("preferred_color", "must be white, black or random")
		}
	}

	if err := s.games.SetSeat(ctx, gameID, color, playerID); err != nil {
		return models.White, err
	}
	game.SetPlayerID(color, playerID)

	pos, _, err := s.replay(ctx, game)
	if err != nil {
		return models.White, err
	}
	s.publish(ctx, game, pos)

	// Room provisioning is best-effort: a gateway outage must not undo
	// the seat assignment.
	s.provisionRooms(ctx, game, color)

	log.Info("player %d seated as %s in game %s", playerID, color, gameID)
	return color, nil
}

func (s *gameService) Move(ctx context.Context, gameID string, playerID int64, from, to, promotion string) (*models.Move, error) {
	log := logger.FromContext(ctx)

	unlock, err := s.lock(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Result.Finished() {
		return nil, errors.NewGameFinishedError(gameID)
	}

	pos, history, err := s.replay(ctx, game)
	if err != nil {
		return nil, err
	}

	// A terminal ledger under a non-terminal result means an earlier
	// finalization failed partway; repair it before rejecting the call.
	if status := pos.Terminal(); status.State != engine.StateNone {
		if err := s.finish(ctx, game, resultFor(status)); err != nil {
			return nil, err
		}
		s.publish(ctx, game, pos)
		return nil, errors.NewGameFinishedError(gameID)
	}

	// Turn ownership: the mover must hold the seat of the side to move.
	// When one user holds both seats this accepts every move from them.
	turn := pos.Turn()
	seat := game.PlayerID(turn)
	if seat == nil || *seat != playerID {
		return nil, errors.NewNotYourTurnError()
	}

	move := models.Move{
		GameID:     gameID,
		Ply:        len(history) + 1,
		FromSquare: strings.ToLower(from),
		ToSquare:   strings.ToLower(to),
		Promotion:  strings.ToLower(promotion),
		PlayerID:   &playerID,
		CreatedAt:  s.now(),
	}

	next, err := pos.Apply(move)
	if err != nil {
		log.Debug("move %s rejected in game %s: %v", move.UCI(), gameID, err)
		return nil, err
	}

	id, err := s.moves.Append(ctx, move)
	if err != nil {
		log.Error("failed to append move for game %s: %v", gameID, err)
		return nil, err
	}
	move.ID = id

	if len(history) == 0 {
		if err := s.games.SetStarted(ctx, gameID, move.CreatedAt); err != nil {
			return nil, errors.NewInternalError(err)
		}
		game.StartedAt = &move.CreatedAt
		game.Result = models.Result{Result: models.InProgress, Termination: models.Unterminated}
	}

	// Termination checks run after every accepted move; repetition needs
	// the replayed history, not the final position alone.
	if status := next.Terminal(); status.State != engine.StateNone {
		if err := s.finish(ctx, game, resultFor(status)); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, game, next)
	return &move, nil
}

func (s *gameService) Capitulate(ctx context.Context, gameID string, playerID int64) error {
	log := logger.FromContext(ctx)

	unlock, err := s.lock(gameID)
	if err != nil {
		return err
	}
	defer unlock()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Result.Finished() {
		return errors.NewGameFinishedError(gameID)
	}

	color, seated := game.ColorOf(playerID)
	if !seated {
		return errors.NewNotAParticipantError()
	}

	result := models.Result{Result: models.WinnerFor(color.Other()), Termination: models.Capitulation}
	if err := s.finish(ctx, game, result); err != nil {
		return err
	}

	pos, _, err := s.replay(ctx, game)
	if err != nil {
		return err
	}
	s.publish(ctx, game, pos)

	log.Info("player %d capitulated game %s", playerID, gameID)
	return nil
}

// ClaimDraw signals that the acting player offers a draw. A successful
// claim only clears that color's claim flag; the game ends when the
// opponent agrees. Returns false when the flag was already used.
func (s *gameService) ClaimDraw(ctx context.Context, gameID string, playerID int64) (bool, error) {
	unlock, err := s.lock(gameID)
	if err != nil {
		return false, err
	}
	defer unlock()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	if game.Result.Finished() {
		return false, errors.NewGameFinishedError(gameID)
	}

	color, seated := game.ColorOf(playerID)
	if !seated {
		return false, errors.NewNotAParticipantError()
	}

	if !game.CanClaimDraw[color] {
		return false, nil
	}

	if err := s.games.SetClaimDraw(ctx, gameID, color, false); err != nil {
		return false, errors.NewInternalError(err)
	}
	game.CanClaimDraw[color] = false

	pos, _, err := s.replay(ctx, game)
	if err != nil {
		return false, err
	}
	s.publish(ctx, game, pos)
	return true, nil
}

// AgreeDraw accepts an offered draw. It succeeds only when the opposite
// color has already claimed (its claim flag is cleared); agreeing before
// any claim is a no-op returning false.
func (s *gameService) AgreeDraw(ctx context.Context, gameID string, playerID int64) (bool, error) {
	unlock, err := s.lock(gameID)
	if err != nil {
		return false, err
	}
	defer unlock()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	if game.Result.Finished() {
		return false, errors.NewGameFinishedError(gameID)
	}

	color, seated := game.ColorOf(playerID)
	if !seated {
		return false, errors.NewNotAParticipantError()
	}

	if game.CanClaimDraw[color.Other()] {
		return false, nil
	}

	result := models.Result{Result: models.Draw, Termination: models.Normal}
	if err := s.finish(ctx, game, result); err != nil {
		return false, err
	}

	pos, _, err := s.replay(ctx, game)
	if err != nil {
		return false, err
	}
	s.publish(ctx, game, pos)
	return true, nil
}

// Repeat creates a fresh scheduled game with the colors swapped and the
// same time control and broadcast configuration. History is not copied.
func (s *gameService) Repeat(ctx context.Context, gameID string) (*models.Game, error) {
	log := logger.FromContext(ctx)

	prev, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	next := models.Game{
		ID:            uuid.NewString(),
		WhitePlayerID: prev.BlackPlayerID,
		BlackPlayerID: prev.WhitePlayerID,
		CreatedAt:     s.now(),
		Result:        models.Result{Result: models.Scheduled, Termination: models.Unterminated},
		CanClaimDraw:  models.PerColor[bool]{true, true},
		BroadcastType: prev.BroadcastType,
		TimeControlID: prev.TimeControlID,
	}
	if err := s.games.Insert(ctx, next); err != nil {
		log.Error("failed to insert rematch for game %s: %v", gameID, err)
		return nil, errors.NewInternalError(err)
	}

	s.publish(ctx, &next, engine.Initial())
	log.Info("rematch %s created for game %s", next.ID, gameID)
	return &next, nil
}

func (s *gameService) PGN(ctx context.Context, gameID string) (string, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	pos, _, err := s.replay(ctx, game)
	if err != nil {
		return "", err
	}
	return pos.PGN(), nil
}

func (s *gameService) RemainingTime(ctx context.Context, gameID string) (int, int, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return 0, 0, err
	}
	tc, err := s.timeControls.Get(ctx, game.TimeControlID)
	if err != nil {
		return 0, 0, errors.NewInternalError(err)
	}
	history, err := s.moves.ListForGame(ctx, gameID)
	if err != nil {
		return 0, 0, errors.NewInternalError(err)
	}
	white, black := clock.Both(*tc, game.StartedAt, history)
	return white, black, nil
}

func (s *gameService) Snapshot(ctx context.Context, id string) (*models.Snapshot, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	pos, _, err := s.replay(ctx, game)
	if err != nil {
		return nil, err
	}
	snap, err := s.buildSnapshot(ctx, game, pos)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// replay reconstructs the position from the move ledger. A ledger that
// no longer replays is fatal for the game.
func (s *gameService) replay(ctx context.Context, game *models.Game) (*engine.Position, []models.Move, error) {
	history, err := s.moves.ListForGame(ctx, game.ID)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	pos, err := engine.Replay(history)
	if err != nil {
		logger.FromContext(ctx).Error("ledger for game %s is corrupt: %v", game.ID, err)
		return nil, nil, errors.NewCorruptLedgerError(game.ID, err)
	}
	return pos, history, nil
}

// finish writes the terminal result and runs the rating update. The
// repository rejects a second finish, so a terminal result is immutable.
func (s *gameService) finish(ctx context.Context, game *models.Game, result models.Result) error {
	log := logger.FromContext(ctx)

	finishedAt := s.now()
	if err := s.games.Finish(ctx, game.ID, result, finishedAt); err != nil {
		return err
	}
	game.Result = result
	game.FinishedAt = &finishedAt

	if game.Full() {
		if err := s.rating.Update(ctx, game); err != nil {
			// The game is already finished; a rating failure is an
			// operator problem, not a reason to unwind the result.
			log.Error("rating update failed for game %s: %v", game.ID, err)
		}
	}

	log.Info("game %s finished: %s (%s)", game.ID, result.Result, result.Termination)
	return nil
}

func resultFor(status engine.Status) models.Result {
	switch status.State {
	case engine.StateCheckmate:
		return models.Result{Result: models.WinnerFor(status.Winner), Termination: models.Normal}
	default:
		return models.Result{Result: models.Draw, Termination: models.Normal}
	}
}

// publish assembles and hands off a snapshot. Failures are logged and
// swallowed: the authoritative state change already happened.
func (s *gameService) publish(ctx context.Context, game *models.Game, pos *engine.Position) {
	log := logger.FromContext(ctx)

	snap, err := s.buildSnapshot(ctx, game, pos)
	if err != nil {
		log.Warn("failed to build snapshot for game %s: %v", game.ID, err)
		return
	}
	if err := s.publisher.Publish(ctx, game.ID, *snap); err != nil {
		log.Warn("failed to publish snapshot for game %s: %v", game.ID, err)
	}
}

func (s *gameService) buildSnapshot(ctx context.Context, game *models.Game, pos *engine.Position) (*models.Snapshot, error) {
	tc, err := s.timeControls.Get(ctx, game.TimeControlID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	history, err := s.moves.ListForGame(ctx, game.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	whiteTime, blackTime := clock.Both(*tc, game.StartedAt, history)

	snap := models.Snapshot{
		ID:              game.ID,
		FEN:             pos.Encode(),
		BoardFEN:        pos.BoardFEN(),
		BoardFENFlipped: pos.BoardFENFlipped(),
		Result:          game.Result,
		Moves:           pos.UCIHistory(),
		PGN:             pos.PGN(),
		BroadcastType:   game.BroadcastType,
		CreatedAt:       game.CreatedAt,
		StartedAt:       game.StartedAt,
		FinishedAt:      game.FinishedAt,
		White: models.SnapshotSeat{
			CanClaimDraw: game.CanClaimDraw[models.White],
			CamRoom:      game.CamRooms[models.White],
			BoardRoom:    game.BoardRooms[models.White],
			RemainingSec: whiteTime,
		},
		Black: models.SnapshotSeat{
			CanClaimDraw: game.CanClaimDraw[models.Black],
			CamRoom:      game.CamRooms[models.Black],
			BoardRoom:    game.BoardRooms[models.Black],
			RemainingSec: blackTime,
		},
	}

	if game.WhitePlayerID != nil {
		if p, err := s.players.Get(ctx, *game.WhitePlayerID); err == nil {
			snap.White.Player = p
		}
	}
	if game.BlackPlayerID != nil {
		if p, err := s.players.Get(ctx, *game.BlackPlayerID); err == nil {
			snap.Black.Player = p
		}
	}
	return &snap, nil
}

// provisionRooms creates the video rooms for a newly filled seat.
// Best-effort: failures are logged and the handles stay empty.
func (s *gameService) provisionRooms(ctx context.Context, game *models.Game, color models.Color) {
	log := logger.FromContext(ctx)

	if game.BroadcastType == models.BroadcastNone || s.provisioner == nil {
		return
	}

	playerID := game.PlayerID(color)
	if playerID == nil {
		return
	}
	name := color.String()
	if p, err := s.players.Get(ctx, *playerID); err == nil {
		name = p.Username
	}

	sessionID, attachID, err := s.provisioner.CreateSession(ctx)
	if err != nil {
		log.Error("room provisioning failed for game %s: %v", game.ID, err)
		return
	}
	camera, board, err := s.provisioner.CreateRoomsForUser(ctx, sessionID, attachID, name)
	if err != nil {
		log.Error("room provisioning failed for game %s: %v", game.ID, err)
		return
	}

	// Only the handles the broadcast type asks for are recorded.
	if game.BroadcastType == models.BroadcastCam || game.BroadcastType == models.BroadcastBoth {
		game.CamRooms[color] = camera
	} else {
		camera = ""
	}
	if game.BroadcastType == models.BroadcastBoard || game.BroadcastType == models.BroadcastBoth {
		game.BoardRooms[color] = board
	} else {
		board = ""
	}

	if err := s.games.SetRooms(ctx, game.ID, color, camera, board); err != nil {
		log.Error("failed to store room handles for game %s: %v", game.ID, err)
	}
}

func randomColor() models.Color {
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	if err == nil && n.Int64() == 1 {
		return models.Black
	}
	return models.White
}
