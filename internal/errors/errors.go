package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"

	// Validation errors: caller-correctable, never retried, never
	// logged as system faults.
	ErrCodeIllegalMove       = "ILLEGAL_MOVE"
	ErrCodePromotionRequired = "PROMOTION_REQUIRED"
	ErrCodeNotYourTurn       = "NOT_YOUR_TURN"
	ErrCodeGameFull          = "GAME_FULL"
	ErrCodeNotAParticipant   = "NOT_A_PARTICIPANT"
	ErrCodeGameFinished      = "GAME_FINISHED"

	// Consistency errors: a broken invariant, fatal for the game.
	ErrCodeCorruptLedger = "CORRUPT_LEDGER"
	ErrCodeOutOfOrder    = "OUT_OF_ORDER"

	// Conflict: a concurrent mutation lost the race; safe to retry.
	ErrCodeConflict = "CONFLICT"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "ILLEGAL_MOVE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code so callers can compare against
// constructor-built errors with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewIllegalMoveError rejects a move that is not in the legal move set.
func NewIllegalMoveError(uci string) *AppError {
	return &AppError{
		Code:    ErrCodeIllegalMove,
		Message: fmt.Sprintf("move %s is not legal in the current position", uci),
		Status:  422,
	}
}

// NewPromotionRequiredError rejects a pawn move to the last rank that
// does not name a promotion piece.
func NewPromotionRequiredError(uci string) *AppError {
	return &AppError{
		Code:    ErrCodePromotionRequired,
		Message: fmt.Sprintf("move %s requires a promotion piece", uci),
		Status:  422,
	}
}

// NewNotYourTurnError rejects a move by the player not on turn.
func NewNotYourTurnError() *AppError {
	return &AppError{
		Code:    ErrCodeNotYourTurn,
		Message: "it is not your turn to move",
		Status:  403,
	}
}

// NewGameFullError rejects a join when both seats are taken.
func NewGameFullError(gameID string) *AppError {
	return &AppError{
		Code:    ErrCodeGameFull,
		Message: fmt.Sprintf("game %s already has both players", gameID),
		Status:  409,
	}
}

// NewNotAParticipantError rejects game actions from users without a seat.
func NewNotAParticipantError() *AppError {
	return &AppError{
		Code:    ErrCodeNotAParticipant,
		Message: "user is not a participant of this game",
		Status:  403,
	}
}

// NewGameFinishedError rejects mutations on a game with a terminal result.
func NewGameFinishedError(gameID string) *AppError {
	return &AppError{
		Code:    ErrCodeGameFinished,
		Message: fmt.Sprintf("game %s is already finished", gameID),
		Status:  409,
	}
}

// NewCorruptLedgerError flags a move log that no longer replays. This is
// fatal for the game and needs operator attention.
func NewCorruptLedgerError(gameID string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeCorruptLedger,
		Message: fmt.Sprintf("move ledger for game %s failed to replay", gameID),
		Status:  500,
		Err:     err,
	}
}

// NewOutOfOrderError flags an append that is illegal under replay.
func NewOutOfOrderError(gameID string, ply int) *AppError {
	return &AppError{
		Code:    ErrCodeOutOfOrder,
		Message: fmt.Sprintf("move at ply %d is out of order for game %s", ply, gameID),
		Status:  500,
	}
}

// NewConflictError reports a lost race against a concurrent mutation on
// the same game. The caller may retry.
func NewConflictError(gameID string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("another operation is in flight for game %s, retry", gameID),
		Status:  409,
	}
}
