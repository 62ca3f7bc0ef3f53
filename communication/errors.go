package communication

import (
	"blackhole/game"
	"blackhole/gamemaster"
	"errors"
	"net/http"
)

// Error codes carried in error responses of the HTTP binding.
const (
	CodeInvalidMove  = "invalid_move"
	CodeWrongTurn    = "wrong_turn"
	CodeNoLegalMoves = "no_legal_moves"
	CodeStale        = "stale"
	CodeBadRequest   = "bad_request"
	CodeInternal     = "internal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Classify maps a game error to its HTTP status and code.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidMove):
		return http.StatusBadRequest, CodeInvalidMove
	case errors.Is(err, gamemaster.ErrWrongTurn):
		return http.StatusConflict, CodeWrongTurn
	case errors.Is(err, game.ErrNoLegalMoves):
		return http.StatusConflict, CodeNoLegalMoves
	case errors.Is(err, gamemaster.ErrStale):
		return http.StatusConflict, CodeStale
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Sentinel returns the error a code stands for, or nil for unknown codes.
func Sentinel(code string) error {
	switch code {
	case CodeInvalidMove:
		return game.ErrInvalidMove
	case CodeWrongTurn:
		return gamemaster.ErrWrongTurn
	case CodeNoLegalMoves:
		return game.ErrNoLegalMoves
	case CodeStale:
		return gamemaster.ErrStale
	default:
		return nil
	}
}
