package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeWalletNotFound       = "WALLET_NOT_FOUND"
	CodeMatchNotFound        = "MATCH_NOT_FOUND"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeSignatureMismatch    = "SIGNATURE_MISMATCH"
	CodeSuspiciousTiming     = "SUSPICIOUS_TIMING"
	CodeJoinConflict         = "JOIN_CONFLICT"
	CodeMatchNotJoinable     = "MATCH_NOT_JOINABLE"
	CodeMatchNotSearching    = "MATCH_NOT_SEARCHING"
	CodeMatchNotActive       = "MATCH_NOT_ACTIVE"
	CodeMatchFinished        = "MATCH_FINISHED"
	CodeNotParticipant       = "NOT_PARTICIPANT"
	CodeNotMatchOwner        = "NOT_MATCH_OWNER"
	CodeScoreAlreadyReported = "SCORE_ALREADY_REPORTED"
	CodeSelfMatch            = "SELF_MATCH"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrWalletNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeWalletNotFound, "Wallet not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be positive"}}
	case errors.Is(err, model.ErrInsufficientFunds):
		return &httpError{http.StatusPaymentRequired, APIError{CodeInsufficientFunds, "Combined balance does not cover the fee"}}
	case errors.Is(err, model.ErrSignatureMismatch):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeSignatureMismatch, "Replay snapshot signature does not match its payload"}}
	case errors.Is(err, model.ErrSuspiciousTiming):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeSuspiciousTiming, "Replay timing is not humanly plausible"}}
	case errors.Is(err, model.ErrJoinConflict):
		return &httpError{http.StatusConflict, APIError{CodeJoinConflict, "Another player joined this match first"}}
	case errors.Is(err, model.ErrMatchNotJoinable):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotJoinable, "Match is no longer open"}}
	case errors.Is(err, model.ErrMatchNotSearching):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotSearching, "Match is no longer searching"}}
	case errors.Is(err, model.ErrMatchNotActive):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotActive, "Match has no opponent yet"}}
	case errors.Is(err, model.ErrMatchFinished):
		return &httpError{http.StatusConflict, APIError{CodeMatchFinished, "Match is already finished"}}
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotParticipant, "Not a participant in this match"}}
	case errors.Is(err, model.ErrNotMatchOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotMatchOwner, "Only the match owner can perform this action"}}
	case errors.Is(err, model.ErrScoreAlreadyReported):
		return &httpError{http.StatusConflict, APIError{CodeScoreAlreadyReported, "Score already reported for this side"}}
	case errors.Is(err, model.ErrSelfMatch):
		return &httpError{http.StatusConflict, APIError{CodeSelfMatch, "Cannot join your own match"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
