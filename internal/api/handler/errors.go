package handler

import (
	"net/http"

	"github.com/skillduel/skillduel/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeInvalidAmount        = apierr.CodeInvalidAmount
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodePlayerNotFound       = apierr.CodePlayerNotFound
	CodeWalletNotFound       = apierr.CodeWalletNotFound
	CodeMatchNotFound        = apierr.CodeMatchNotFound
	CodeInsufficientFunds    = apierr.CodeInsufficientFunds
	CodeSignatureMismatch    = apierr.CodeSignatureMismatch
	CodeSuspiciousTiming     = apierr.CodeSuspiciousTiming
	CodeJoinConflict         = apierr.CodeJoinConflict
	CodeMatchNotJoinable     = apierr.CodeMatchNotJoinable
	CodeMatchNotSearching    = apierr.CodeMatchNotSearching
	CodeMatchNotActive       = apierr.CodeMatchNotActive
	CodeMatchFinished        = apierr.CodeMatchFinished
	CodeNotParticipant       = apierr.CodeNotParticipant
	CodeNotMatchOwner        = apierr.CodeNotMatchOwner
	CodeScoreAlreadyReported = apierr.CodeScoreAlreadyReported
	CodeSelfMatch            = apierr.CodeSelfMatch
	CodeUsernameExists       = apierr.CodeUsernameExists
	CodeInvalidCredentials   = apierr.CodeInvalidCredentials
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
