package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Wallet / ledger errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Replay verification errors
	ErrSignatureMismatch = errors.New("replay signature mismatch")
	ErrSuspiciousTiming  = errors.New("replay timing outside human bounds")

	// Match errors
	ErrMatchNotFound        = errors.New("match not found")
	ErrJoinConflict         = errors.New("match was joined by another player")
	ErrMatchNotJoinable     = errors.New("match is not open for joining")
	ErrMatchNotSearching    = errors.New("match is no longer searching")
	ErrMatchNotActive       = errors.New("match has no opponent yet")
	ErrMatchFinished        = errors.New("match is already finished")
	ErrNotParticipant       = errors.New("player is not part of this match")
	ErrNotMatchOwner        = errors.New("player did not create this match")
	ErrScoreAlreadyReported = errors.New("score already reported for this side")
	ErrSelfMatch            = errors.New("cannot join own match")
)
