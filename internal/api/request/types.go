package request

import "github.com/skillduel/skillduel/internal/model"

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DepositRequest is the request body for depositing cash.
// Amounts are decimal strings, e.g. "1.50".
type DepositRequest struct {
	Amount string `json:"amount"`
}

// EnterMatchRequest is the request body for entering matchmaking
type EnterMatchRequest struct {
	Wager string `json:"wager"`
}

// ReportScoreRequest is the request body for reporting a match score.
// The snapshot carries the signed session event log backing the score.
type ReportScoreRequest struct {
	Score    int64                 `json:"score"`
	Snapshot *model.ReplaySnapshot `json:"snapshot"`
}
