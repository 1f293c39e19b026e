package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a participant in the wagered-match economy
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players; wallet is device-scoped
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately so the password hash never travels with the session
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
