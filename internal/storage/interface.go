package storage

import (
	"context"
	"time"

	"github.com/skillduel/skillduel/internal/model"
)

// WalletStore is the subset of persistence the ledger needs. The ledger's
// local store and the remote profile store both satisfy it, so a wallet can
// be written synchronously to one and best-effort to the other.
type WalletStore interface {
	SaveWallet(ctx context.Context, wallet *model.Wallet) error
	GetWallet(ctx context.Context, id model.PlayerID) (*model.Wallet, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	WalletStore

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Match operations.
	//
	// The match record is the only genuinely shared resource in the system.
	// All mutating match operations below are atomic read-modify-write
	// against the latest stored state; two clients racing the same
	// transition see exactly one winner.
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error

	// FindOpenMatch returns a searching match for the given wager not owned
	// by excluding, or (nil, nil) if none is open.
	FindOpenMatch(ctx context.Context, wager model.Money, excluding model.PlayerID) (*model.Match, error)

	// ConditionalJoin transitions a searching match to active with joiner as
	// guest. Returns ErrJoinConflict if another player joined first, and
	// ErrMatchNotJoinable if the match is past searching.
	ConditionalJoin(ctx context.Context, id model.MatchID, joiner model.PlayerID, now time.Time) (*model.Match, error)

	// ReportScore writes one side's score field, touching nothing else.
	// Returns ErrScoreAlreadyReported if that side already reported. The
	// returned match reflects the state at the moment of this write, so at
	// most one of the two reporters observes both scores present.
	ReportScore(ctx context.Context, id model.MatchID, side model.MatchSide, score int64, now time.Time) (*model.Match, error)

	// FinishMatch transitions an active match with both scores present to
	// finished and records the winner (empty for a draw).
	FinishMatch(ctx context.Context, id model.MatchID, winner model.PlayerID, now time.Time) (*model.Match, error)

	// CancelIfSearching deletes a match that is still searching and owned by
	// owner. Returns ErrMatchNotSearching if an opponent already joined.
	CancelIfSearching(ctx context.Context, id model.MatchID, owner model.PlayerID) error
}
