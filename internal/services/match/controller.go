package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/skillduel/skillduel/internal/dependencies/clock"
	"github.com/skillduel/skillduel/internal/dependencies/random"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/ledger"
	"github.com/skillduel/skillduel/internal/services/replay"
	"github.com/skillduel/skillduel/internal/storage"
)

const (
	// PrizeMultiplier is the flat payout factor on the winner's wager.
	// It is a fixed constant, deliberately not derived from the pooled
	// wagers; the spread between 2.0 and 1.8 is the implicit house edge.
	PrizeMultiplier = 1.8

	// MatchIDLength is the length of generated match IDs
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match IDs
	MatchIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller orchestrates the match settlement protocol: escrow via the
// ledger, opponent discovery, score exchange and payout.
//
// Per-participant state machine: escrow, then search-or-join, then each
// side plays independently and reports its own score with a verified
// replay snapshot, and whichever reporter lands last computes the winner
// and settles. Failures from the store are surfaced to the caller rather
// than retried; a score report that fails must not look submitted.
type Controller struct {
	storage  storage.Storage
	ledger   *ledger.Service
	verifier *replay.Verifier
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a new match Controller
func NewController(
	storage storage.Storage,
	ledger *ledger.Service,
	verifier *replay.Verifier,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		ledger:   ledger,
		verifier: verifier,
		clock:    clock,
		random:   random,
		logger:   logger,
	}
}

// Enter escrows the wager and either joins an open match at the same
// stake or creates a new searching one. The escrow happens before any
// store call; an unaffordable wager aborts with ErrInsufficientFunds and
// no network traffic.
//
// The join is optimistic: if another player wins the race for the same
// open match, this participant falls back to creating its own searching
// match rather than failing.
func (c *Controller) Enter(ctx context.Context, playerID model.PlayerID, wager model.Money) (*model.Match, error) {
	if wager <= 0 {
		return nil, model.ErrInvalidAmount
	}

	if _, err := c.ledger.EnterMatch(ctx, playerID, wager); err != nil {
		return nil, err
	}

	open, err := c.storage.FindOpenMatch(ctx, wager, playerID)
	if err != nil {
		return nil, err
	}

	if open != nil {
		joined, err := c.storage.ConditionalJoin(ctx, open.ID, playerID, c.clock.Now())
		switch {
		case err == nil:
			c.logger.Info("match joined",
				slog.String("match_id", string(joined.ID)),
				slog.String("player_id", string(playerID)),
				slog.String("wager", wager.String()),
			)
			return joined, nil
		case errors.Is(err, model.ErrJoinConflict) || errors.Is(err, model.ErrMatchNotJoinable):
			// Lost the race; fall through and host our own
		default:
			return nil, err
		}
	}

	return c.createSearching(ctx, playerID, wager)
}

// Get retrieves a match by ID
func (c *Controller) Get(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, id)
}

// Report verifies the replay snapshot and writes the participant's score
// into its own side of the shared match record. A verification failure is
// terminal for the score: the match record is left untouched, the escrowed
// fee stays spent, and the error says why.
//
// When this report is the second one, the reporter computes the winner and
// settles: the match transitions to finished and the winner's ledger is
// credited wager * 1.8. Equal scores finish the match with no winner and
// no payout.
func (c *Controller) Report(ctx context.Context, id model.MatchID, playerID model.PlayerID, score int64, snapshot *model.ReplaySnapshot) (*model.Match, error) {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	side, ok := m.SideOf(playerID)
	if !ok {
		return nil, model.ErrNotParticipant
	}
	if m.Status == model.MatchStatusSearching {
		return nil, model.ErrMatchNotActive
	}

	if err := c.verifier.Verify(snapshot); err != nil {
		c.logger.Warn("score voided by replay verification",
			slog.String("match_id", string(id)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	updated, err := c.storage.ReportScore(ctx, id, side, score, c.clock.Now())
	if err != nil {
		return nil, err
	}

	c.logger.Info("score reported",
		slog.String("match_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.Int64("score", score),
	)

	if !updated.BothReported() {
		return updated, nil
	}

	return c.settle(ctx, updated)
}

// CancelSearch withdraws a still-searching match and refunds the owner's
// escrowed wager. Once an opponent has joined the cancel is rejected with
// ErrMatchNotSearching.
func (c *Controller) CancelSearch(ctx context.Context, id model.MatchID, playerID model.PlayerID) error {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return err
	}

	if err := c.storage.CancelIfSearching(ctx, id, playerID); err != nil {
		return err
	}

	if _, err := c.ledger.Refund(ctx, playerID, m.Wager); err != nil {
		return err
	}

	c.logger.Info("match search cancelled",
		slog.String("match_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.String("refund", m.Wager.String()),
	)

	return nil
}

// Prize returns the payout for winning a match at the given wager.
func Prize(wager model.Money) model.Money {
	return wager.MultiplyRounded(PrizeMultiplier)
}

// createSearching opens a fresh match owned by the player
func (c *Controller) createSearching(ctx context.Context, playerID model.PlayerID, wager model.Money) (*model.Match, error) {
	now := c.clock.Now()
	m := &model.Match{
		ID:        model.MatchID(c.random.String(MatchIDLength, MatchIDAlphabet)),
		Wager:     wager,
		HostID:    playerID,
		Status:    model.MatchStatusSearching,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(m.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("wager", wager.String()),
	)

	return m, nil
}

// settle finishes a match whose scores are both in and pays the winner.
// Only the reporter whose write completed the pair reaches here, so the
// payout is applied exactly once.
func (c *Controller) settle(ctx context.Context, m *model.Match) (*model.Match, error) {
	winner := computeWinner(m)

	finished, err := c.storage.FinishMatch(ctx, m.ID, winner, c.clock.Now())
	if err != nil {
		return nil, err
	}

	if winner == "" {
		// Draw: no payout, both escrows retained. Recorded as finished
		// with an empty winner.
		c.logger.Info("match drawn",
			slog.String("match_id", string(m.ID)),
			slog.Int64("score", *m.HostScore),
		)
		return finished, nil
	}

	prize := Prize(m.Wager)
	if _, err := c.ledger.AwardPrize(ctx, winner, prize); err != nil {
		return nil, err
	}

	c.logger.Info("match settled",
		slog.String("match_id", string(m.ID)),
		slog.String("winner", string(winner)),
		slog.String("prize", prize.String()),
	)

	return finished, nil
}

// computeWinner applies the settlement rule: strictly higher score wins,
// equal scores produce no winner.
func computeWinner(m *model.Match) model.PlayerID {
	switch {
	case *m.HostScore > *m.GuestScore:
		return m.HostID
	case *m.GuestScore > *m.HostScore:
		return m.GuestID
	default:
		return ""
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	Enter(ctx context.Context, playerID model.PlayerID, wager model.Money) (*model.Match, error)
	Get(ctx context.Context, id model.MatchID) (*model.Match, error)
	Report(ctx context.Context, id model.MatchID, playerID model.PlayerID, score int64, snapshot *model.ReplaySnapshot) (*model.Match, error)
	CancelSearch(ctx context.Context, id model.MatchID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
