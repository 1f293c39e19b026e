package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/skillduel/skillduel/internal/dependencies/clock"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/storage"
)

// depositMatchPercent is the promotional match granted on every deposit.
const depositMatchPercent = 10

// remoteWriteTimeout bounds the best-effort background write to the remote
// profile store.
const remoteWriteTimeout = 10 * time.Second

// Config holds configuration for the ledger service
type Config struct {
	// SignupBonus is the promotional grant for a wallet seen for the first time
	SignupBonus model.Money
}

// DefaultConfig returns default ledger configuration
func DefaultConfig() Config {
	return Config{
		SignupBonus: 100, // 1.00 in promotional funds
	}
}

// Service owns balance bookkeeping for player wallets.
//
// Every mutation follows the same optimistic-write pattern: the wallet is
// changed and written to the local store synchronously, then pushed to the
// remote profile store in the background. A remote failure is logged and
// swallowed so the ledger keeps working offline; it is not retried and the
// local state is not rolled back. The escrow in EnterMatch is likewise
// unconditional once affordability is confirmed: there is no hold/commit
// phase, so a crash between the deduction and persistence loses the funds
// with no compensating transaction.
type Service struct {
	local  storage.WalletStore
	remote storage.WalletStore // nil in guest/offline mode
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger
}

// New creates a new ledger Service. remote may be nil, in which case the
// ledger operates purely on local persistence.
func New(local storage.WalletStore, remote storage.WalletStore, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SignupBonus == 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		local:  local,
		remote: remote,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// GetBalance returns the player's wallet, creating a fresh one with the
// signup promotional grant on first sight.
func (s *Service) GetBalance(ctx context.Context, playerID model.PlayerID) (*model.Wallet, error) {
	return s.loadOrCreate(ctx, playerID)
}

// Deposit credits unrestricted funds plus a 10% promotional match.
// Both buckets move in one wallet update.
func (s *Service) Deposit(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	wallet, err := s.loadOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	wallet.Cash += amount
	wallet.Bonus += amount * depositMatchPercent / 100

	if err := s.save(ctx, wallet); err != nil {
		return nil, err
	}

	s.logger.Info("deposit applied",
		slog.String("player_id", string(playerID)),
		slog.String("amount", amount.String()),
		slog.String("total", wallet.Total().String()),
	)

	return wallet, nil
}

// AddBonus credits promotional funds only. Used for skill rewards.
func (s *Service) AddBonus(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	wallet, err := s.loadOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	wallet.Bonus += amount

	if err := s.save(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// CanAfford reports whether the player's combined balance covers the fee.
func (s *Service) CanAfford(ctx context.Context, playerID model.PlayerID, fee model.Money) (bool, error) {
	wallet, err := s.loadOrCreate(ctx, playerID)
	if err != nil {
		return false, err
	}
	return wallet.CanAfford(fee), nil
}

// EnterMatch escrows the entry fee: unrestricted funds are spent first,
// any remainder comes from promotional funds. If the combined balance does
// not cover the fee, nothing is mutated and ErrInsufficientFunds is
// returned.
func (s *Service) EnterMatch(ctx context.Context, playerID model.PlayerID, fee model.Money) (*model.Wallet, error) {
	if fee <= 0 {
		return nil, model.ErrInvalidAmount
	}

	wallet, err := s.loadOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !wallet.CanAfford(fee) {
		return nil, model.ErrInsufficientFunds
	}

	fromCash := fee
	if fromCash > wallet.Cash {
		fromCash = wallet.Cash
	}
	wallet.Cash -= fromCash
	wallet.Bonus -= fee - fromCash

	if err := s.save(ctx, wallet); err != nil {
		return nil, err
	}

	s.logger.Info("match fee escrowed",
		slog.String("player_id", string(playerID)),
		slog.String("fee", fee.String()),
		slog.String("from_cash", fromCash.String()),
	)

	return wallet, nil
}

// AwardPrize credits unrestricted funds. Prizes are always paid as cash so
// winnings carry no promotional restriction.
func (s *Service) AwardPrize(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	wallet, err := s.loadOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	wallet.Cash += amount

	if err := s.save(ctx, wallet); err != nil {
		return nil, err
	}

	s.logger.Info("prize awarded",
		slog.String("player_id", string(playerID)),
		slog.String("amount", amount.String()),
	)

	return wallet, nil
}

// Refund returns an escrowed fee to unrestricted funds. The cash/bonus
// split of the original deduction is not recorded, so the refund lands in
// the same bucket prizes do.
func (s *Service) Refund(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error) {
	return s.AwardPrize(ctx, playerID, amount)
}

// SyncRemote reconciles the wallet with the remote profile store at login.
// A remote wallet overwrites the local one (the canonical profile wins over
// a guest-mode balance); if the remote has no wallet yet, the local one is
// pushed up.
func (s *Service) SyncRemote(ctx context.Context, playerID model.PlayerID) (*model.Wallet, error) {
	if s.remote == nil {
		return s.loadOrCreate(ctx, playerID)
	}

	remote, err := s.remote.GetWallet(ctx, playerID)
	switch {
	case err == nil:
		if err := s.local.SaveWallet(ctx, remote); err != nil {
			return nil, err
		}
		return remote.Clone(), nil
	case errors.Is(err, model.ErrWalletNotFound):
		wallet, err := s.loadOrCreate(ctx, playerID)
		if err != nil {
			return nil, err
		}
		s.writeRemote(wallet)
		return wallet, nil
	default:
		// Remote unavailable: degrade to local-only
		s.logger.Warn("remote wallet sync failed",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return s.loadOrCreate(ctx, playerID)
	}
}

// loadOrCreate fetches the wallet from the local store, seeding a fresh one
// with the signup promotional grant when the player has none.
func (s *Service) loadOrCreate(ctx context.Context, playerID model.PlayerID) (*model.Wallet, error) {
	wallet, err := s.local.GetWallet(ctx, playerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, model.ErrWalletNotFound) {
		return nil, err
	}

	wallet = &model.Wallet{
		PlayerID:  playerID,
		Cash:      0,
		Bonus:     s.cfg.SignupBonus,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.save(ctx, wallet); err != nil {
		return nil, err
	}

	s.logger.Info("wallet created",
		slog.String("player_id", string(playerID)),
		slog.String("signup_bonus", s.cfg.SignupBonus.String()),
	)

	return wallet, nil
}

// save persists the wallet locally, then pushes to the remote profile store
// in the background.
func (s *Service) save(ctx context.Context, wallet *model.Wallet) error {
	wallet.UpdatedAt = s.clock.Now()

	if err := s.local.SaveWallet(ctx, wallet); err != nil {
		return err
	}

	s.writeRemote(wallet.Clone())
	return nil
}

// writeRemote fires a best-effort write to the remote profile store.
// Failures are logged, not retried, and never roll back local state.
func (s *Service) writeRemote(wallet *model.Wallet) {
	if s.remote == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()

		if err := s.remote.SaveWallet(ctx, wallet); err != nil {
			s.logger.Warn("remote wallet write failed",
				slog.String("player_id", string(wallet.PlayerID)),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Interface for dependency injection
type ServiceInterface interface {
	GetBalance(ctx context.Context, playerID model.PlayerID) (*model.Wallet, error)
	Deposit(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error)
	AddBonus(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error)
	CanAfford(ctx context.Context, playerID model.PlayerID, fee model.Money) (bool, error)
	EnterMatch(ctx context.Context, playerID model.PlayerID, fee model.Money) (*model.Wallet, error)
	AwardPrize(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error)
	Refund(ctx context.Context, playerID model.PlayerID, amount model.Money) (*model.Wallet, error)
	SyncRemote(ctx context.Context, playerID model.PlayerID) (*model.Wallet, error)
}

var _ ServiceInterface = (*Service)(nil)
