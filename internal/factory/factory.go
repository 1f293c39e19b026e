package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/skillduel/skillduel/internal/dependencies/clock"
	"github.com/skillduel/skillduel/internal/dependencies/random"
	"github.com/skillduel/skillduel/internal/realtime"
	"github.com/skillduel/skillduel/internal/services/auth"
	"github.com/skillduel/skillduel/internal/services/ledger"
	"github.com/skillduel/skillduel/internal/services/match"
	"github.com/skillduel/skillduel/internal/services/replay"
	"github.com/skillduel/skillduel/internal/storage"
	"github.com/skillduel/skillduel/internal/storage/memory"
	redisstorage "github.com/skillduel/skillduel/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	LedgerService   *ledger.Service
	Verifier        *replay.Verifier
	MatchController *match.Controller
	AuthService     *auth.Service
	HubManager      *realtime.HubManager
	Broadcaster     *realtime.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RemoteWalletRedisConfig optionally points the ledger at a separate
	// Redis instance acting as the remote balance store. When nil the
	// ledger runs on local storage alone.
	RemoteWalletRedisConfig *redisstorage.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// LedgerConfig holds configuration for the ledger service (optional)
	// If zero value, defaults to ledger.DefaultConfig()
	LedgerConfig *ledger.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Optional remote balance store
	var remote storage.WalletStore
	if cfg.RemoteWalletRedisConfig != nil {
		remoteStore, err := redisstorage.New(*cfg.RemoteWalletRedisConfig)
		if err != nil {
			return nil, err
		}
		remote = remoteStore
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default configs if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	ledgerCfg := ledger.DefaultConfig()
	if cfg.LedgerConfig != nil {
		ledgerCfg = *cfg.LedgerConfig
	}

	return newWithDependencies(store, remote, clk, rnd, authCfg, ledgerCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	remote storage.WalletStore,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	ledgerCfg ledger.Config,
	logger *slog.Logger,
) *App {
	// Create services
	ledgerService := ledger.New(store, remote, clk, ledgerCfg, logger)
	verifier := replay.NewVerifier(logger)
	matchController := match.NewController(store, ledgerService, verifier, clk, rnd, logger)
	authService := auth.New(store, clk, rnd, authCfg)
	hubManager := realtime.NewHubManager(logger)
	broadcaster := realtime.NewBroadcaster(hubManager, clk, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		LedgerService:   ledgerService,
		Verifier:        verifier,
		MatchController: matchController,
		AuthService:     authService,
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
	}
}
