package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/skillduel/skillduel/internal/api"
	"github.com/skillduel/skillduel/internal/factory"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/ledger"
	redisstorage "github.com/skillduel/skillduel/internal/storage/redis"
)

// envConfig is the server's environment configuration
type envConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	// RemoteWalletRedisURL points the ledger at a separate Redis instance
	// acting as the remote balance store. Optional.
	RemoteWalletRedisURL string `env:"REMOTE_WALLET_REDIS_URL"`

	// SignupBonus is the promotional grant for new wallets, e.g. "1.00"
	SignupBonus string `env:"SIGNUP_BONUS" envDefault:"1.00"`
}

func main() {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		slog.Error("failed to parse environment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	var level slog.Level
	if err := level.UnmarshalText([]byte(envCfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	signupBonus, err := model.ParseMoney(envCfg.SignupBonus)
	if err != nil {
		logger.Error("invalid SIGNUP_BONUS", slog.String("value", envCfg.SignupBonus))
		os.Exit(1)
	}
	ledgerCfg := ledger.DefaultConfig()
	ledgerCfg.SignupBonus = signupBonus

	// Build factory config from environment
	cfg := factory.Config{
		Logger:       logger,
		StorageType:  envCfg.StorageType,
		LedgerConfig: &ledgerCfg,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if envCfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = envCfg.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	if envCfg.RemoteWalletRedisURL != "" {
		remoteCfg := redisstorage.DefaultConfig()
		remoteCfg.URL = envCfg.RemoteWalletRedisURL
		cfg.RemoteWalletRedisConfig = &remoteCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		LedgerService:   app.LedgerService,
		MatchController: app.MatchController,
		HubManager:      app.HubManager,
		Broadcaster:     app.Broadcaster,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = envCfg.Host
	serverConfig.Port = envCfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
