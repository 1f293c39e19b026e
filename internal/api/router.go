package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skillduel/skillduel/internal/api/handler"
	"github.com/skillduel/skillduel/internal/api/middleware"
	"github.com/skillduel/skillduel/internal/realtime"
	"github.com/skillduel/skillduel/internal/services/auth"
	"github.com/skillduel/skillduel/internal/services/ledger"
	"github.com/skillduel/skillduel/internal/services/match"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	LedgerService   *ledger.Service
	MatchController *match.Controller
	HubManager      *realtime.HubManager
	Broadcaster     *realtime.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.LedgerService, cfg.Logger)
	walletHandler := handler.NewWalletHandler(cfg.LedgerService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.HubManager, cfg.Broadcaster)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Wallet routes (all require auth)
	wallet := api.PathPrefix("/wallet").Subrouter()
	wallet.Use(authMiddleware)
	wallet.HandleFunc("", walletHandler.GetBalance).Methods(http.MethodGet)
	wallet.HandleFunc("/deposit", walletHandler.Deposit).Methods(http.MethodPost)
	wallet.HandleFunc("/sync", walletHandler.Sync).Methods(http.MethodPost)

	// Match routes (all require auth)
	matches := api.PathPrefix("/matches").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.Enter).Methods(http.MethodPost)
	matches.HandleFunc("/{id}", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/{id}", matchHandler.Cancel).Methods(http.MethodDelete)
	matches.HandleFunc("/{id}/score", matchHandler.ReportScore).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/events", matchHandler.Events).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
