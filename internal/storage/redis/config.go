package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types. Searching matches expire via
	// OpenMatchTTL so an abandoned search does not linger forever; finished
	// matches are kept for MatchTTL for history lookups. Guest wallets are
	// device-scoped and expire with GuestWalletTTL.
	GuestPlayerTTL time.Duration
	GuestWalletTTL time.Duration
	OpenMatchTTL   time.Duration
	MatchTTL       time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 30 * 24 * time.Hour,
		GuestWalletTTL: 30 * 24 * time.Hour,
		OpenMatchTTL:   time.Hour,
		MatchTTL:       7 * 24 * time.Hour,
	}
}
