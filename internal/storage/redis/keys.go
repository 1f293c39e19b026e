package redis

import (
	"fmt"

	"github.com/skillduel/skillduel/internal/model"
)

// Key prefix for all skillduel data
const keyPrefix = "skillduel"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// walletKey returns the Redis key for a Wallet
func walletKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:wallet:%s", keyPrefix, id)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// openMatchIndexKey returns the Redis key for the SET of searching match IDs
// at a given wager amount. Matchmaking only ever pairs equal wagers, so the
// index is sharded by wager.
func openMatchIndexKey(wager model.Money) string {
	return fmt.Sprintf("%s:idx:open:%d", keyPrefix, int64(wager))
}
