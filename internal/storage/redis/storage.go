package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/storage"
)

// maxTxRetries bounds optimistic transaction retries when a WATCH fails
// because an unrelated field of the same record was written concurrently.
const maxTxRetries = 3

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	return s.client.Set(ctx, playerKey(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and the username index in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Wallet operations

func (s *Storage) SaveWallet(ctx context.Context, wallet *model.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, walletKey(wallet.PlayerID), data, s.cfg.GuestWalletTTL).Err()
}

func (s *Storage) GetWallet(ctx context.Context, id model.PlayerID) (*model.Wallet, error) {
	data, err := s.client.Get(ctx, walletKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrWalletNotFound
		}
		return nil, err
	}

	var wallet model.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	key := matchKey(match.ID)
	indexKey := openMatchIndexKey(match.Wager)

	// Keep the open-match index in step with the record
	pipe := s.client.Pipeline()
	if match.Status == model.MatchStatusSearching {
		pipe.Set(ctx, key, data, s.cfg.OpenMatchTTL)
		pipe.SAdd(ctx, indexKey, string(match.ID))
		pipe.Expire(ctx, indexKey, s.cfg.OpenMatchTTL)
	} else {
		pipe.Set(ctx, key, data, s.cfg.MatchTTL)
		pipe.SRem(ctx, indexKey, string(match.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	match, err := s.GetMatch(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, matchKey(id))
	pipe.SRem(ctx, openMatchIndexKey(match.Wager), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) FindOpenMatch(ctx context.Context, wager model.Money, excluding model.PlayerID) (*model.Match, error) {
	indexKey := openMatchIndexKey(wager)

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		match, err := s.GetMatch(ctx, model.MatchID(id))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				// Record expired out from under the index
				_ = s.client.SRem(ctx, indexKey, id).Err()
				continue
			}
			return nil, err
		}
		if match.Status == model.MatchStatusSearching && match.HostID != excluding {
			return match, nil
		}
	}

	return nil, nil
}

// mutateMatch runs an optimistic WATCH transaction over a single match
// record: read, apply fn, write back. A failed transaction means another
// client wrote the record between read and write.
func (s *Storage) mutateMatch(ctx context.Context, id model.MatchID, fn func(*model.Match) error) (*model.Match, error) {
	key := matchKey(id)
	var result *model.Match

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrMatchNotFound
			}
			return err
		}

		var match model.Match
		if err := json.Unmarshal(data, &match); err != nil {
			return err
		}

		if err := fn(&match); err != nil {
			return err
		}

		updated, err := json.Marshal(&match)
		if err != nil {
			return err
		}

		indexKey := openMatchIndexKey(match.Wager)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if match.Status == model.MatchStatusSearching {
				pipe.Set(ctx, key, updated, s.cfg.OpenMatchTTL)
			} else {
				pipe.Set(ctx, key, updated, s.cfg.MatchTTL)
				pipe.SRem(ctx, indexKey, string(match.ID))
			}
			return nil
		})
		if err != nil {
			return err
		}

		result = &match
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, redis.TxFailedErr
}

func (s *Storage) ConditionalJoin(ctx context.Context, id model.MatchID, joiner model.PlayerID, now time.Time) (*model.Match, error) {
	match, err := s.mutateMatch(ctx, id, func(m *model.Match) error {
		if m.Status != model.MatchStatusSearching {
			if m.GuestID != "" {
				return model.ErrJoinConflict
			}
			return model.ErrMatchNotJoinable
		}
		if m.HostID == joiner {
			return model.ErrSelfMatch
		}
		m.GuestID = joiner
		m.Status = model.MatchStatusActive
		m.UpdatedAt = now
		return nil
	})
	// A lost WATCH on a searching match means the other joiner got there
	// first: surface it as the protocol's join conflict.
	if errors.Is(err, redis.TxFailedErr) {
		return nil, model.ErrJoinConflict
	}
	return match, err
}

func (s *Storage) ReportScore(ctx context.Context, id model.MatchID, side model.MatchSide, score int64, now time.Time) (*model.Match, error) {
	return s.mutateMatch(ctx, id, func(m *model.Match) error {
		if m.Status == model.MatchStatusFinished {
			return model.ErrMatchFinished
		}
		if m.ScoreOf(side) != nil {
			return model.ErrScoreAlreadyReported
		}
		if side == model.SideHost {
			m.HostScore = &score
		} else {
			m.GuestScore = &score
		}
		m.UpdatedAt = now
		return nil
	})
}

func (s *Storage) FinishMatch(ctx context.Context, id model.MatchID, winner model.PlayerID, now time.Time) (*model.Match, error) {
	return s.mutateMatch(ctx, id, func(m *model.Match) error {
		if m.Status == model.MatchStatusFinished {
			return model.ErrMatchFinished
		}
		m.Status = model.MatchStatusFinished
		m.Winner = winner
		m.UpdatedAt = now
		return nil
	})
}

func (s *Storage) CancelIfSearching(ctx context.Context, id model.MatchID, owner model.PlayerID) error {
	key := matchKey(id)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrMatchNotFound
			}
			return err
		}

		var match model.Match
		if err := json.Unmarshal(data, &match); err != nil {
			return err
		}

		if match.HostID != owner {
			return model.ErrNotMatchOwner
		}
		if match.Status != model.MatchStatusSearching {
			return model.ErrMatchNotSearching
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, openMatchIndexKey(match.Wager), string(match.ID))
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	// A lost WATCH here means a join landed first
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrMatchNotSearching
	}
	return err
}
