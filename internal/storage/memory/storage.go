package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	wallets           map[model.PlayerID]*model.Wallet
	matches           map[model.MatchID]*model.Match
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		wallets:           make(map[model.PlayerID]*model.Wallet),
		matches:           make(map[model.MatchID]*model.Match),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Wallet operations

func (s *Storage) SaveWallet(ctx context.Context, wallet *model.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.PlayerID] = wallet.Clone()
	return nil
}

func (s *Storage) GetWallet(ctx context.Context, id model.PlayerID) (*model.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wallet, ok := s.wallets[id]
	if !ok {
		return nil, model.ErrWalletNotFound
	}
	return wallet.Clone(), nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

func (s *Storage) FindOpenMatch(ctx context.Context, wager model.Money, excluding model.PlayerID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, match := range s.matches {
		if match.Status == model.MatchStatusSearching && match.Wager == wager && match.HostID != excluding {
			return match.Clone(), nil
		}
	}
	return nil, nil
}

func (s *Storage) ConditionalJoin(ctx context.Context, id model.MatchID, joiner model.PlayerID, now time.Time) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	if match.Status != model.MatchStatusSearching {
		if match.GuestID != "" {
			return nil, model.ErrJoinConflict
		}
		return nil, model.ErrMatchNotJoinable
	}
	if match.HostID == joiner {
		return nil, model.ErrSelfMatch
	}

	match.GuestID = joiner
	match.Status = model.MatchStatusActive
	match.UpdatedAt = now
	return match.Clone(), nil
}

func (s *Storage) ReportScore(ctx context.Context, id model.MatchID, side model.MatchSide, score int64, now time.Time) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	if match.Status == model.MatchStatusFinished {
		return nil, model.ErrMatchFinished
	}
	if match.ScoreOf(side) != nil {
		return nil, model.ErrScoreAlreadyReported
	}

	if side == model.SideHost {
		match.HostScore = &score
	} else {
		match.GuestScore = &score
	}
	match.UpdatedAt = now
	return match.Clone(), nil
}

func (s *Storage) FinishMatch(ctx context.Context, id model.MatchID, winner model.PlayerID, now time.Time) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	if match.Status == model.MatchStatusFinished {
		return nil, model.ErrMatchFinished
	}

	match.Status = model.MatchStatusFinished
	match.Winner = winner
	match.UpdatedAt = now
	return match.Clone(), nil
}

func (s *Storage) CancelIfSearching(ctx context.Context, id model.MatchID, owner model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[id]
	if !ok {
		return model.ErrMatchNotFound
	}
	if match.HostID != owner {
		return model.ErrNotMatchOwner
	}
	if match.Status != model.MatchStatusSearching {
		return model.ErrMatchNotSearching
	}

	delete(s.matches, id)
	return nil
}
