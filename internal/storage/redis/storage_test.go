package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/skillduel/skillduel/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *goredis.Client
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.client = goredis.NewClient(&goredis.Options{Addr: s.mini.Addr()})
	s.storage = NewWithClient(s.client, DefaultConfig())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	s.Require().NoError(s.storage.Close())
}

func (s *StorageSuite) searchingMatch(id model.MatchID, host model.PlayerID, wager model.Money) *model.Match {
	m := &model.Match{
		ID:        id,
		Wager:     wager,
		HostID:    host,
		Status:    model.MatchStatusSearching,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))
	return m
}

func (s *StorageSuite) TestPlayerRoundTrip() {
	player := &model.Player{ID: "p1", DisplayName: "Alice", CreatedAt: s.now}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)

	_, err = s.storage.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerHasTTL() {
	guest := &model.Player{ID: "g1", DisplayName: "Guest", IsGuest: true, CreatedAt: s.now}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, guest))

	registered := &model.Player{ID: "r1", DisplayName: "Reg", CreatedAt: s.now}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, registered))

	s.Positive(s.mini.TTL(playerKey("g1")))
	s.Zero(s.mini.TTL(playerKey("r1")))
}

func (s *StorageSuite) TestRegisteredPlayerLookupByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "p1", Username: "alice", PasswordHash: "x", CreatedAt: s.now}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	got, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestWalletRoundTrip() {
	wallet := &model.Wallet{PlayerID: "p1", Cash: 100, Bonus: 50, UpdatedAt: s.now}
	s.Require().NoError(s.storage.SaveWallet(s.ctx, wallet))

	got, err := s.storage.GetWallet(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.Money(100), got.Cash)
	s.Equal(model.Money(50), got.Bonus)

	_, err = s.storage.GetWallet(s.ctx, "missing")
	s.ErrorIs(err, model.ErrWalletNotFound)
}

func (s *StorageSuite) TestSaveMatchMaintainsOpenIndex() {
	s.searchingMatch("m1", "host", 50)

	members, err := s.client.SMembers(s.ctx, openMatchIndexKey(50)).Result()
	s.Require().NoError(err)
	s.Equal([]string{"m1"}, members)
}

func (s *StorageSuite) TestFindOpenMatch() {
	s.searchingMatch("m1", "host", 50)

	found, err := s.storage.FindOpenMatch(s.ctx, 50, "guest")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(model.MatchID("m1"), found.ID)

	// Different wager shard stays empty
	other, err := s.storage.FindOpenMatch(s.ctx, 75, "guest")
	s.Require().NoError(err)
	s.Nil(other)
}

func (s *StorageSuite) TestFindOpenMatchExcludesOwnMatch() {
	s.searchingMatch("m1", "host", 50)

	found, err := s.storage.FindOpenMatch(s.ctx, 50, "host")
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *StorageSuite) TestFindOpenMatchCleansStaleIndexEntries() {
	s.searchingMatch("m1", "host", 50)

	// Simulate the record expiring while the index entry lingers
	s.mini.Del(matchKey("m1"))

	found, err := s.storage.FindOpenMatch(s.ctx, 50, "guest")
	s.Require().NoError(err)
	s.Nil(found)

	members, err := s.client.SMembers(s.ctx, openMatchIndexKey(50)).Result()
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *StorageSuite) TestConditionalJoin() {
	s.searchingMatch("m1", "host", 50)

	joined, err := s.storage.ConditionalJoin(s.ctx, "m1", "guest", s.now.Add(time.Second))
	s.Require().NoError(err)
	s.Equal(model.MatchStatusActive, joined.Status)
	s.Equal(model.PlayerID("guest"), joined.GuestID)

	// Joining retires the match from the open index
	members, err := s.client.SMembers(s.ctx, openMatchIndexKey(50)).Result()
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *StorageSuite) TestConditionalJoinLosesRace() {
	s.searchingMatch("m1", "host", 50)

	_, err := s.storage.ConditionalJoin(s.ctx, "m1", "guest", s.now)
	s.Require().NoError(err)

	_, err = s.storage.ConditionalJoin(s.ctx, "m1", "late", s.now)
	s.ErrorIs(err, model.ErrJoinConflict)
}

func (s *StorageSuite) TestConditionalJoinConcurrentExactlyOneWinner() {
	s.searchingMatch("m1", "host", 50)

	joiners := []model.PlayerID{"guest-a", "guest-b"}
	results := make(chan error, len(joiners))

	var wg sync.WaitGroup
	for _, joiner := range joiners {
		wg.Add(1)
		go func(j model.PlayerID) {
			defer wg.Done()
			_, err := s.storage.ConditionalJoin(s.ctx, "m1", j, s.now)
			results <- err
		}(joiner)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrJoinConflict):
			conflicts++
		default:
			s.Failf("unexpected join error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(1, conflicts)

	m, err := s.storage.GetMatch(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusActive, m.Status)
	s.Contains(joiners, m.GuestID)
}

func (s *StorageSuite) TestConditionalJoinSelf() {
	s.searchingMatch("m1", "host", 50)

	_, err := s.storage.ConditionalJoin(s.ctx, "m1", "host", s.now)
	s.ErrorIs(err, model.ErrSelfMatch)
}

func (s *StorageSuite) TestConditionalJoinMissingMatch() {
	_, err := s.storage.ConditionalJoin(s.ctx, "missing", "guest", s.now)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestReportScore() {
	s.searchingMatch("m1", "host", 50)
	_, err := s.storage.ConditionalJoin(s.ctx, "m1", "guest", s.now)
	s.Require().NoError(err)

	updated, err := s.storage.ReportScore(s.ctx, "m1", model.SideHost, 1000, s.now)
	s.Require().NoError(err)
	s.Require().NotNil(updated.HostScore)
	s.Equal(int64(1000), *updated.HostScore)
	s.False(updated.BothReported())

	updated, err = s.storage.ReportScore(s.ctx, "m1", model.SideGuest, 2000, s.now)
	s.Require().NoError(err)
	s.True(updated.BothReported())
}

func (s *StorageSuite) TestReportScoreTwice() {
	s.searchingMatch("m1", "host", 50)
	_, err := s.storage.ConditionalJoin(s.ctx, "m1", "guest", s.now)
	s.Require().NoError(err)

	_, err = s.storage.ReportScore(s.ctx, "m1", model.SideHost, 1000, s.now)
	s.Require().NoError(err)

	_, err = s.storage.ReportScore(s.ctx, "m1", model.SideHost, 2000, s.now)
	s.ErrorIs(err, model.ErrScoreAlreadyReported)
}

func (s *StorageSuite) TestFinishMatch() {
	s.searchingMatch("m1", "host", 50)
	_, err := s.storage.ConditionalJoin(s.ctx, "m1", "guest", s.now)
	s.Require().NoError(err)

	finished, err := s.storage.FinishMatch(s.ctx, "m1", "guest", s.now)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusFinished, finished.Status)
	s.Equal(model.PlayerID("guest"), finished.Winner)

	_, err = s.storage.FinishMatch(s.ctx, "m1", "guest", s.now)
	s.ErrorIs(err, model.ErrMatchFinished)
}

func (s *StorageSuite) TestCancelIfSearching() {
	s.searchingMatch("m1", "host", 50)

	s.Require().NoError(s.storage.CancelIfSearching(s.ctx, "m1", "host"))

	_, err := s.storage.GetMatch(s.ctx, "m1")
	s.ErrorIs(err, model.ErrMatchNotFound)

	members, err := s.client.SMembers(s.ctx, openMatchIndexKey(50)).Result()
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *StorageSuite) TestCancelIfSearchingWrongOwner() {
	s.searchingMatch("m1", "host", 50)

	err := s.storage.CancelIfSearching(s.ctx, "m1", "guest")
	s.ErrorIs(err, model.ErrNotMatchOwner)
}

func (s *StorageSuite) TestCancelIfSearchingAfterJoin() {
	s.searchingMatch("m1", "host", 50)
	_, err := s.storage.ConditionalJoin(s.ctx, "m1", "guest", s.now)
	s.Require().NoError(err)

	err = s.storage.CancelIfSearching(s.ctx, "m1", "host")
	s.ErrorIs(err, model.ErrMatchNotSearching)
}

func (s *StorageSuite) TestDeleteMatchRemovesIndexEntry() {
	s.searchingMatch("m1", "host", 50)

	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "m1"))

	_, err := s.storage.GetMatch(s.ctx, "m1")
	s.ErrorIs(err, model.ErrMatchNotFound)

	members, err := s.client.SMembers(s.ctx, openMatchIndexKey(50)).Result()
	s.Require().NoError(err)
	s.Empty(members)
}
