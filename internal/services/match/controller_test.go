package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/skillduel/skillduel/internal/dependencies/mocks"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/ledger"
	"github.com/skillduel/skillduel/internal/services/replay"
	"github.com/skillduel/skillduel/internal/storage/memory"
	"github.com/skillduel/skillduel/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	ledger     *ledger.Service
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.ledger = ledger.New(s.storage, nil, s.clock, ledger.DefaultConfig(), logger)
	verifier := replay.NewVerifier(logger)
	s.controller = NewController(s.storage, s.ledger, verifier, s.clock, s.random, logger)
	s.ctx = context.Background()
}

// fund gives the player a cash balance via a deposit.
func (s *ControllerSuite) fund(playerID model.PlayerID, cash model.Money) {
	_, err := s.ledger.Deposit(s.ctx, playerID, cash)
	s.Require().NoError(err)
}

// validSnapshot records a legitimate session and returns its snapshot.
func (s *ControllerSuite) validSnapshot() *model.ReplaySnapshot {
	clk := mocks.NewMockClock(s.clock.Now())
	recorder := replay.NewRecorder(clk, mocks.NewMockRandom())
	recorder.Start()
	for i := 0; i < 3; i++ {
		clk.Advance(500 * time.Millisecond)
		recorder.Log(model.ReplaySpawn, "target")
		clk.Advance(300 * time.Millisecond)
		recorder.Log(model.ReplayHit, "target")
	}
	snapshot, err := recorder.Snapshot()
	s.Require().NoError(err)
	return snapshot
}

// botSnapshot records a session with inhumanly fast reactions.
func (s *ControllerSuite) botSnapshot() *model.ReplaySnapshot {
	clk := mocks.NewMockClock(s.clock.Now())
	recorder := replay.NewRecorder(clk, mocks.NewMockRandom())
	recorder.Start()
	for i := 0; i < 5; i++ {
		clk.Advance(500 * time.Millisecond)
		recorder.Log(model.ReplaySpawn, "target")
		clk.Advance(20 * time.Millisecond)
		recorder.Log(model.ReplayHit, "target")
	}
	snapshot, err := recorder.Snapshot()
	s.Require().NoError(err)
	return snapshot
}

// activeMatch sets up a funded two-player active match at the given wager.
func (s *ControllerSuite) activeMatch(wager model.Money) *model.Match {
	s.fund("host", 1000)
	s.fund("guest", 1000)

	created, err := s.controller.Enter(s.ctx, "host", wager)
	s.Require().NoError(err)

	joined, err := s.controller.Enter(s.ctx, "guest", wager)
	s.Require().NoError(err)
	s.Require().Equal(created.ID, joined.ID)
	s.Require().Equal(model.MatchStatusActive, joined.Status)

	return joined
}

// Enter tests

func (s *ControllerSuite) TestEnterCreatesSearchingMatch() {
	s.fund("host", 1000)

	m, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	s.Equal(model.MatchStatusSearching, m.Status)
	s.Equal(model.PlayerID("host"), m.HostID)
	s.Empty(m.GuestID)
	s.Equal(model.Money(50), m.Wager)
}

func (s *ControllerSuite) TestEnterEscrowsWagerUpFront() {
	s.fund("host", 1000)
	// Cash 1000, Bonus 200 (signup 100 + deposit match 100)

	_, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	wallet, err := s.ledger.GetBalance(s.ctx, "host")
	s.Require().NoError(err)
	s.Equal(model.Money(950), wallet.Cash)
	s.Equal(model.Money(200), wallet.Bonus)
}

func (s *ControllerSuite) TestEnterInsufficientFundsCreatesNothing() {
	// Fresh wallet holds only the 1.00 signup bonus
	_, err := s.controller.Enter(s.ctx, "host", 500)
	s.ErrorIs(err, model.ErrInsufficientFunds)

	open, err := s.storage.FindOpenMatch(s.ctx, 500, "")
	s.Require().NoError(err)
	s.Nil(open)
}

func (s *ControllerSuite) TestEnterJoinsOpenMatchAtSameWager() {
	s.fund("host", 1000)
	s.fund("guest", 1000)

	created, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	joined, err := s.controller.Enter(s.ctx, "guest", 50)
	s.Require().NoError(err)

	s.Equal(created.ID, joined.ID)
	s.Equal(model.MatchStatusActive, joined.Status)
	s.Equal(model.PlayerID("guest"), joined.GuestID)
}

func (s *ControllerSuite) TestEnterIgnoresOpenMatchAtDifferentWager() {
	s.fund("host", 1000)
	s.fund("guest", 1000)

	created, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	other, err := s.controller.Enter(s.ctx, "guest", 75)
	s.Require().NoError(err)

	s.NotEqual(created.ID, other.ID)
	s.Equal(model.MatchStatusSearching, other.Status)
}

func (s *ControllerSuite) TestEnterNeverJoinsOwnMatch() {
	s.fund("host", 1000)

	first, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	second, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.Equal(model.MatchStatusSearching, second.Status)
}

func (s *ControllerSuite) TestEnterRejectsNonPositiveWager() {
	_, err := s.controller.Enter(s.ctx, "host", 0)
	s.ErrorIs(err, model.ErrInvalidAmount)
}

// Report tests

func (s *ControllerSuite) TestReportBeforeOpponentJoinsFails() {
	s.fund("host", 1000)
	m, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	_, err = s.controller.Report(s.ctx, m.ID, "host", 1000, s.validSnapshot())
	s.ErrorIs(err, model.ErrMatchNotActive)
}

func (s *ControllerSuite) TestReportByNonParticipantFails() {
	m := s.activeMatch(50)

	_, err := s.controller.Report(s.ctx, m.ID, "stranger", 1000, s.validSnapshot())
	s.ErrorIs(err, model.ErrNotParticipant)
}

func (s *ControllerSuite) TestFirstReportLeavesMatchActive() {
	m := s.activeMatch(50)

	updated, err := s.controller.Report(s.ctx, m.ID, "host", 1000, s.validSnapshot())
	s.Require().NoError(err)

	s.Equal(model.MatchStatusActive, updated.Status)
	s.Require().NotNil(updated.HostScore)
	s.Equal(int64(1000), *updated.HostScore)
	s.Nil(updated.GuestScore)
}

func (s *ControllerSuite) TestSecondReportSettlesAndPaysWinner() {
	m := s.activeMatch(50)

	_, err := s.controller.Report(s.ctx, m.ID, "host", 1000, s.validSnapshot())
	s.Require().NoError(err)

	finished, err := s.controller.Report(s.ctx, m.ID, "guest", 2000, s.validSnapshot())
	s.Require().NoError(err)

	s.Equal(model.MatchStatusFinished, finished.Status)
	s.Equal(model.PlayerID("guest"), finished.Winner)

	// Guest escrowed 0.50 from cash (1000 -> 950) and won 0.90 back
	wallet, err := s.ledger.GetBalance(s.ctx, "guest")
	s.Require().NoError(err)
	s.Equal(model.Money(1040), wallet.Cash)

	// Loser's wager is gone
	loser, err := s.ledger.GetBalance(s.ctx, "host")
	s.Require().NoError(err)
	s.Equal(model.Money(950), loser.Cash)
}

func (s *ControllerSuite) TestPrizeIsWagerTimesMultiplier() {
	s.Equal(model.Money(90), Prize(50))
	s.Equal(model.Money(180), Prize(100))
}

func (s *ControllerSuite) TestDrawFinishesWithoutPayout() {
	m := s.activeMatch(50)

	_, err := s.controller.Report(s.ctx, m.ID, "host", 1500, s.validSnapshot())
	s.Require().NoError(err)

	finished, err := s.controller.Report(s.ctx, m.ID, "guest", 1500, s.validSnapshot())
	s.Require().NoError(err)

	s.Equal(model.MatchStatusFinished, finished.Status)
	s.Empty(finished.Winner)

	// Both escrows retained
	host, _ := s.ledger.GetBalance(s.ctx, "host")
	guest, _ := s.ledger.GetBalance(s.ctx, "guest")
	s.Equal(model.Money(950), host.Cash)
	s.Equal(model.Money(950), guest.Cash)
}

func (s *ControllerSuite) TestDuplicateReportFails() {
	m := s.activeMatch(50)

	_, err := s.controller.Report(s.ctx, m.ID, "host", 1000, s.validSnapshot())
	s.Require().NoError(err)

	_, err = s.controller.Report(s.ctx, m.ID, "host", 9999, s.validSnapshot())
	s.ErrorIs(err, model.ErrScoreAlreadyReported)
}

func (s *ControllerSuite) TestTamperedSnapshotVoidsScore() {
	m := s.activeMatch(50)

	snapshot := s.validSnapshot()
	snapshot.Payload.Events[2].OffsetMs -= 200

	_, err := s.controller.Report(s.ctx, m.ID, "host", 1000, snapshot)
	s.ErrorIs(err, model.ErrSignatureMismatch)

	// Match record untouched, escrowed fee stays spent
	stored, err := s.storage.GetMatch(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Nil(stored.HostScore)

	wallet, _ := s.ledger.GetBalance(s.ctx, "host")
	s.Equal(model.Money(950), wallet.Cash)
}

func (s *ControllerSuite) TestAutomatedPlayVoidsScore() {
	m := s.activeMatch(50)

	_, err := s.controller.Report(s.ctx, m.ID, "host", 99999, s.botSnapshot())
	s.ErrorIs(err, model.ErrSuspiciousTiming)

	stored, err := s.storage.GetMatch(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Nil(stored.HostScore)
}

// CancelSearch tests

func (s *ControllerSuite) TestCancelSearchRefundsWager() {
	s.fund("host", 1000)
	m, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.CancelSearch(s.ctx, m.ID, "host"))

	// Refund lands in cash
	wallet, err := s.ledger.GetBalance(s.ctx, "host")
	s.Require().NoError(err)
	s.Equal(model.Money(1000), wallet.Cash)

	_, err = s.storage.GetMatch(s.ctx, m.ID)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestCancelSearchAfterJoinFails() {
	m := s.activeMatch(50)

	err := s.controller.CancelSearch(s.ctx, m.ID, "host")
	s.ErrorIs(err, model.ErrMatchNotSearching)
}

func (s *ControllerSuite) TestCancelSearchByNonOwnerFails() {
	s.fund("host", 1000)
	m, err := s.controller.Enter(s.ctx, "host", 50)
	s.Require().NoError(err)

	err = s.controller.CancelSearch(s.ctx, m.ID, "stranger")
	s.ErrorIs(err, model.ErrNotMatchOwner)
}
