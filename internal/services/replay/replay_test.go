package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/skillduel/skillduel/internal/dependencies/mocks"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/testutil"
)

type ReplaySuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	recorder *Recorder
	verifier *Verifier
}

func TestReplaySuite(t *testing.T) {
	suite.Run(t, new(ReplaySuite))
}

func (s *ReplaySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.recorder = NewRecorder(s.clock, s.random)
	s.verifier = NewVerifier(testutil.NopLogger())
}

// playRound logs a spawn followed by a hit after the given reaction delay.
func (s *ReplaySuite) playRound(reaction time.Duration) {
	s.clock.Advance(500 * time.Millisecond)
	s.recorder.Log(model.ReplaySpawn, "target")
	s.clock.Advance(reaction)
	s.recorder.Log(model.ReplayHit, "target")
}

// Recorder tests

func (s *ReplaySuite) TestStartLogsSessionStartFirst() {
	s.recorder.Start()
	s.clock.Advance(time.Second)
	s.recorder.Log(model.ReplaySpawn, "t1")

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	s.Require().Len(snapshot.Payload.Events, 2)
	s.Equal(model.ReplaySessionStart, snapshot.Payload.Events[0].Kind)
	s.Equal(int64(0), snapshot.Payload.Events[0].OffsetMs)
	s.Equal(int64(1000), snapshot.Payload.Events[1].OffsetMs)
}

func (s *ReplaySuite) TestOffsetsAreRelativeToSessionStart() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)
	s.playRound(250 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	events := snapshot.Payload.Events
	s.Require().Len(events, 5)
	s.Equal(int64(500), events[1].OffsetMs)  // first spawn
	s.Equal(int64(800), events[2].OffsetMs)  // first hit
	s.Equal(int64(1300), events[3].OffsetMs) // second spawn
	s.Equal(int64(1550), events[4].OffsetMs) // second hit
}

func (s *ReplaySuite) TestSnapshotConsumesLog() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)

	first, err := s.recorder.Snapshot()
	s.Require().NoError(err)
	s.Len(first.Payload.Events, 3)

	second, err := s.recorder.Snapshot()
	s.Require().NoError(err)
	s.Empty(second.Payload.Events)
}

func (s *ReplaySuite) TestStartResetsForReuse() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)
	firstID := s.recorder.SessionID()

	s.recorder.Start()
	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	s.NotEqual(firstID, snapshot.Payload.SessionID)
	s.Len(snapshot.Payload.Events, 1) // only session_start
}

// Verifier tests

func (s *ReplaySuite) TestVerifyAcceptsUntamperedSnapshot() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)
	s.playRound(240 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	s.NoError(s.verifier.Verify(snapshot))
}

func (s *ReplaySuite) TestVerifyRejectsTamperedOffset() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	snapshot.Payload.Events[2].OffsetMs -= 100

	s.ErrorIs(s.verifier.Verify(snapshot), model.ErrSignatureMismatch)
}

func (s *ReplaySuite) TestVerifyRejectsTamperedData() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	snapshot.Payload.Events[1].Data = "different-target"

	s.ErrorIs(s.verifier.Verify(snapshot), model.ErrSignatureMismatch)
}

func (s *ReplaySuite) TestVerifyRejectsTamperedStartInstant() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	// A sub-second shift must break the signature just like a whole-second one
	snapshot.Payload.StartedAt = snapshot.Payload.StartedAt.Add(400 * time.Millisecond)

	s.ErrorIs(s.verifier.Verify(snapshot), model.ErrSignatureMismatch)
}

func (s *ReplaySuite) TestVerifyRejectsTamperedSessionID() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	snapshot.Payload.SessionID = "rs_forged"

	s.ErrorIs(s.verifier.Verify(snapshot), model.ErrSignatureMismatch)
}

func (s *ReplaySuite) TestVerifyToleratesOccasionalFastHits() {
	s.recorder.Start()
	// Exactly at the tolerance: three lucky anticipations pass
	s.playRound(100 * time.Millisecond)
	s.playRound(90 * time.Millisecond)
	s.playRound(120 * time.Millisecond)
	s.playRound(300 * time.Millisecond)

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	s.NoError(s.verifier.Verify(snapshot))
}

func (s *ReplaySuite) TestVerifyFlagsAutomatedPlay() {
	s.recorder.Start()
	for i := 0; i < 4; i++ {
		s.playRound(50 * time.Millisecond)
	}

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	s.ErrorIs(s.verifier.Verify(snapshot), model.ErrSuspiciousTiming)
}

func (s *ReplaySuite) TestVerifyBoundaryReactionIsHuman() {
	s.recorder.Start()
	// Exactly the floor is not flagged; only strictly-below counts
	for i := 0; i < 6; i++ {
		s.playRound(150 * time.Millisecond)
	}

	snapshot, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	s.NoError(s.verifier.Verify(snapshot))
}

func (s *ReplaySuite) TestSignatureIsDeterministicAcrossRecorders() {
	s.recorder.Start()
	s.playRound(300 * time.Millisecond)
	first, err := s.recorder.Snapshot()
	s.Require().NoError(err)

	// A second recorder producing the identical event log signs identically
	otherClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	otherRecorder := NewRecorder(otherClock, mocks.NewMockRandom())
	otherRecorder.Start()
	otherClock.Advance(500 * time.Millisecond)
	otherRecorder.Log(model.ReplaySpawn, "target")
	otherClock.Advance(300 * time.Millisecond)
	otherRecorder.Log(model.ReplayHit, "target")

	second, err := otherRecorder.Snapshot()
	s.Require().NoError(err)

	s.Equal(first.Signature, second.Signature)
}
