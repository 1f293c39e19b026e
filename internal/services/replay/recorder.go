package replay

import (
	"time"

	"github.com/skillduel/skillduel/internal/dependencies/clock"
	"github.com/skillduel/skillduel/internal/dependencies/random"
	"github.com/skillduel/skillduel/internal/model"
)

// Recorder accumulates one gameplay session's timed event log and turns it
// into a signed, immutable snapshot at session end.
//
// A Recorder is scoped to a single participant session and is not safe for
// concurrent use; gameplay within one participant process is single-threaded.
type Recorder struct {
	clock  clock.Clock
	random random.Random

	sessionID string
	startedAt time.Time
	events    []model.ReplayEvent
}

// NewRecorder creates a Recorder. Call Start before logging.
func NewRecorder(clock clock.Clock, random random.Random) *Recorder {
	return &Recorder{
		clock:  clock,
		random: random,
	}
}

// Start resets the event log and the session start instant, so a Recorder
// can be reused across sessions. A session_start event is always the first
// entry in the log.
func (r *Recorder) Start() {
	r.sessionID = r.random.Token("rs_")
	r.startedAt = r.clock.Now()
	r.events = r.events[:0]
	r.Log(model.ReplaySessionStart, "")
}

// SessionID returns the opaque token for the current session.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Log appends an event stamped with the offset from session start.
// Only positive actions are logged; failures carry no timing worth
// verifying.
func (r *Recorder) Log(kind model.ReplayEventKind, data string) {
	r.events = append(r.events, model.ReplayEvent{
		Kind:     kind,
		OffsetMs: r.clock.Since(r.startedAt).Milliseconds(),
		Data:     data,
	})
}

// Snapshot builds and signs the replay snapshot, consuming the log. The
// snapshot must not be mutated afterwards; any change invalidates the
// signature.
func (r *Recorder) Snapshot() (*model.ReplaySnapshot, error) {
	payload := model.ReplayPayload{
		SessionID: r.sessionID,
		StartedAt: r.startedAt.UTC().Truncate(time.Millisecond),
		Events:    r.events,
	}

	signature, err := signPayload(&payload)
	if err != nil {
		return nil, err
	}

	// The log is consumed exactly once
	r.events = nil

	return &model.ReplaySnapshot{
		Payload:   payload,
		Signature: signature,
	}, nil
}
