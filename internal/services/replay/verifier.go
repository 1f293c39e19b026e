package replay

import (
	"log/slog"

	"github.com/skillduel/skillduel/internal/model"
)

const (
	// minHumanReactionMs is the floor below which a spawn-to-hit reaction
	// is considered machine-assisted.
	minHumanReactionMs = 150

	// fastHitTolerance is how many sub-threshold reactions a session may
	// contain before it is flagged as automated play. Lucky anticipation
	// happens; a pattern of it does not.
	fastHitTolerance = 3
)

// Verifier re-validates signed replay snapshots.
//
// Verification is two-layered: the digest check detects any mutation of the
// payload after signing, and the timing heuristic flags logs whose
// spawn-to-hit reactions are too fast to be human. Passing both only means
// the log is internally consistent; a client that fabricates an entire
// plausible log from scratch is out of scope for this check.
type Verifier struct {
	logger *slog.Logger
}

// NewVerifier creates a Verifier
func NewVerifier(logger *slog.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// Verify checks the snapshot's signature and timing heuristics. A nil
// return means the snapshot is accepted. ErrSignatureMismatch and
// ErrSuspiciousTiming are both terminal for the session's score: the
// caller must discard it and must not proceed to settlement.
func (v *Verifier) Verify(snapshot *model.ReplaySnapshot) error {
	ok, err := signatureMatches(snapshot)
	if err != nil {
		return err
	}
	if !ok {
		v.logger.Warn("replay signature mismatch",
			slog.String("session_id", snapshot.Payload.SessionID),
		)
		return model.ErrSignatureMismatch
	}

	if fast := countFastHits(snapshot.Payload.Events); fast > fastHitTolerance {
		v.logger.Warn("replay flagged as automated play",
			slog.String("session_id", snapshot.Payload.SessionID),
			slog.Int("fast_hits", fast),
		)
		return model.ErrSuspiciousTiming
	}

	return nil
}

// countFastHits pairs each hit with the most recent preceding spawn and
// counts implied reaction times under the human floor. Hits with no
// preceding spawn are ignored; they imply a malformed log, not speed.
func countFastHits(events []model.ReplayEvent) int {
	fast := 0
	lastSpawn := int64(-1)

	for _, ev := range events {
		switch ev.Kind {
		case model.ReplaySpawn:
			lastSpawn = ev.OffsetMs
		case model.ReplayHit:
			if lastSpawn >= 0 && ev.OffsetMs-lastSpawn < minHumanReactionMs {
				fast++
			}
		}
	}

	return fast
}
