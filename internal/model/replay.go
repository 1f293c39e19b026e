package model

import "time"

// ReplayEventKind identifies the type of a recorded session event
type ReplayEventKind string

const (
	ReplaySessionStart ReplayEventKind = "session_start"
	ReplaySpawn        ReplayEventKind = "spawn" // a stimulus appeared
	ReplayHit          ReplayEventKind = "hit"   // the player hit a stimulus
)

// ReplayEvent is a single timed gameplay event, relative to session start.
// Only positive actions are recorded; misses carry no timing worth scrutiny.
type ReplayEvent struct {
	Kind     ReplayEventKind `cbor:"1,keyasint" json:"kind"`
	OffsetMs int64           `cbor:"2,keyasint" json:"offset_ms"`
	Data     string          `cbor:"3,keyasint,omitempty" json:"data,omitempty"`
}

// ReplayPayload is the signed portion of a replay snapshot. The struct is
// encoded with deterministic CBOR so the digest is stable across processes.
type ReplayPayload struct {
	SessionID string        `cbor:"1,keyasint" json:"session_id"`
	StartedAt time.Time     `cbor:"2,keyasint" json:"started_at"`
	Events    []ReplayEvent `cbor:"3,keyasint" json:"events"`
}

// ReplaySnapshot is the immutable, signed record of a session's event log.
// It is built once at session end and never mutated after signing.
type ReplaySnapshot struct {
	Payload   ReplayPayload `json:"payload"`
	Signature []byte        `json:"signature"`
}
