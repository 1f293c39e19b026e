package model

import "time"

// EventType identifies the type of realtime event on a match channel
type EventType string

const (
	EventMatchJoined   EventType = "match_joined"   // an opponent joined, match is active
	EventScoreReported EventType = "score_reported" // one side submitted its score
	EventMatchSettled  EventType = "match_settled"  // both scores in, winner decided
	EventMatchVoided   EventType = "match_voided"   // search cancelled by its owner
)

// Event is the base structure for realtime match events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	MatchID   MatchID   `json:"match_id"`
	PlayerID  PlayerID  `json:"player_id,omitempty"` // the player who triggered it
	Payload   any       `json:"payload,omitempty"`
}

// MatchJoinedPayload contains data for match joined events
type MatchJoinedPayload struct {
	GuestID PlayerID `json:"guest_id"`
}

// ScoreReportedPayload contains data for score reported events.
// Only the reporting side's score is included; the opponent's score stays
// hidden until settlement so a live display cannot leak it early.
type ScoreReportedPayload struct {
	Side  MatchSide `json:"side"`
	Score int64     `json:"score"`
}

// MatchSettledPayload contains data for match settled events
type MatchSettledPayload struct {
	Winner     PlayerID `json:"winner"` // empty on a draw
	HostScore  int64    `json:"host_score"`
	GuestScore int64    `json:"guest_score"`
	Prize      Money    `json:"prize"`
}
