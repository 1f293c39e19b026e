package model

import "time"

// MatchID uniquely identifies a wagered match
type MatchID string

// MatchStatus represents the lifecycle phase of a match
type MatchStatus string

const (
	MatchStatusSearching MatchStatus = "searching" // created, waiting for an opponent
	MatchStatusActive    MatchStatus = "active"    // both sides playing
	MatchStatusFinished  MatchStatus = "finished"  // both scores in, winner decided
)

// MatchSide identifies which score field a participant owns
type MatchSide string

const (
	SideHost  MatchSide = "host"
	SideGuest MatchSide = "guest"
)

// Match is the shared record of a head-to-head wagered match.
//
// The record is jointly owned by both participants through the store; the
// only write discipline keeping the two sides from clobbering each other is
// that each side writes its own score field and nothing else. GuestID is
// empty until an opponent joins.
type Match struct {
	ID    MatchID
	Wager Money

	HostID  PlayerID
	GuestID PlayerID

	Status     MatchStatus
	HostScore  *int64
	GuestScore *int64
	Winner     PlayerID // set at settlement; empty on a draw

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsParticipant reports whether the player is one of the two sides.
func (m *Match) IsParticipant(id PlayerID) bool {
	return id == m.HostID || (m.GuestID != "" && id == m.GuestID)
}

// SideOf returns which score field the player owns.
func (m *Match) SideOf(id PlayerID) (MatchSide, bool) {
	switch id {
	case m.HostID:
		return SideHost, true
	case m.GuestID:
		if m.GuestID != "" {
			return SideGuest, true
		}
	}
	return "", false
}

// ScoreOf returns the reported score for a side, or nil if not yet reported.
func (m *Match) ScoreOf(side MatchSide) *int64 {
	if side == SideHost {
		return m.HostScore
	}
	return m.GuestScore
}

// BothReported reports whether both sides have submitted a score.
func (m *Match) BothReported() bool {
	return m.HostScore != nil && m.GuestScore != nil
}

// Opponent returns the other participant's ID.
func (m *Match) Opponent(id PlayerID) PlayerID {
	if id == m.HostID {
		return m.GuestID
	}
	return m.HostID
}

// Clone returns a deep copy of the match record.
func (m *Match) Clone() *Match {
	c := *m
	if m.HostScore != nil {
		v := *m.HostScore
		c.HostScore = &v
	}
	if m.GuestScore != nil {
		v := *m.GuestScore
		c.GuestScore = &v
	}
	return &c
}
