package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/skillduel/skillduel/internal/dependencies/clock"
	"github.com/skillduel/skillduel/internal/model"
)

// Broadcaster pushes match events to SSE clients as JSON payloads
type Broadcaster struct {
	hubManager *HubManager
	clock      clock.Clock
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, clock clock.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		clock:      clock,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastMatchJoined notifies clients that an opponent joined and the match
// is now active
func (b *Broadcaster) BroadcastMatchJoined(match *model.Match) {
	b.send(match.ID, model.Event{
		Type:      model.EventMatchJoined,
		Timestamp: b.clock.Now(),
		MatchID:   match.ID,
		PlayerID:  match.GuestID,
		Payload:   model.MatchJoinedPayload{GuestID: match.GuestID},
	})
}

// BroadcastScoreReported notifies clients that one side has submitted a score
func (b *Broadcaster) BroadcastScoreReported(matchID model.MatchID, playerID model.PlayerID, side model.MatchSide, score int64) {
	b.send(matchID, model.Event{
		Type:      model.EventScoreReported,
		Timestamp: b.clock.Now(),
		MatchID:   matchID,
		PlayerID:  playerID,
		Payload:   model.ScoreReportedPayload{Side: side, Score: score},
	})
}

// BroadcastMatchSettled notifies clients of the final outcome
func (b *Broadcaster) BroadcastMatchSettled(match *model.Match, prize model.Money) {
	var hostScore, guestScore int64
	if match.HostScore != nil {
		hostScore = *match.HostScore
	}
	if match.GuestScore != nil {
		guestScore = *match.GuestScore
	}
	b.send(match.ID, model.Event{
		Type:      model.EventMatchSettled,
		Timestamp: b.clock.Now(),
		MatchID:   match.ID,
		Payload: model.MatchSettledPayload{
			Winner:     match.Winner,
			HostScore:  hostScore,
			GuestScore: guestScore,
			Prize:      prize,
		},
	})
	// No further events on a settled match
	b.hubManager.RemoveHub(match.ID)
}

// BroadcastMatchVoided notifies clients that the match search was cancelled
func (b *Broadcaster) BroadcastMatchVoided(matchID model.MatchID, playerID model.PlayerID) {
	b.send(matchID, model.Event{
		Type:      model.EventMatchVoided,
		Timestamp: b.clock.Now(),
		MatchID:   matchID,
		PlayerID:  playerID,
	})
	b.hubManager.RemoveHub(matchID)
}

func (b *Broadcaster) send(matchID model.MatchID, event model.Event) {
	hub := b.hubManager.GetHub(matchID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("match_id", string(matchID)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}
