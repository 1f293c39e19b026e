package response

import (
	"time"

	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/auth"
	"github.com/skillduel/skillduel/internal/services/match"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Wallet represents a player's balance. Amounts are decimal strings.
type Wallet struct {
	PlayerID  string    `json:"player_id"`
	Cash      string    `json:"cash"`
	Bonus     string    `json:"bonus"`
	Total     string    `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletFromModel converts model.Wallet
func WalletFromModel(w *model.Wallet) Wallet {
	return Wallet{
		PlayerID:  string(w.PlayerID),
		Cash:      w.Cash.String(),
		Bonus:     w.Bonus.String(),
		Total:     w.Total().String(),
		UpdatedAt: w.UpdatedAt,
	}
}

// Match represents a match in API responses.
//
// Reported scores are withheld until the match is finished so neither
// participant can see the opponent's result before committing their own.
type Match struct {
	ID            string    `json:"id"`
	Wager         string    `json:"wager"`
	Status        string    `json:"status"`
	HostID        string    `json:"host_id"`
	GuestID       *string   `json:"guest_id"`
	HostReported  bool      `json:"host_reported"`
	GuestReported bool      `json:"guest_reported"`
	HostScore     *int64    `json:"host_score,omitempty"`
	GuestScore    *int64    `json:"guest_score,omitempty"`
	Winner        *string   `json:"winner,omitempty"`
	Prize         *string   `json:"prize,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MatchFromModel converts model.Match
func MatchFromModel(m *model.Match) Match {
	resp := Match{
		ID:            string(m.ID),
		Wager:         m.Wager.String(),
		Status:        string(m.Status),
		HostID:        string(m.HostID),
		HostReported:  m.HostScore != nil,
		GuestReported: m.GuestScore != nil,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	if m.GuestID != "" {
		g := string(m.GuestID)
		resp.GuestID = &g
	}

	if m.Status == model.MatchStatusFinished {
		resp.HostScore = m.HostScore
		resp.GuestScore = m.GuestScore
		if m.Winner != "" {
			w := string(m.Winner)
			resp.Winner = &w
			p := match.Prize(m.Wager).String()
			resp.Prize = &p
		}
	}

	return resp
}
