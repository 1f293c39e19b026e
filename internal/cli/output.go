package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Wallet:
		o.printWallet(v)
	case Match:
		o.printMatch(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Wallet response type
type Wallet struct {
	PlayerID  string    `json:"player_id"`
	Cash      string    `json:"cash"`
	Bonus     string    `json:"bonus"`
	Total     string    `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Match response type
type Match struct {
	ID            string  `json:"id"`
	Wager         string  `json:"wager"`
	Status        string  `json:"status"`
	HostID        string  `json:"host_id"`
	GuestID       *string `json:"guest_id"`
	HostReported  bool    `json:"host_reported"`
	GuestReported bool    `json:"guest_reported"`
	HostScore     *int64  `json:"host_score,omitempty"`
	GuestScore    *int64  `json:"guest_score,omitempty"`
	Winner        *string `json:"winner,omitempty"`
	Prize         *string `json:"prize,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printWallet(w Wallet) {
	fmt.Printf("Cash:  %s\n", w.Cash)
	fmt.Printf("Bonus: %s\n", w.Bonus)
	fmt.Printf("Total: %s\n", w.Total)
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("Status: %s\n", m.Status)
	fmt.Printf("Wager: %s\n", m.Wager)
	fmt.Printf("Host: %s", m.HostID)
	if m.HostReported {
		fmt.Printf(" [reported]")
	}
	fmt.Println()
	if m.GuestID != nil {
		fmt.Printf("Guest: %s", *m.GuestID)
		if m.GuestReported {
			fmt.Printf(" [reported]")
		}
		fmt.Println()
	} else {
		fmt.Println("Guest: (searching)")
	}
	if m.HostScore != nil && m.GuestScore != nil {
		fmt.Printf("Scores: %d - %d\n", *m.HostScore, *m.GuestScore)
	}
	if m.Status == "finished" {
		if m.Winner != nil {
			fmt.Printf("Winner: %s", *m.Winner)
			if m.Prize != nil {
				fmt.Printf(" (prize %s)", *m.Prize)
			}
			fmt.Println()
		} else {
			fmt.Println("Result: draw")
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
