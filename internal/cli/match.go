package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillduel/skillduel/internal/dependencies/clock"
	"github.com/skillduel/skillduel/internal/dependencies/random"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/replay"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Wagered match commands",
	}

	cmd.AddCommand(newMatchEnterCmd())
	cmd.AddCommand(newMatchShowCmd())
	cmd.AddCommand(newMatchPlayCmd())
	cmd.AddCommand(newMatchCancelCmd())

	return cmd
}

func newMatchEnterCmd() *cobra.Command {
	var wager string

	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Escrow a wager and search for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if wager == "" {
				return fmt.Errorf("--wager is required")
			}

			req := map[string]string{"wager": wager}
			var result Match

			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&wager, "wager", "", "Wager as a decimal string, e.g. 0.50 (required)")
	_ = cmd.MarkFlagRequired("wager")

	return cmd
}

func newMatchShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match

			if err := client.Get("/api/v1/matches/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchPlayCmd() *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play a reaction session and report the score",
		Long: `Play a simulated reaction session for an active match.

Each round spawns a target and hits it after a short human-scale delay,
recording every event into the session log. At the end the log is signed
into a replay snapshot and submitted alongside the score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID := args[0]
			if rounds <= 0 {
				return fmt.Errorf("--rounds must be positive")
			}

			score, snapshot, err := playSession(rounds)
			if err != nil {
				return err
			}

			if cfg.Verbose {
				fmt.Printf("session %s: %d rounds, score %d\n",
					snapshot.Payload.SessionID, rounds, score)
			}

			req := struct {
				Score    int64                 `json:"score"`
				Snapshot *model.ReplaySnapshot `json:"snapshot"`
			}{
				Score:    score,
				Snapshot: snapshot,
			}

			var result Match
			if err := client.Post("/api/v1/matches/"+matchID+"/score", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 5, "Number of reaction rounds to play")

	return cmd
}

// playSession runs a timed session through the replay recorder and returns
// the total score with the signed snapshot backing it.
func playSession(rounds int) (int64, *model.ReplaySnapshot, error) {
	clk := clock.New()
	rnd := random.New()
	recorder := replay.NewRecorder(clk, rnd)
	recorder.Start()

	var score int64
	for i := 0; i < rounds; i++ {
		recorder.Log(model.ReplaySpawn, fmt.Sprintf("target-%d", i))

		// Human-scale reaction delay
		reaction := time.Duration(200+rnd.Intn(250)) * time.Millisecond
		time.Sleep(reaction)

		recorder.Log(model.ReplayHit, fmt.Sprintf("target-%d", i))

		// Faster hits score higher
		points := int64(100)
		if bonus := 500 - reaction.Milliseconds(); bonus > 0 {
			points += bonus
		}
		score += points
	}

	snapshot, err := recorder.Snapshot()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return score, snapshot, nil
}

func newMatchCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a searching match and refund the wager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/matches/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("match cancelled, wager refunded")
			return nil
		},
	}
}
