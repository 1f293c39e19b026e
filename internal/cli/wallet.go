package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet and balance commands",
	}

	cmd.AddCommand(newWalletShowCmd())
	cmd.AddCommand(newWalletDepositCmd())
	cmd.AddCommand(newWalletSyncCmd())

	return cmd
}

func newWalletShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Wallet

			if err := client.Get("/api/v1/wallet", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWalletDepositCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit cash (earns a bonus on top)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount == "" {
				return fmt.Errorf("--amount is required")
			}

			req := map[string]string{"amount": amount}
			var result Wallet

			if err := client.Post("/api/v1/wallet/deposit", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount as a decimal string, e.g. 1.50 (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newWalletSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the authoritative balance from the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Wallet

			if err := client.Post("/api/v1/wallet/sync", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
