package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mixing-service/internal/services"
)

func newCreditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Manage track credits",
	}
	cmd.AddCommand(newCreditGrantCommand())
	return cmd
}

func newCreditGrantCommand() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "grant <username> <credits>",
		Short: "Add credits to a user without a charge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var credits uint
			if _, err := fmt.Sscanf(args[1], "%d", &credits); err != nil || credits == 0 {
				return fmt.Errorf("credits must be a positive number, got %q", args[1])
			}
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()
			user, err := services.NewUserService(rt.db, rt.logger).GetUserByUsername(ctx, args[0])
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			files := services.NewFileService(nil, rt.logger)
			ledger := services.NewLedgerService(rt.db, files, rt.logger, nil)
			purchases := services.NewPurchaseService(rt.db, ledger, nil, rt.cfg.CreditPriceCents, rt.cfg.Currency, rt.logger, nil)
			if _, err := purchases.GrantCredits(ctx, user.ID, credits, note); err != nil {
				return err
			}
			balance, err := ledger.Balance(ctx, user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s credits to %s, balance is now %s\n",
				humanize.Comma(int64(credits)), user.Username, humanize.Comma(int64(balance)))
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "manual grant", "reason stored with the purchase")
	return cmd
}
