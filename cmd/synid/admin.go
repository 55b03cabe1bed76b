package main

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newVerifyIdentityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-identity <owner>",
		Short: "Mark an identity record verified (config authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid owner")
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			key, err := a.keypair()
			if err != nil {
				return err
			}
			client, closeFn, err := a.openClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			result, err := client.VerifyIdentity(ctx, key, owner, dryRun)
			if err != nil {
				return err
			}
			printTransactionResult("Identity verified", result)
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "sign but print the transaction instead of sending it")
	return cmd
}

func newUpdateReputationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-reputation <owner> <delta>",
		Short: "Add a signed delta to an identity's reputation (config authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid owner")
			}
			delta, err := strconv.ParseInt(args[1], 10, 16)
			if err != nil {
				return errors.Wrap(err, "invalid delta")
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			key, err := a.keypair()
			if err != nil {
				return err
			}
			client, closeFn, err := a.openClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			result, err := client.UpdateReputation(ctx, key, owner, int16(delta), dryRun)
			if err != nil {
				return err
			}
			printTransactionResult("Reputation updated", result)
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "sign but print the transaction instead of sending it")
	return cmd
}

func newWithdrawTreasuryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-treasury",
		Short: "Move SOL from the treasury to the authority (config authority only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := solFlag(cmd, "amount")
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			key, err := a.keypair()
			if err != nil {
				return err
			}
			client, closeFn, err := a.openClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			result, err := client.WithdrawTreasury(ctx, key, amount, dryRun)
			if err != nil {
				return err
			}
			printTransactionResult("Withdrawn", result)
			return nil
		},
	}
	cmd.Flags().String("amount", "", "SOL to withdraw")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().Bool("dry-run", false, "sign but print the transaction instead of sending it")
	return cmd
}
