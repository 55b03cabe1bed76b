package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"synid/solprogram"
)

func newUpdateConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Change mint price, access fee or the pause flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update solprogram.UpdateConfigArgs
			if cmd.Flags().Changed("mint-price") {
				price, err := solFlag(cmd, "mint-price")
				if err != nil {
					return err
				}
				update.MintPrice = &price
			}
			if cmd.Flags().Changed("access-fee") {
				fee, err := solFlag(cmd, "access-fee")
				if err != nil {
					return err
				}
				update.AccessFee = &fee
			}
			if cmd.Flags().Changed("paused") {
				paused, _ := cmd.Flags().GetBool("paused")
				update.Paused = &paused
			}
			if update.IsEmpty() {
				return errors.New("nothing to update, set --mint-price, --access-fee or --paused")
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

			result, err := client.UpdateConfig(ctx, key, update, dryRun)
			if err != nil {
				return err
			}
			printTransactionResult("Config updated", result)
			return nil
		},
	}
	cmd.Flags().String("mint-price", "", "new mint price in SOL")
	cmd.Flags().String("access-fee", "", "new access fee in SOL")
	cmd.Flags().Bool("paused", false, "pause or resume minting")
	cmd.Flags().Bool("dry-run", false, "sign but print the transaction instead of sending it")
	return cmd
}

func printTransactionResult(title string, result *solprogram.TransactionResult) {
	if result.SignedTransaction != "" {
		fmt.Println("📝 Dry run, signed transaction (base64):")
		fmt.Println(result.SignedTransaction)
		return
	}
	fmt.Printf("✅ %s: %s\n", title, result.Signature)
	fmt.Printf("   Explorer: %s\n", result.ExplorerURL)
}
