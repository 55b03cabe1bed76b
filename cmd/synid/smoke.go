package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSmokeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Derive the program PDAs for a fresh wallet and query its balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			ownerFlag, _ := cmd.Flags().GetString("owner")

			owner := solana.NewWallet().PublicKey()
			if ownerFlag != "" {
				pk, err := solana.PublicKeyFromBase58(ownerFlag)
				if err != nil {
					return errors.Wrap(err, "--owner")
				}
				owner = pk
			}

			client, closeFn, err := a.openClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			report, err := client.DerivationReport(ctx, owner)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(report)
			}

			fmt.Println("=== SynID PDA Smoke Run ===")
			fmt.Printf("Program ID:     %s\n", client.ProgramID())
			fmt.Printf("Wallet:         %s\n", report.Owner)
			fmt.Printf("Config PDA:     %s (bump %d)\n", report.Config.Address, report.Config.Bump)
			fmt.Printf("SynID PDA:      %s (bump %d)\n", report.Synid.Address, report.Synid.Bump)
			fmt.Printf("Mint authority: %s (bump %d)\n", report.MintAuthority.Address, report.MintAuthority.Bump)
			fmt.Printf("Escrow PDA:     %s (bump %d)\n", report.Escrow.Address, report.Escrow.Bump)
			fmt.Printf("Balance:        %s SOL\n", report.SOL)
			return nil
		},
	}
	cmd.Flags().String("owner", "", "derive for this wallet instead of a fresh one")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}
