package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synid/chainsol"
	"synid/solprogram"
)

func newInitializeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Create the program config account if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mintPrice, err := solFlag(cmd, "mint-price")
			if err != nil {
				return err
			}
			accessFee, err := solFlag(cmd, "access-fee")
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

			fmt.Println("=== SynID Initialize ===")
			fmt.Printf("Program ID: %s\n", client.ProgramID())
			fmt.Printf("Authority:  %s\n", key.PublicKey())

			result, err := client.InitializeConfig(ctx, solprogram.InitializeParams{
				Authority: key,
				MintPrice: mintPrice,
				AccessFee: accessFee,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Config PDA: %s (bump %d)\n\n", result.ConfigPDA, result.Bump)

			switch {
			case result.AlreadyInitialized:
				fmt.Println("✅ Config already initialized")
			case dryRun:
				fmt.Println("📝 Dry run, signed transaction (base64):")
				fmt.Println(result.SignedTransaction)
			default:
				fmt.Printf("✅ Initialized: %s\n", result.Signature)
				fmt.Printf("   Mint price: %s SOL\n", chainsol.FormatSOL(mintPrice))
				fmt.Printf("   Access fee: %s SOL\n", chainsol.FormatSOL(accessFee))
				fmt.Printf("   Explorer:   %s\n", result.ExplorerURL)
			}
			return nil
		},
	}
	cmd.Flags().String("mint-price", chainsol.FormatSOL(solprogram.DefaultMintPrice), "mint price in SOL")
	cmd.Flags().String("access-fee", chainsol.FormatSOL(solprogram.DefaultAccessFee), "access fee in SOL")
	cmd.Flags().Bool("dry-run", false, "sign but print the transaction instead of sending it")
	return cmd
}
