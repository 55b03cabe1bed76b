package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synid/chainsol"
)

func newDeployCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Check the wallet balance and airdrop SOL when it is below the threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := solFlag(cmd, "threshold")
			if err != nil {
				return err
			}
			amount, err := solFlag(cmd, "airdrop")
			if err != nil {
				return err
			}

			key, err := a.keypair()
			if err != nil {
				return err
			}
			chain, closeFn, err := a.openChain()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			wallet := key.PublicKey()
			fmt.Println("=== SynID Deploy ===")
			fmt.Printf("Network: %s\n", chain.Network())
			fmt.Printf("Wallet:  %s\n\n", wallet)

			result, err := chain.EnsureFunded(ctx, wallet, threshold, amount)
			if err != nil {
				if result != nil && result.Airdropped {
					fmt.Printf("⚠️  Airdrop %s not confirmed\n", result.AirdropSig)
					fmt.Printf("   Explorer:  %s\n", result.ExplorerURL)
				}
				return err
			}

			fmt.Printf("💰 Balance: %s SOL\n", chainsol.FormatSOL(result.StartLamports))
			if result.Airdropped {
				fmt.Printf("🪂 Airdropped %s SOL\n", chainsol.FormatSOL(amount))
				fmt.Printf("   Signature: %s\n", result.AirdropSig)
				fmt.Printf("   Explorer:  %s\n", result.ExplorerURL)
				fmt.Printf("💰 New balance: %s SOL\n", chainsol.FormatSOL(result.FinalLamports))
			} else {
				fmt.Println("✅ Balance meets threshold, no airdrop needed")
			}

			fmt.Println("\nNext: build and deploy the program")
			fmt.Printf("   anchor build && anchor deploy --provider.cluster %s\n", chain.Network())
			return nil
		},
	}
	cmd.Flags().String("threshold", chainsol.FormatSOL(chainsol.DefaultFundingThreshold), "airdrop when the balance is below this many SOL")
	cmd.Flags().String("airdrop", chainsol.FormatSOL(chainsol.DefaultAirdropAmount), "SOL to request per airdrop")
	return cmd
}
