package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"synid/chainsol"
)

func newShowConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Fetch and decode the program config account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			client, closeFn, err := a.openClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			cfg, err := client.GetConfig(ctx)
			if errors.Is(err, chainsol.ErrAccountNotFound) {
				return errors.Wrap(err, "config not initialized, run `synid initialize`")
			}
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cfg)
			}

			configPDA, _, err := client.DeriveConfigPDA()
			if err != nil {
				return err
			}
			fmt.Println("=== SynID Config ===")
			fmt.Printf("Address:       %s\n", configPDA)
			fmt.Printf("Authority:     %s\n", cfg.Authority)
			fmt.Printf("Treasury:      %s\n", cfg.Treasury)
			fmt.Printf("Mint price:    %s SOL (%d lamports)\n", chainsol.FormatSOL(cfg.MintPrice), cfg.MintPrice)
			fmt.Printf("Access fee:    %s SOL (%d lamports)\n", chainsol.FormatSOL(cfg.AccessFee), cfg.AccessFee)
			fmt.Printf("Minted:        %d\n", cfg.MintCount)
			fmt.Printf("Total revenue: %s SOL\n", chainsol.FormatSOL(cfg.TotalRevenue))
			fmt.Printf("Paused:        %t\n", cfg.Paused)
			fmt.Printf("Bump:          %d\n", cfg.Bump)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the config as JSON")
	return cmd
}
