package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions recorded in the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.HistoryDB == "" {
				return errors.New("history is disabled, set --history-db or HISTORY_DB")
			}
			address, _ := cmd.Flags().GetString("address")
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")

			chain, closeFn, err := a.openChain()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.context(cmd)
			defer cancel()

			entries, err := chain.History().ByAddress(ctx, address, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(entries)
			}

			if len(entries) == 0 {
				fmt.Println("No transactions recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-17s %-9s %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Status, e.Signature)
				if e.ErrorMessage != "" {
					fmt.Printf("    error: %s\n", e.ErrorMessage)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("address", "", "only entries signed by or targeting this address")
	cmd.Flags().Int("limit", 10, "max entries")
	cmd.Flags().Bool("json", false, "print entries as JSON")
	return cmd
}
