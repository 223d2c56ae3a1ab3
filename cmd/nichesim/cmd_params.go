package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"niche-ca/internal/sims/competition"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the parameters of the configured scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			snap := competition.Snapshot(cfg)
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			for _, g := range snap.Groups {
				fmt.Fprintf(out, "%s\n", g.Name)
				for _, p := range g.Params {
					fmt.Fprintf(out, "  %-26s %s\n", p.Key, p.Value)
				}
			}
			return nil
		},
	}
}
