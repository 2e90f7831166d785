package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diffuse/internal/core"
	"diffuse/internal/diffusion"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the registered update rules and their default coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range core.RuleNames() {
				def := diffusion.DefaultConfig(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s default coefficient %g\n", name, def.Coefficient)
			}
			return nil
		},
	}
}
