package main

import (
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/bundle"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Replaces the root hook: printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			pterm.Printfln("churnml %s (bundle format %d, %s)", Version, bundle.FormatVersion, runtime.Version())
			return nil
		},
	}
}
