package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkotenko/budgetbot/core/buildinfo"
)

// NewVersionCommand builds the command that prints build information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("budgetbot %s (commit %s, built %s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	}
}
