// Package commands wires the splitbook CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/splitbook/splitbook/internal/bookfile"
	"github.com/splitbook/splitbook/internal/buildinfo"
	"github.com/splitbook/splitbook/internal/ledger"
)

// NewRootCommand creates the root CLI command. Running it starts the
// interactive ledger prompt.
func NewRootCommand() *cobra.Command {
	var loadPath string

	rootCmd := &cobra.Command{
		Use:     "splitbook",
		Short:   "Shared-expense ledger with debt settlement",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			book := ledger.NewBook()
			if loadPath != "" {
				if err := bookfile.Load(loadPath, book); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded from %s\n", loadPath)
			}
			return runPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), book)
		},
	}

	rootCmd.Flags().StringVar(&loadPath, "load", "", "book file to load on startup")

	return rootCmd
}
