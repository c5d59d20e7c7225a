package commands

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Household ledger with always-consistent account balances",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment overrides; ignored when missing")

	rootCmd.AddCommand(
		newServeCommand(&envFile),
		newRecomputeCommand(&envFile),
		newVerifyCommand(&envFile),
		newDumpCommand(&envFile),
	)

	return rootCmd
}
