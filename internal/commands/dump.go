package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/homeledger/internal/dump"
)

func newDumpCommand(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export or import the whole ledger",
	}

	cmd.AddCommand(newDumpExportCommand(envFile), newDumpImportCommand(envFile))

	return cmd
}

func newDumpExportCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the ledger to a file, or to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			svc := dump.NewService(a.posting, a.log)

			if len(args) == 0 {
				return svc.Export(cmd.OutOrStdout())
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating dump file: %w", err)
			}

			if err := svc.Export(f); err != nil {
				f.Close()
				return err
			}

			return f.Close()
		},
	}
}

func newDumpImportCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Load a dump into the ledger in one unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()

			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening dump file: %w", err)
				}
				defer f.Close()

				r = f
			}

			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := dump.NewService(a.posting, a.log).Import(cmd.Context(), r)
			if err != nil {
				a.log.Error().Err(err).Msg("dump import failed")
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories, %d currencies, %d contacts, %d accounts, %d transactions\n",
				res.Categories, res.Currencies, res.Contacts, res.Accounts, res.Transactions)

			return nil
		},
	}
}
