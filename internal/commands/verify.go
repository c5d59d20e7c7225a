package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errDrift = errors.New("ledger drifted")

func newVerifyCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check stored and cached totals against the transactions",
		Long: "Recomputes every account in memory and compares it with the stored totals, then\n" +
			"compares the cache with the store. Nothing is written; exits non-zero on any drift.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			found, err := a.posting.Verify(cmd.Context())
			if err != nil {
				a.log.Error().Err(err).Msg("verify failed")
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			if len(found) == 0 {
				fmt.Fprintln(out, st.ok("all balances consistent"))
				return nil
			}

			fmt.Fprintln(out, st.driftTable(found))

			return fmt.Errorf("%d discrepancies: %w", len(found), errDrift)
		},
	}
}
