package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRecomputeCommand(envFile *string) *cobra.Command {
	var accounts []string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rewrite stored account totals from their transactions",
		Long: "Rewrites the materialized totals of every account, or only of the accounts\n" +
			"given with --account, and reports how many had drifted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids := make([]uuid.UUID, 0, len(accounts))

			for _, s := range accounts {
				id, err := uuid.Parse(s)
				if err != nil {
					return fmt.Errorf("invalid account id %q: %w", s, err)
				}

				ids = append(ids, id)
			}

			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			var corrected int
			if len(ids) == 0 {
				corrected, err = a.posting.RecomputeAll(cmd.Context())
			} else {
				corrected, err = a.posting.RecomputeBalances(cmd.Context(), ids)
			}

			if err != nil {
				a.log.Error().Err(err).Msg("recompute failed")
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			msg := fmt.Sprintf("corrected %d account(s)", corrected)
			if corrected > 0 {
				msg = st.drift(msg)
			} else {
				msg = st.ok(msg)
			}

			fmt.Fprintln(out, msg)

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&accounts, "account", nil, "account id to recompute (repeatable)")

	return cmd
}
