package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teamgen/core/balance/history"
)

func newHistoryCmd(load configLoader) *cobra.Command {
	var (
		q      history.Query
		since  time.Duration
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored generations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled (backend %q)", cfg.History.Backend)
			}
			defer func() { _ = store.Close() }()

			if since > 0 {
				q.Start = time.Now().Add(-since)
			}
			recs, err := store.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, r := range recs {
					if err := enc.Encode(r); err != nil {
						return err
					}
				}
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOUTCOME\tPLAYERS\tRATING A\tRATING B\tTRIALS\tID")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.1f\t%d\t%s\n",
					r.Timestamp.Local().Format(time.DateTime), r.Outcome, r.Players, r.RatingA, r.RatingB, r.Trials, r.ID)
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.Player, "player", "", "only generations including this player")
	f.StringVar(&q.Outcome, "outcome", "", "only this outcome (accepted, unsatisfiable, configuration_error, cancelled)")
	f.IntVarP(&q.Limit, "limit", "n", 20, "keep the most recent n records (0 for all)")
	f.DurationVar(&since, "since", 0, "only generations newer than this duration, e.g. 168h")
	f.BoolVar(&asJSON, "json", false, "print JSON lines")
	return cmd
}
