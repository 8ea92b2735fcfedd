package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teamgen/app"
)

func newRosterCmd(load configLoader) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Parse a roster and list attending players and skipped rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			svc, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			r, err := svc.LoadRoster(cmd.Context(), source)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tRATING\tF\tSIDE\tPOSITIONS")
			for _, p := range r.Players {
				side, female := "-", ""
				if p.FixedSide != nil {
					side = p.FixedSide.String()
				}
				if p.Female {
					female = "F"
				}
				fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\t%s\n", p.Name, p.Rating, female, side, strings.Join(p.Positions, "/"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d attending, %d absent, %d skipped\n", len(r.Players), r.Absent, len(r.Skipped))
			for _, re := range r.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v: %q\n", re, re.Raw)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "roster file or sheet link (default from config)")
	return cmd
}
