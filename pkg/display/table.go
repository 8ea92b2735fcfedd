package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kilianp07/teamgen/core/balance"
	"github.com/kilianp07/teamgen/core/model"
)

// WriteTable prints both teams side by side with numbered rows followed by
// the rating sum and score of each team.
func WriteTable(w io.Writer, t Theme, res balance.Result, rep balance.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", t.Name(model.SideA), t.Name(model.SideB))
	rows := max(len(res.SideA), len(res.SideB))
	for i := 0; i < rows; i++ {
		fmt.Fprintf(tw, "%s\t%s\n", cell(res.SideA, i), cell(res.SideB, i))
	}
	fmt.Fprintf(tw, "rating %.1f\trating %.1f\n", rep.A.RatingSum, rep.B.RatingSum)
	fmt.Fprintf(tw, "score %+.1f\tscore %+.1f\n", rep.A.Score, rep.B.Score)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "delta %.2f after %d trials\n", rep.Delta, res.Trials)
	return err
}

func cell(team []model.Player, i int) string {
	if i >= len(team) {
		return ""
	}
	return fmt.Sprintf("%d. %s", i+1, team[i].Name)
}
