package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteChart renders a bar chart of player ratings per team as a standalone
// HTML page.
func WriteChart(w io.Writer, t Teams) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s vs %s", t.A.Name, t.B.Name),
			Subtitle: fmt.Sprintf("%.1f - %.1f (delta %.2f)", t.A.Rating, t.B.Rating, t.Delta),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Slot"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rating"}),
	)

	slots := max(len(t.A.Players), len(t.B.Players))
	xAxis := make([]string, slots)
	for i := range xAxis {
		xAxis[i] = fmt.Sprintf("#%d", i+1)
	}
	bar.SetXAxis(xAxis).
		AddSeries(t.A.Name, barData(t.A, slots), seriesColor(t.A)...).
		AddSeries(t.B.Name, barData(t.B, slots), seriesColor(t.B)...)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func barData(team Team, slots int) []opts.BarData {
	data := make([]opts.BarData, slots)
	for i := range data {
		if i < len(team.Players) {
			p := team.Players[i]
			data[i] = opts.BarData{Name: p.Name, Value: p.Rating}
		}
	}
	return data
}

func seriesColor(team Team) []charts.SeriesOpts {
	if team.Color == "" {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: team.Color})}
}
