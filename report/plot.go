package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// PlotComparison renders the summary as a bar chart of mean scores and
// writes it to path (format chosen by extension, e.g. ".png").
func PlotComparison(s Summary, path string) error {
	if len(s.Rows) == 0 {
		return errors.NewValueError("PlotComparison", "empty summary")
	}

	p := plot.New()
	p.Title.Text = "Cross-validated " + s.Metric + " by model"
	p.Y.Label.Text = s.Metric
	p.Y.Min = 0
	p.Y.Max = 1

	values := make(plotter.Values, len(s.Rows))
	names := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		values[i] = r.Mean
		names[i] = r.ID
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "PlotComparison")
	}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "PlotComparison")
	}
	return nil
}
