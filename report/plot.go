package report

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
	"github.com/YuminosukeSato/cvgrid/tune"
)

// PlotOptions controls the score chart.
type PlotOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

func (o PlotOptions) withDefaults(res *tune.Result) PlotOptions {
	if o.Title == "" {
		o.Title = "Cross-validated " + res.Scorer + " by grid point"
	}
	if o.Width == 0 {
		o.Width = 8 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 5 * vg.Inch
	}
	return o
}

// NewScorePlot builds a chart with one column per grid point: each
// replicate's score as a point and the mean across replicates as a line.
// The best point is highlighted.
func NewScorePlot(res *tune.Result, opts PlotOptions) (*plot.Plot, error) {
	if res == nil || len(res.Points) == 0 {
		return nil, errors.NewValueError("NewScorePlot", "empty result")
	}
	opts = opts.withDefaults(res)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "grid point"
	p.Y.Label.Text = res.Scorer

	replicates, points := res.Scores.Dims()

	reps := make(plotter.XYs, 0, replicates*points)
	for r := 0; r < replicates; r++ {
		for i := 0; i < points; i++ {
			reps = append(reps, plotter.XY{X: float64(i), Y: res.Scores.At(r, i)})
		}
	}
	scatter, err := plotter.NewScatter(reps)
	if err != nil {
		return nil, errors.Wrap(err, "replicate scores")
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add("replicate", scatter)

	means := make(plotter.XYs, points)
	for i := range means {
		means[i] = plotter.XY{X: float64(i), Y: res.Scores.Mean(i)}
	}
	line, linePoints, err := plotter.NewLinePoints(means)
	if err != nil {
		return nil, errors.Wrap(err, "mean scores")
	}
	line.Width = vg.Points(2)
	p.Add(line, linePoints)
	p.Legend.Add("mean", line, linePoints)

	best, err := plotter.NewScatter(plotter.XYs{{X: float64(res.BestIndex), Y: res.BestScore}})
	if err != nil {
		return nil, errors.Wrap(err, "best point")
	}
	best.GlyphStyle.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	best.GlyphStyle.Shape = draw.PyramidGlyph{}
	best.GlyphStyle.Radius = vg.Points(5)
	p.Add(best)
	p.Legend.Add("best", best)

	labels := make([]string, points)
	for i, pt := range res.Points {
		labels[i] = pointLabel(pt)
	}
	p.NominalX(labels...)
	p.Add(plotter.NewGrid())

	return p, nil
}

// PlotScores writes the chart to path. The format follows the extension
// (.png, .svg, .pdf, ...).
func PlotScores(res *tune.Result, path string, opts PlotOptions) error {
	p, err := NewScorePlot(res, opts)
	if err != nil {
		return err
	}
	opts = opts.withDefaults(res)
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
