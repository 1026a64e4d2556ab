// Package report renders tuning results as a text table and a chart.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/cvgrid/tune"
)

// Summary writes one row per grid point with the mean and standard
// deviation of its replicate scores. The best point is marked with "*".
func Summary(w io.Writer, res *tune.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "metric: %s (%s), folds: %d, replicates: %d, seed: %d\n",
		res.Scorer, res.Direction, res.Folds, res.Replicates, res.Seed)
	fmt.Fprintln(tw, "\tpoint\tmean\tstd")
	for p, pt := range res.Points {
		mark := ""
		if p == res.BestIndex {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.6f\t%.6f\n", mark, pointLabel(pt), res.Scores.Mean(p), res.Scores.Std(p))
	}
	fmt.Fprintf(tw, "best: %s (%s = %.6f)\n", pointLabel(res.Best), res.Scorer, res.BestScore)
	return tw.Flush()
}

func pointLabel(p tune.Point) string {
	if len(p) == 0 {
		return "(no parameters)"
	}
	return p.String()
}
