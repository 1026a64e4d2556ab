// Package cvgrid selects hyperparameters for linear models by repeated
// k-fold cross-validation over a grid.
//
// The pieces are usable on their own:
//
//   - partition splits sample indices into k near-equal folds from a seed.
//   - dataset holds records with numeric and categorical predictors and
//     encodes them into a design matrix.
//   - tune runs the grid search: every grid point is trained on each
//     fold's complement, its held-out predictions are pooled across folds,
//     and the pooled vector is scored once per replicate.
//   - linear provides OLS, Ridge, Lasso and Logistic learners for tune.
//   - report prints a score table and draws a score chart.
//
// # Quick Start
//
//	ds, err := dataset.LoadCSVFile("housing.csv", dataset.CSVOptions{Outcome: "price"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	grid := tune.Grid{{Name: "alpha", Values: []float64{0.01, 0.1, 1, 10}}}
//	res, err := tune.Tune(ctx, ds, grid, linear.RidgeLearner(),
//	    tune.WithFolds(5),
//	    tune.WithReplicates(3),
//	    tune.WithSeed(42),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("best:", res.Best)
//
// The cvgrid command wraps the same flow behind an HCL run file; see
// cmd/cvgrid and examples/housing.
package cvgrid
