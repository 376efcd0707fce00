package main

import (
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/churn"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/stats"
)

type predictOptions struct {
	data  string
	model string
	out   string
	proba bool
}

func newPredictCmd(g *globalOptions) *cobra.Command {
	o := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Label every row of a table with a saved model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "CSV file with a header row")
	f.StringVar(&o.model, "model", "", "bundle path (default: config model_path)")
	f.StringVar(&o.out, "out", "predictions.csv", "output CSV path")
	f.BoolVar(&o.proba, "proba", false, "also write the positive-class probability")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runPredict(g *globalOptions, o *predictOptions) error {
	modelPath := g.modelPath(o.model)
	df, err := churn.LoadTable(o.data, modelPath)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Predicting with " + modelPath)
	proba, err := churn.PredictProba(df, modelPath)
	if err != nil {
		return err
	}
	labels := model.BinaryPredFromProba(proba, 0.5)
	if err := writePredictions(o.out, labels, proba, o.proba); err != nil {
		return err
	}
	churners := 0
	for _, l := range labels {
		churners += l
	}
	pterm.Info.Printfln("%d of %d rows predicted to churn, mean probability %.3f", churners, len(labels), stats.Mean(proba))
	pterm.Success.Printfln("%d predictions written to %s", len(proba), o.out)
	return nil
}

// writePredictions writes one row per prediction under a "prediction" header,
// plus a "probability" column when withProba is set.
func writePredictions(path string, labels []int, proba []float64, withProba bool) error {
	cols := []series.Series{series.New(labels, series.Int, "prediction")}
	if withProba {
		cols = append(cols, series.New(proba, series.Float, "probability"))
	}
	out := dataframe.New(cols...)
	if out.Err != nil {
		return errors.Wrap(out.Err, "build predictions table")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := out.WriteCSV(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
