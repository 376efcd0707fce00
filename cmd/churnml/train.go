package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/churn"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/data"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/report"
)

type trainOptions struct {
	data        string
	target      string
	out         string
	testSize    float64
	randomState int64
	catFeatures []string
	numFeatures []string
	maxIter     int
	c           float64
	noProgress  bool
}

func newTrainCmd(g *globalOptions) *cobra.Command {
	o := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a churn model and save it as a bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "CSV file with a header row")
	f.StringVar(&o.target, "target", "", "target column (default: detect Churn/churn)")
	f.StringVar(&o.out, "out", "", "bundle output path (default: config model_path)")
	f.Float64Var(&o.testSize, "test-size", churn.DefaultTestSize, "fraction of rows held out for scoring")
	f.Int64Var(&o.randomState, "random-state", churn.DefaultRandomState, "seed of the stratified split")
	f.StringSliceVar(&o.catFeatures, "cat-features", nil, "categorical columns (default: text columns)")
	f.StringSliceVar(&o.numFeatures, "num-features", nil, "numeric columns (default: int, float and bool columns)")
	f.IntVar(&o.maxIter, "max-iter", model.DefaultMaxIter, "maximum gradient descent iterations")
	f.Float64Var(&o.c, "C", model.DefaultC, "inverse L2 regularization strength")
	f.BoolVar(&o.noProgress, "no-progress", false, "hide the training progress bar")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// trainConfig merges flags over the config file: a flag wins when set explicitly.
func (o *trainOptions) trainConfig(cmd *cobra.Command, g *globalOptions, target string) churn.TrainConfig {
	f := cmd.Flags()
	cfg := churn.TrainConfig{
		Target:      target,
		TestSize:    g.cfg.Train.TestSize,
		RandomState: g.cfg.Train.Seed(),
		MaxIter:     g.cfg.Train.MaxIter,
		C:           g.cfg.Train.C,
	}
	if f.Changed("test-size") {
		cfg.TestSize = o.testSize
	}
	if f.Changed("random-state") {
		cfg.RandomState = o.randomState
	}
	if f.Changed("max-iter") || cfg.MaxIter == 0 {
		cfg.MaxIter = o.maxIter
	}
	if f.Changed("C") || cfg.C == 0 {
		cfg.C = o.c
	}
	if f.Changed("cat-features") {
		cfg.CatFeatures = o.catFeatures
	}
	if f.Changed("num-features") {
		cfg.NumFeatures = o.numFeatures
	}
	return cfg
}

func runTrain(cmd *cobra.Command, g *globalOptions, o *trainOptions) error {
	df, err := data.Load(o.data)
	if err != nil {
		return err
	}
	target, err := resolveTarget(df, o.target, g.cfg.Train.Targets)
	if err != nil {
		return err
	}
	cfg := o.trainConfig(cmd, g, target)
	out := g.modelPath(o.out)

	pterm.DefaultSection.Println("Training")
	pterm.Info.Printfln("target %s, %s rows x %d columns, test size %g, seed %d",
		target, humanize.Comma(int64(df.Nrow())), df.Ncol(), cfg.TestSize, cfg.RandomState)

	var bar *progressbar.ProgressBar
	if !o.noProgress {
		bar = progressbar.NewOptions(cfg.MaxIter,
			progressbar.OptionSetDescription("fitting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("iters"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionClearOnFinish(),
		)
		cfg.Progress = func(iter int, loss float64) {
			bar.Describe(fmt.Sprintf("fitting (loss %.4f)", loss))
			_ = bar.Set(iter)
		}
	}
	res, err := churn.Train(df, cfg, out)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	clf := res.Pipeline.Classifier
	if clf.Converged {
		pterm.Info.Printfln("converged after %d iterations", clf.NIter)
	} else {
		pterm.Warning.Printfln("stopped at max-iter %d without converging", clf.NIter)
	}
	pterm.DefaultSection.Println(fmt.Sprintf("Held-out report (%d train / %d test rows)", res.TrainRows, res.TestRows))
	if err := printReport(res.Report); err != nil {
		return err
	}
	if roc, err := report.NewROCCurve(res.TestLabels, res.TestProba); err == nil {
		pterm.Info.Printfln("ROC AUC %.4f", roc.AUC)
	}

	size := ""
	if st, err := os.Stat(res.BundlePath); err == nil {
		size = ", " + humanize.Bytes(uint64(st.Size()))
	}
	pterm.Success.Printfln("model %s saved to %s%s", res.BundleID, res.BundlePath, size)
	return nil
}
