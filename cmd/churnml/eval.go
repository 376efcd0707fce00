package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/churn"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/report"
)

type evalOptions struct {
	data   string
	target string
	model  string
	plot   string
}

func newEvalCmd(g *globalOptions) *cobra.Command {
	o := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score a saved model on a labelled table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "CSV file with a header row")
	f.StringVar(&o.target, "target", "", "target column (default: detect Churn/churn)")
	f.StringVar(&o.model, "model", "", "bundle path (default: config model_path)")
	f.StringVar(&o.plot, "plot", "", "write the ROC curve to this image file (.png, .svg, .pdf)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runEval(g *globalOptions, o *evalOptions) error {
	modelPath := g.modelPath(o.model)
	df, err := churn.LoadTable(o.data, modelPath)
	if err != nil {
		return err
	}
	target, err := resolveTarget(df, o.target, g.cfg.Train.Targets)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Evaluating " + modelPath)
	ev, err := churn.EvaluateDetailed(df, target, modelPath)
	if err != nil {
		return err
	}
	if err := printReport(ev.Report); err != nil {
		return err
	}

	roc, err := ev.ROC()
	if err != nil {
		pterm.Warning.Printfln("ROC curve unavailable: %v", err)
		return nil
	}
	pterm.Info.Printfln("ROC AUC %.4f", roc.AUC)
	if o.plot != "" {
		if err := report.SaveROCPlot(roc, o.plot); err != nil {
			return err
		}
		pterm.Success.Printfln("ROC curve written to %s", o.plot)
	}
	return nil
}
