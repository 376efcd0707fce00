package main

import (
	"flag"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/config"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/data"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/report"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.0.0-dev"

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "churnml",
		Short:         "Train, evaluate and serve customer churn models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg
			if cfg.Path != "" {
				klog.V(1).Infof("using config %s", cfg.Path)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "",
		"YAML config file (default $"+config.EnvConfigPath+" or ./"+config.DefaultConfigPath+")")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		newTrainCmd(g),
		newEvalCmd(g),
		newPredictCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)
	return root
}

// resolveTarget picks the explicit target or detects one among the configured
// candidates, falling back to data.DefaultTargets.
func resolveTarget(df dataframe.DataFrame, target string, candidates []string) (string, error) {
	if target != "" {
		if !data.HasColumn(df, target) {
			return "", errors.Wrapf(data.ErrMissingTarget, "column %q not in data", target)
		}
		return target, nil
	}
	if len(candidates) == 0 {
		candidates = data.DefaultTargets
	}
	found, err := data.DetectTarget(df, candidates)
	if err != nil {
		return "", errors.WithMessage(err, "could not detect target column; pass --target")
	}
	return found, nil
}

// modelPath returns the flag value, or the configured path when the flag is empty.
func (g *globalOptions) modelPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return g.cfg.ModelPath
}

func printReport(rep *report.ClassificationReport) error {
	if err := pterm.DefaultTable.WithHasHeader().WithData(rep.Rows()).Render(); err != nil {
		return err
	}
	c := rep.Confusion
	return pterm.DefaultTable.WithHasHeader().WithData([][]string{
		{"", "pred 0", "pred 1"},
		{"true 0", pterm.Sprint(c[0][0]), pterm.Sprint(c[0][1])},
		{"true 1", pterm.Sprint(c[1][0]), pterm.Sprint(c[1][1])},
	}).Render()
}
