package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/serve"
)

type serveOptions struct {
	addr  string
	model string
}

func newServeCmd(g *globalOptions) *cobra.Command {
	o := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := serve.Config{
				ModelPath:    g.modelPath(o.model),
				Addr:         g.cfg.Addr,
				ReadTimeout:  g.cfg.ReadTimeout(),
				WriteTimeout: g.cfg.WriteTimeout(),
			}
			if o.addr != "" {
				cfg.Addr = o.addr
			}
			s, err := serve.Open(cfg)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("serving model %s on %s", s.ModelID(), cfg.Addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&o.addr, "addr", "", "listen address (default: config addr, :8000)")
	cmd.Flags().StringVar(&o.model, "model", "", "bundle path (default: config model_path)")
	return cmd
}
