// Command plotsense analyzes one or two functions of x the way a graphing
// tool does before drawing them, and can serve the same analysis over HTTP.
//
// Usage:
//
//	plotsense analyze "x^3 - 3x" --detailed --saveplot out.png
//	plotsense analyze "sin(x)" "x/2" --xmin -5 --xmax 5
//	plotsense serve --addr :8080
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/plotsense/analysis"
	"github.com/njchilds90/plotsense/internal/config"
	"github.com/njchilds90/plotsense/internal/logging"
)

// app holds what the subcommands share: global flags, the loaded
// configuration and the logger built in PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "plotsense",
		Short: "Analyze real functions of one variable over an interval",
		Long: `plotsense finds what a graphing tool needs before it draws a function:
roots, discontinuities, asymptotes, extrema and inflection points, trend
changes, parity and, for two functions, their intersections.

Symbolic results are used where they exist; numeric scanning covers the rest.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if cmd.Name() == "serve" {
				a.log, err = logging.Server(a.verbose)
			} else {
				a.log, err = logging.New(a.verbose)
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newAnalyzeCmd(a), newServeCmd(a), newInitConfigCmd(a))
	return root
}

// analyzer validates the effective configuration and builds the Analyzer.
func (a *app) analyzer() (*analysis.Analyzer, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return analysis.New(a.cfg.Analysis, analysis.WithLogger(a.log))
}

func newInitConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config FILE",
		Short: "Write the effective configuration to FILE as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Configuration written: %s\n", args[0])
			return nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
