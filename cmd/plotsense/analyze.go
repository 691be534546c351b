package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/plotsense/analysis"
	"github.com/njchilds90/plotsense/internal/config"
	"github.com/njchilds90/plotsense/internal/plot"
	"github.com/njchilds90/plotsense/internal/report"
)

type analyzeFlags struct {
	xmin, xmax float64
	npoints    int
	intervals  int
	export     string
	exportDir  string
	detailed   bool
	savePlot   string
	format     string
	tableRows  int
}

func newAnalyzeCmd(a *app) *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze F [G]",
		Short: "Analyze one function, or two functions and their intersections",
		Long: `Analyze one or two functions of a single variable over [xmin, xmax].

Quote each function, and put -- before functions that start with a minus:
  plotsense analyze "x^2 - 4"
  plotsense analyze --saveplot plots/ -- "sin(x)" "-4*x + 6"

Flags override values from --config.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a.cfg)
			an, err := a.analyzer()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return a.analyzeOne(cmd, an, args[0], f.tableRows)
			}
			return a.analyzeTwo(cmd, an, args[0], args[1])
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.xmin, "xmin", -10, "Lower bound of the interval")
	fl.Float64Var(&f.xmax, "xmax", 10, "Upper bound of the interval")
	fl.IntVar(&f.npoints, "npoints", analysis.DefaultConfig().SamplePoints, "Number of sample points")
	fl.IntVar(&f.intervals, "intervals", analysis.DefaultConfig().SignChangeIntervals, "Sub-intervals of the numeric root scan")
	fl.StringVar(&f.export, "export", config.ExportNone, "Export the samples: csv or none")
	fl.StringVar(&f.exportDir, "export-dir", ".", "Directory for exported files")
	fl.BoolVar(&f.detailed, "detailed", false, "Include derivatives, extrema and inflection points")
	fl.StringVar(&f.savePlot, "saveplot", "", "Save a PNG plot to this file or directory")
	fl.StringVar(&f.format, "format", config.FormatText, "Output format: text or json")
	fl.IntVar(&f.tableRows, "table", 10, "Approximate rows of the value table (0 hides it)")
	return cmd
}

// apply copies the flags the user set over the loaded configuration.
func (f *analyzeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("xmin") {
		cfg.Interval.Min = f.xmin
	}
	if fl.Changed("xmax") {
		cfg.Interval.Max = f.xmax
	}
	if fl.Changed("npoints") {
		cfg.Analysis.SamplePoints = f.npoints
	}
	if fl.Changed("intervals") {
		cfg.Analysis.SignChangeIntervals = f.intervals
	}
	if fl.Changed("export") {
		cfg.Output.Export = f.export
	}
	if fl.Changed("export-dir") {
		cfg.Output.ExportTo = f.exportDir
	}
	if fl.Changed("detailed") {
		cfg.Output.Detailed = f.detailed
	}
	if fl.Changed("saveplot") {
		cfg.Output.PlotPath = f.savePlot
	}
	if fl.Changed("format") {
		cfg.Output.Format = f.format
	}
}

func (a *app) analyzeOne(cmd *cobra.Command, an *analysis.Analyzer, input string, rows int) error {
	res, err := an.Analyze(cmd.Context(), input, a.cfg.Interval)
	if err != nil {
		return err
	}

	if a.cfg.Output.Format == config.FormatJSON {
		if err := a.writeJSON(res); err != nil {
			return err
		}
	} else {
		opts := report.Options{Detailed: a.cfg.Output.Detailed, TableRows: rows}
		if err := report.Write(a.out, res, opts); err != nil {
			return err
		}
	}

	if err := a.export(cmd, res); err != nil {
		return err
	}
	if a.cfg.Output.PlotPath == "" {
		return nil
	}
	p, err := plot.Single(res)
	if err != nil {
		return err
	}
	path, err := plot.Save(p, a.cfg.Output.PlotPath, res.Simplified)
	if err != nil {
		return err
	}
	a.note(cmd, "Plot saved: %s\n", path)
	return nil
}

func (a *app) analyzeTwo(cmd *cobra.Command, an *analysis.Analyzer, in1, in2 string) error {
	res, err := an.AnalyzePair(cmd.Context(), in1, in2, a.cfg.Interval)
	if err != nil {
		return err
	}

	if a.cfg.Output.Format == config.FormatJSON {
		if err := a.writeJSON(res); err != nil {
			return err
		}
	} else {
		opts := report.Options{Detailed: a.cfg.Output.Detailed}
		if err := report.WritePair(a.out, res, opts); err != nil {
			return err
		}
	}

	for _, r := range []*analysis.Result{res.First, res.Second} {
		if err := a.export(cmd, r); err != nil {
			return err
		}
	}
	if a.cfg.Output.PlotPath == "" {
		return nil
	}
	p, err := plot.Pair(res)
	if err != nil {
		return err
	}
	path, err := plot.Save(p, a.cfg.Output.PlotPath, res.First.Simplified+" vs "+res.Second.Simplified)
	if err != nil {
		return err
	}
	a.note(cmd, "Plot saved: %s\n", path)
	return nil
}

func (a *app) export(cmd *cobra.Command, res *analysis.Result) error {
	if a.cfg.Output.Export != config.ExportCSV {
		return nil
	}
	path, err := report.ExportCSV(a.cfg.Output.ExportTo, res)
	if err != nil {
		return err
	}
	a.log.Debug("exported samples", zap.String("path", path), zap.Int("rows", len(res.Samples.Points)))
	a.note(cmd, "CSV exported: %s\n", path)
	return nil
}

// note prints a status line to stdout in text mode and to stderr in JSON
// mode, so JSON output stays parseable.
func (a *app) note(cmd *cobra.Command, format string, args ...any) {
	if a.cfg.Output.Format == config.FormatJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
		return
	}
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
