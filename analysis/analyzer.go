// Package analysis turns a single-variable expression into the feature set a
// graphing tool needs before it draws anything: samples, roots,
// discontinuities, asymptotes, critical points, trend changes, parity and,
// for two functions, their intersections.
//
// Every stage degrades instead of failing. A symbolic step that gives up,
// times out or panics leaves its field empty or falls back to a numeric
// scan; a point that does not evaluate is marked undefined. The only fatal
// input error is a *symbolic.ParseError.
//
// Quick start:
//
//	a, _ := analysis.New(analysis.DefaultConfig())
//	res, err := a.Analyze(ctx, "(x^2 - 4)/(x - 2)", analysis.Interval{Min: -10, Max: 10})
package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs the pipeline with a fixed Config. It holds no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	cfg Config
	log *zap.Logger
}

type Option func(*Analyzer)

// WithLogger routes debug diagnostics (solver misses, refinement failures,
// timeouts) to l.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// New validates cfg and returns an Analyzer.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

func (a *Analyzer) Config() Config { return a.cfg }

// Analyze parses input and analyzes it over iv.
func (a *Analyzer) Analyze(ctx context.Context, input string, iv Interval) (*Result, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	fn, err := Normalize(input)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFunction(ctx, fn, iv)
}

// AnalyzeFunction runs every stage on an already normalized function. The
// independent stages run concurrently when Config.Parallel is set; each
// writes its own Result fields and the output does not depend on
// scheduling.
func (a *Analyzer) AnalyzeFunction(ctx context.Context, fn *Function, iv Interval) (*Result, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	samples, err := SampleFunction(fn, iv, a.cfg.SamplePoints)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Input:        fn.Text,
		Simplified:   fn.String(),
		Var:          fn.Var,
		Interval:     iv,
		Samples:      samples,
		Monotonicity: Monotonicity(samples),
		YIntercept:   yIntercept(fn, iv, a.cfg.BoundarySlack),
	}

	var denominators, gaps []Discontinuity
	err = a.run(ctx,
		func(ctx context.Context) { res.Roots = a.FindRoots(ctx, fn, iv) },
		func(ctx context.Context) { denominators = a.Discontinuities(ctx, fn, iv) },
		func(ctx context.Context) { res.Limits, res.Asymptotes, gaps = a.Asymptotes(ctx, fn, samples) },
		func(ctx context.Context) { res.Critical = a.CriticalPoints(ctx, fn, iv) },
		func(ctx context.Context) { res.Parity = a.Parity(ctx, fn, iv) },
	)
	if err != nil {
		return nil, err
	}
	res.Discontinuities = append(denominators, gaps...)

	a.log.Debug("analysis finished",
		zap.String("expr", res.Simplified),
		zap.Stringer("interval", iv),
		zap.Int("roots", len(res.Roots.Roots)),
		zap.Int("discontinuities", len(res.Discontinuities)),
		zap.Int("asymptotes", len(res.Asymptotes)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// AnalyzePair analyzes two functions over the same interval and resolves
// their intersections. A parse error in either input is returned before any
// analysis starts.
func (a *Analyzer) AnalyzePair(ctx context.Context, in1, in2 string, iv Interval) (*PairResult, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	f1, err := Normalize(in1)
	if err != nil {
		return nil, err
	}
	f2, err := Normalize(in2)
	if err != nil {
		return nil, err
	}
	if _, err := f1.Minus(f2); err != nil {
		return nil, err
	}

	out := &PairResult{}
	var errs [3]error
	err = a.run(ctx,
		func(ctx context.Context) { out.First, errs[0] = a.AnalyzeFunction(ctx, f1, iv) },
		func(ctx context.Context) { out.Second, errs[1] = a.AnalyzeFunction(ctx, f2, iv) },
		func(ctx context.Context) { out.Intersections, errs[2] = a.Intersections(ctx, f1, f2, iv) },
	)
	if err != nil {
		return nil, err
	}
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return out, nil
}

// run executes the stages, concurrently when configured. Stages report
// through captured variables; the only error is cancellation of ctx.
func (a *Analyzer) run(ctx context.Context, stages ...func(context.Context)) error {
	if !a.cfg.Parallel {
		for _, st := range stages {
			st(ctx)
		}
		return ctx.Err()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, st := range stages {
		st := st
		g.Go(func() error {
			st(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func yIntercept(fn *Function, iv Interval, slack float64) *float64 {
	if !iv.Contains(0, slack) {
		return nil
	}
	y, ok := fn.Eval(0)
	if !ok {
		return nil
	}
	return &y
}
