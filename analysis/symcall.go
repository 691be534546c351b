package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/njchilds90/plotsense/symbolic"
)

// symbolicCall runs fn under ctx and an optional timeout. A panic inside the
// engine comes back as an error, as does expiry. On expiry the computation is
// abandoned, not interrupted: its goroutine finishes in the background and
// its result is dropped.
func symbolicCall[T any](ctx context.Context, timeout time.Duration, fn func() T) (T, error) {
	if timeout <= 0 && ctx.Done() == nil {
		return guarded(fn)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := guarded(fn)
		done <- outcome{v, err}
	}()
	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("symbolic call abandoned: %w", ctx.Err())
	}
}

func guarded[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("symbolic engine panic: %v", r)
		}
	}()
	return fn(), nil
}

// ============================================================
// Analyzer wrappers. Every miss is logged and reported as ok=false.
// ============================================================

func (a *Analyzer) miss(op string, err error) {
	a.log.Debug("symbolic call missed", zap.String("op", op), zap.Error(err))
}

func (a *Analyzer) solve(ctx context.Context, e symbolic.Expr, v, op string) (symbolic.SolveResult, bool) {
	res, err := symbolicCall(ctx, a.cfg.SymbolicTimeout, func() symbolic.SolveResult {
		return symbolic.SolveReal(e, v)
	})
	if err != nil {
		a.miss(op, err)
		return symbolic.SolveResult{}, false
	}
	if !res.Complete {
		a.log.Debug("solution set may be incomplete", zap.String("op", op), zap.Stringer("expr", e))
	}
	return res, true
}

func (a *Analyzer) numerDenom(ctx context.Context, e symbolic.Expr) (num, den symbolic.Expr, ok bool) {
	parts, err := symbolicCall(ctx, a.cfg.SymbolicTimeout, func() [2]symbolic.Expr {
		n, d := symbolic.NumerDenom(e)
		return [2]symbolic.Expr{n, d}
	})
	if err != nil {
		a.miss("numer-denom", err)
		return nil, nil, false
	}
	return parts[0], parts[1], true
}

func (a *Analyzer) diff(ctx context.Context, e symbolic.Expr, v string) (symbolic.Expr, bool) {
	d, err := symbolicCall(ctx, a.cfg.SymbolicTimeout, func() symbolic.Expr {
		return symbolic.Diff(e, v)
	})
	if err != nil {
		a.miss("diff", err)
		return nil, false
	}
	return d, true
}

func (a *Analyzer) limit(ctx context.Context, e symbolic.Expr, v string, at symbolic.Expr) (symbolic.LimitResult, bool) {
	r, err := symbolicCall(ctx, a.cfg.SymbolicTimeout, func() symbolic.LimitResult {
		return symbolic.Limit(e, v, at)
	})
	if err != nil {
		a.miss("limit", err)
		return symbolic.LimitResult{}, false
	}
	return r, true
}

func (a *Analyzer) limitAtInfinity(ctx context.Context, e symbolic.Expr, v string, sign int) (symbolic.InfLimit, bool) {
	r, err := symbolicCall(ctx, a.cfg.SymbolicTimeout, func() symbolic.InfLimit {
		return symbolic.LimitAtInfinity(e, v, sign)
	})
	if err != nil {
		a.miss("limit-at-infinity", err)
		return symbolic.InfLimit{}, false
	}
	return r, true
}
