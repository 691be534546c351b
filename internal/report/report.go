// Package report renders analysis results for people: the text report the
// CLI prints, the sampled value table and CSV exports.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/plotsense/analysis"
)

// Options selects optional report sections.
type Options struct {
	// Detailed adds derivatives, extrema and inflection points.
	Detailed bool
	// TableRows is the approximate number of value-table rows; zero hides
	// the table.
	TableRows int
}

// errWriter remembers the first write error so callers can format freely
// and check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Write renders the text report of a single-function analysis.
func Write(w io.Writer, res *analysis.Result, opts Options) error {
	ew := &errWriter{w: w}
	writeResult(ew, res, opts)
	return ew.err
}

// WritePair renders both functions followed by their intersections.
func WritePair(w io.Writer, res *analysis.PairResult, opts Options) error {
	ew := &errWriter{w: w}
	ew.printf("== f1 ==\n")
	writeResult(ew, res.First, opts)
	ew.printf("\n== f2 ==\n")
	writeResult(ew, res.Second, opts)
	ew.printf("\nIntersections: ")
	if len(res.Intersections) == 0 {
		ew.printf("none found\n")
		return ew.err
	}
	parts := make([]string, len(res.Intersections))
	for i, p := range res.Intersections {
		y := "unresolved"
		if p.Y != nil {
			y = num(*p.Y)
		}
		parts[i] = fmt.Sprintf("(%s, %s)", num(p.X), y)
	}
	ew.printf("%s\n", strings.Join(parts, ", "))
	return ew.err
}

func writeResult(ew *errWriter, res *analysis.Result, opts Options) {
	ew.printf("Simplified: %s\n", res.Simplified)
	ew.printf("Interval: %s\n", res.Interval)
	ew.printf("Parity: %s\n", res.Parity)

	ew.printf("Roots: %s\n", roots(res.Roots))
	if len(res.Roots.Rejected) > 0 {
		parts := make([]string, len(res.Roots.Rejected))
		for i, b := range res.Roots.Rejected {
			parts[i] = b.String()
		}
		ew.printf("Sign changes without a root: %s\n", strings.Join(parts, ", "))
	}
	if len(res.Roots.Unevaluated) > 0 {
		ew.printf("Roots (closed form only): %s\n", strings.Join(res.Roots.Unevaluated, ", "))
	}
	if !res.Roots.SymbolicComplete {
		ew.printf("  note: symbolic solving was partial; numeric roots are approximate\n")
	}
	if res.YIntercept != nil {
		ew.printf("f(0) = %s\n", num(*res.YIntercept))
	}

	ew.printf("Discontinuities: %s\n", discontinuities(res.Discontinuities))
	ew.printf("Limit x->+inf: %s\n", limit(res.Limits.PosInf))
	ew.printf("Limit x->-inf: %s\n", limit(res.Limits.NegInf))
	for _, as := range res.Asymptotes {
		switch as.Kind {
		case analysis.Horizontal:
			ew.printf("Horizontal asymptote: y = %s (x -> %s)\n", num(as.Value), as.Direction)
		case analysis.Slant:
			if as.Degree() > 1 {
				ew.printf("Polynomial asymptote: y = %s\n", as.Expression)
			} else {
				ew.printf("Slant asymptote: y = %s\n", as.Expression)
			}
		case analysis.Vertical:
			ew.printf("Vertical asymptote (sampled): x ≈ %s\n", num(as.Location))
		}
	}

	if opts.Detailed {
		c := res.Critical
		if c.FirstDerivative == "" {
			ew.printf("Derivatives: not available\n")
		} else {
			ew.printf("f'(x) = %s\n", c.FirstDerivative)
			ew.printf("f''(x) = %s\n", c.SecondDerivative)
		}
		ew.printf("Extrema: %s\n", points(c.Extrema, true, c.Determined))
		ew.printf("Inflection points: %s\n", points(c.Inflections, false, c.Determined))
	}

	if opts.TableRows > 0 {
		ew.printf("\n")
		if ew.err == nil {
			ew.err = WriteTable(ew.w, res.Samples, opts.TableRows)
		}
	}
	ew.printf("\nTrend changes (sampled): %d\n", res.Monotonicity)
}

func roots(set analysis.RootSet) string {
	if len(set.Roots) == 0 {
		return "none found"
	}
	parts := make([]string, len(set.Roots))
	for i, r := range set.Roots {
		parts[i] = labelled(r.Exact, r.Value)
	}
	return strings.Join(parts, ", ")
}

func discontinuities(ds []analysis.Discontinuity) string {
	if len(ds) == 0 {
		return "none found"
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		s := labelled(d.Exact, d.Location)
		switch {
		case d.Origin == analysis.OriginSampling:
			s += " (sampling gap)"
		case d.Removable:
			s += " (removable)"
		default:
			s += " (denominator zero)"
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func points(cps []analysis.CriticalPoint, classify, determined bool) string {
	if len(cps) == 0 {
		if !determined {
			return "undetermined"
		}
		return "none"
	}
	parts := make([]string, len(cps))
	for i, c := range cps {
		parts[i] = labelled(c.Exact, c.Location)
		if classify {
			parts[i] += " (" + string(c.Classification) + ")"
		}
	}
	out := strings.Join(parts, ", ")
	if !determined {
		out += " (possibly incomplete)"
	}
	return out
}

func limit(l analysis.Limit) string {
	switch {
	case l.Value != nil && l.Exact != "":
		return labelled(l.Exact, *l.Value)
	case l.Value != nil:
		return num(*l.Value)
	case l.Kind == "none":
		return "does not exist or undetermined"
	}
	return l.Kind
}

// labelled prints a closed form next to its value when the two differ.
func labelled(exact string, v float64) string {
	n := num(v)
	if exact == "" {
		return n
	}
	if exact == n {
		return exact
	}
	return exact + " ≈ " + n
}

// num formats like %.6g but never prints -0.
func num(v float64) string {
	if v == 0 {
		v = 0
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
