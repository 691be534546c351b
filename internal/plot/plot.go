// Package plot draws analysis results as PNG images with gonum/plot: the
// sampled curve, its roots and discontinuities, asymptote guide lines and,
// for two functions, their intersections.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/njchilds90/plotsense/analysis"
	"github.com/njchilds90/plotsense/internal/report"
)

const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch

	curvePoints = 400
)

var (
	axisColor  = color.Gray{Y: 0}
	guideColor = color.Gray{Y: 128}
	asymColor  = plotutil.Color(3)
	rootColor  = plotutil.Color(1)
	crossColor = plotutil.Color(2)
)

// Single builds the plot of one analyzed function.
func Single(res *analysis.Result) (*plot.Plot, error) {
	p := newPlot("f(x) = "+res.Simplified)
	if err := addAxes(p, res.Interval); err != nil {
		return nil, err
	}
	if err := addCurve(p, res, "f(x) = "+res.Simplified, 0, nil); err != nil {
		return nil, err
	}
	if err := addFeatures(p, res); err != nil {
		return nil, err
	}
	fit(p, res.Interval, res.Samples)
	return p, nil
}

// Pair builds the comparison plot of two functions with their
// intersections marked.
func Pair(res *analysis.PairResult) (*plot.Plot, error) {
	iv := res.First.Interval
	p := newPlot("Comparison of functions and intersection points")
	if err := addAxes(p, iv); err != nil {
		return nil, err
	}
	if err := addCurve(p, res.First, "f1(x) = "+res.First.Simplified, 0, nil); err != nil {
		return nil, err
	}
	if err := addCurve(p, res.Second, "f2(x) = "+res.Second.Simplified, 1, []vg.Length{vg.Points(6), vg.Points(3)}); err != nil {
		return nil, err
	}

	var pts plotter.XYs
	var labels []string
	for _, in := range res.Intersections {
		if in.Y == nil {
			continue
		}
		pts = append(pts, plotter.XY{X: in.X, Y: *in.Y})
		labels = append(labels, fmt.Sprintf("(%.4g, %.4g)", in.X, *in.Y))
	}
	if err := addMarkers(p, pts, labels, crossColor); err != nil {
		return nil, err
	}
	fit(p, iv, res.First.Samples, res.Second.Samples)
	return p, nil
}

// Save writes p as a PNG. When path names an existing directory the file is
// placed inside it under a name derived from expr. It returns the path
// written.
func Save(p *plot.Plot, path, expr string) (string, error) {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, report.SafeName(expr)+".png")
	}
	if err := p.Save(Width, Height, path); err != nil {
		return "", fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return path, nil
}

// WritePNG encodes p as a PNG to w.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	p.Legend.Top = true
	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Dashes = grid.Vertical.Dashes
	p.Add(grid)
	return p
}

func addAxes(p *plot.Plot, iv analysis.Interval) error {
	x, err := hline(iv, 0, axisColor, nil)
	if err != nil {
		return err
	}
	p.Add(x)
	if iv.Contains(0, 0) {
		y, err := vline(0, axisColor, nil)
		if err != nil {
			return err
		}
		p.Add(y)
	}
	return nil
}

// addCurve draws the sampled curve as separate segments, broken at
// undefined samples and across sampled vertical asymptotes.
func addCurve(p *plot.Plot, res *analysis.Result, name string, idx int, dashes []vg.Length) error {
	var breaks []float64
	for _, as := range res.Asymptotes {
		if as.Kind == analysis.Vertical {
			breaks = append(breaks, as.Location)
		}
	}
	sort.Float64s(breaks)

	legend := false
	for _, seg := range Segments(res.Samples, breaks) {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = plotutil.Color(idx)
		l.LineStyle.Dashes = dashes
		p.Add(l)
		if !legend {
			p.Legend.Add(name, l)
			legend = true
		}
	}
	return nil
}

func addFeatures(p *plot.Plot, res *analysis.Result) error {
	var pts plotter.XYs
	var labels []string
	for _, r := range res.Roots.Roots {
		pts = append(pts, plotter.XY{X: r.Value, Y: 0})
		labels = append(labels, fmt.Sprintf("(%.4g, 0)", r.Value))
	}
	if err := addMarkers(p, pts, labels, rootColor); err != nil {
		return err
	}

	dashed := []vg.Length{vg.Points(4), vg.Points(3)}
	for _, d := range res.Discontinuities {
		if d.Origin != analysis.OriginDenominator || !res.Interval.Contains(d.Location, 0) {
			continue
		}
		l, err := vline(d.Location, guideColor, dashed)
		if err != nil {
			return err
		}
		p.Add(l)
	}

	for _, as := range res.Asymptotes {
		var l *plotter.Line
		var err error
		switch as.Kind {
		case analysis.Vertical:
			if !res.Interval.Contains(as.Location, 0) {
				continue
			}
			l, err = vline(as.Location, guideColor, dashed)
		case analysis.Horizontal:
			l, err = hline(res.Interval, as.Value, asymColor, dashed)
			if err == nil {
				p.Legend.Add(fmt.Sprintf("y = %.4g", as.Value), l)
			}
		case analysis.Slant:
			l, err = plotter.NewLine(quotientLine(res.Interval, as))
			if err == nil {
				l.LineStyle.Color = asymColor
				l.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
				p.Legend.Add("slant: y = "+as.Expression, l)
			}
		default:
			continue
		}
		if err != nil {
			return err
		}
		p.Add(l)
	}
	return nil
}

func addMarkers(p *plot.Plot, pts plotter.XYs, labels []string, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(3)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	lb, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return err
	}
	for i := range lb.TextStyle {
		lb.TextStyle[i].Font.Size = vg.Points(8)
	}
	lb.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(6)}
	p.Add(s, lb)
	return nil
}

func hline(iv analysis.Interval, y float64, c color.Color, dashes []vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: iv.Min, Y: y}, {X: iv.Max, Y: y}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(0.8)
	l.LineStyle.Dashes = dashes
	return l, nil
}

// vline spans a large finite y range; the canvas clips it to the axes.
func vline(x float64, c color.Color, dashes []vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: -1e12}, {X: x, Y: 1e12}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Dashes = dashes
	return l, nil
}

// Segments splits the defined samples into runs of consecutive points. A
// run ends at an undefined sample or where a break location falls strictly
// between two neighbouring samples. breaks must be sorted.
func Segments(s analysis.SampleSet, breaks []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	var prev *analysis.Sample
	for i := range s.Points {
		pt := s.Points[i]
		if !pt.Defined {
			flush()
			prev = nil
			continue
		}
		if prev != nil && crosses(breaks, prev.X, pt.X) {
			flush()
		}
		cur = append(cur, plotter.XY{X: pt.X, Y: pt.Y})
		prev = &s.Points[i]
	}
	flush()
	return out
}

func crosses(breaks []float64, a, b float64) bool {
	i := sort.SearchFloat64s(breaks, a)
	for ; i < len(breaks) && breaks[i] < b; i++ {
		if breaks[i] > a {
			return true
		}
	}
	return false
}

// fit pins the x axis to the interval and limits the y axis to YRange, so
// that a pole does not flatten the rest of the curve.
func fit(p *plot.Plot, iv analysis.Interval, sets ...analysis.SampleSet) {
	p.X.Min, p.X.Max = iv.Min, iv.Max
	if lo, hi, ok := YRange(sets...); ok {
		p.Y.Min, p.Y.Max = lo, hi
	}
}

// YRange covers the central 96% of the defined sample values and the x
// axis, plus a 10% margin.
func YRange(sets ...analysis.SampleSet) (lo, hi float64, ok bool) {
	var ys []float64
	for _, s := range sets {
		for _, p := range s.Points {
			if p.Defined {
				ys = append(ys, p.Y)
			}
		}
	}
	if len(ys) == 0 {
		return 0, 0, false
	}
	sort.Float64s(ys)
	lo = stat.Quantile(0.02, stat.Empirical, ys, nil)
	hi = stat.Quantile(0.98, stat.Empirical, ys, nil)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	pad := 0.1 * (hi - lo)
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad, true
}

// quotientLine traces a slant asymptote across iv. Lines need only the
// endpoints.
func quotientLine(iv analysis.Interval, as analysis.Asymptote) plotter.XYs {
	n := 2
	if as.Degree() > 1 {
		n = curvePoints
	}
	xys := make(plotter.XYs, n)
	for i := range xys {
		x := iv.Min + (iv.Max-iv.Min)*float64(i)/float64(n-1)
		xys[i].X, xys[i].Y = x, as.At(x)
	}
	return xys
}
