package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/plotsense/analysis"
)

func analyze(t *testing.T, in string) *analysis.Result {
	t.Helper()
	a, err := analysis.New(analysis.DefaultConfig())
	require.NoError(t, err)
	res, err := a.Analyze(context.Background(), in, analysis.Interval{Min: -5, Max: 5})
	require.NoError(t, err)
	return res
}

func TestWrite_Cubic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyze(t, "x^3 - 3x"), Options{Detailed: true}))
	out := buf.String()

	for _, want := range []string{
		"Simplified: x^3 - 3*x\n",
		"Parity: odd\n",
		"Roots: -sqrt(3) ≈ -1.73205, 0, sqrt(3) ≈ 1.73205\n",
		"f(0) = 0\n",
		"Discontinuities: none found\n",
		"Limit x->+inf: +inf\n",
		"f'(x) = 3*x^2 - 3\n",
		"Extrema: -1 (maximum), 1 (minimum)\n",
		"Inflection points: 0\n",
		"Trend changes (sampled): 2\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "f(x)", "table is off by default")
}

func TestWrite_Reciprocal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyze(t, "1/(x-2)"), Options{TableRows: 10}))
	out := buf.String()

	assert.Contains(t, out, "Roots: none found\n")
	assert.Contains(t, out, "2 (denominator zero)")
	assert.Contains(t, out, "(sampling gap)")
	assert.Contains(t, out, "Horizontal asymptote: y = 0 (x -> +inf)\n")
	assert.Contains(t, out, "Vertical asymptote (sampled): x ≈ 2.00")
	assert.Contains(t, out, "f(x)\n")
}

func TestWrite_Asymptotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyze(t, "x + 1/x"), Options{}))
	assert.Contains(t, buf.String(), "Slant asymptote: y = x\n")

	buf.Reset()
	require.NoError(t, Write(&buf, analyze(t, "(x^3+1)/x"), Options{}))
	assert.Contains(t, buf.String(), "Polynomial asymptote: y = x^2\n")
}

func TestWritePair(t *testing.T) {
	a, err := analysis.New(analysis.DefaultConfig())
	require.NoError(t, err)
	res, err := a.AnalyzePair(context.Background(), "x", "-x + 4", analysis.Interval{Min: -10, Max: 10})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePair(&buf, res, Options{}))
	assert.Contains(t, buf.String(), "Intersections: (2, 2)\n")
	assert.Contains(t, buf.String(), "== f2 ==\nSimplified: -x + 4\n")
}

func TestWriteTable(t *testing.T) {
	s := analysis.SampleSet{Points: []analysis.Sample{
		{X: 0, Y: 1, Defined: true},
		{X: 1, Y: math.NaN()},
		{X: 2, Y: 0.25, Defined: true},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, s, 10))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "           x |                 f(x)", lines[0])
	assert.Equal(t, "           1 |                  NaN", lines[3])
	assert.Equal(t, "           2 |                 0.25", lines[4])
}

func TestWriteTable_Strides(t *testing.T) {
	pts := make([]analysis.Sample, 1600)
	for i := range pts {
		pts[i] = analysis.Sample{X: float64(i), Y: 0, Defined: true}
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, analysis.SampleSet{Points: pts}, 10))
	assert.Equal(t, 2+10, strings.Count(buf.String(), "\n"))
}

func TestWriteCSV(t *testing.T) {
	s := analysis.SampleSet{Points: []analysis.Sample{
		{X: -1, Y: 1.0 / 3, Defined: true},
		{X: 0, Y: math.NaN()},
		{X: 1e-5, Y: 1e20, Defined: true},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"x", "f(x)"},
		{"-1", "0.333333333333"},
		{"0", "NaN"},
		{"1e-05", "1e+20"},
	}, rows)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportCSV(dir, analyze(t, "1/(x-2)"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1_(x-2).csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "x,f(x)\n"))
	assert.Equal(t, 1601, strings.Count(string(data), "\n"))
}

func TestSafeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"x^2 - 4", "x_2-4"},
		{"3*x/(x - 2)", "3*x_(x-2)"},
		{"sin(x) + cos(x)", "sin(x)+cos(x)"},
		{"  ", "function"},
		{strings.Repeat("x", 100), strings.Repeat("x", 80)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeName(tt.in), tt.in)
	}
}
