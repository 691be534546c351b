package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/njchilds90/plotsense/analysis"
)

// WriteTable prints roughly rows evenly strided samples as an aligned
// "x | f(x)" table. Undefined values print as NaN.
func WriteTable(w io.Writer, s analysis.SampleSet, rows int) error {
	ew := &errWriter{w: w}
	ew.printf("%12s | %20s\n", "x", "f(x)")
	ew.printf("%s\n", strings.Repeat("-", 36))
	step := len(s.Points) / max(rows, 1)
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(s.Points); i += step {
		p := s.Points[i]
		if p.Defined {
			ew.printf("%12.6g | %20.12g\n", p.X, p.Y)
		} else {
			ew.printf("%12.6g | %20s\n", p.X, "NaN")
		}
	}
	return ew.err
}

// WriteCSV writes the samples with an "x,f(x)" header, %.12g values and
// NaN for undefined points.
func WriteCSV(w io.Writer, s analysis.SampleSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "f(x)"}); err != nil {
		return err
	}
	for _, p := range s.Points {
		y := "NaN"
		if p.Defined {
			y = strconv.FormatFloat(p.Y, 'g', 12, 64)
		}
		if err := cw.Write([]string{strconv.FormatFloat(p.X, 'g', 12, 64), y}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes res.Samples to dir under a name derived from the
// simplified expression and returns the file path.
func ExportCSV(dir string, res *analysis.Result) (string, error) {
	path := filepath.Join(dir, SafeName(res.Simplified)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, res.Samples); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	unsafeRune = regexp.MustCompile(`[^0-9A-Za-z\-_.()*+]`)
)

const maxNameLen = 80

// SafeName turns an expression into a file name: whitespace removed, every
// character outside [0-9A-Za-z-_.()*+] replaced by '_', truncated to 80
// bytes.
func SafeName(expr string) string {
	s := whitespace.ReplaceAllString(expr, "")
	s = unsafeRune.ReplaceAllString(s, "_")
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	if s == "" {
		s = "function"
	}
	return s
}
