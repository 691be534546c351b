package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidInterval is returned when an Interval is empty, reversed or
	// not finite.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid analysis config")
	// ErrVariableMismatch is returned by AnalyzePair when the two functions
	// are written in different variables.
	ErrVariableMismatch = errors.New("variable mismatch")
)

// MinSignChangeIntervals is the coarsest scan the numeric root phase accepts.
const MinSignChangeIntervals = 400

// Config carries every tunable of the pipeline. Nothing in the package reads
// global defaults; callers pass a Config explicitly.
type Config struct {
	// SamplePoints is the size of the evenly spaced sampling grid.
	SamplePoints int `yaml:"sample_points" json:"sample_points"`
	// SignChangeIntervals is the number of equal sub-intervals scanned for
	// sign changes by the numeric root phase.
	SignChangeIntervals int `yaml:"sign_change_intervals" json:"sign_change_intervals"`
	// Tolerance is the deduplication distance ε.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	// ZeroTolerance decides when |f(x)| counts as zero and when a bisection
	// bracket is narrow enough.
	ZeroTolerance       float64 `yaml:"zero_tolerance" json:"zero_tolerance"`
	BisectionIterations int     `yaml:"bisection_iterations" json:"bisection_iterations"`
	NewtonIterations    int     `yaml:"newton_iterations" json:"newton_iterations"`
	// BoundarySlack widens the interval when deciding whether a location
	// lies inside it.
	BoundarySlack float64 `yaml:"boundary_slack" json:"boundary_slack"`
	// SymbolicTimeout bounds every symbolic call. Zero means unbounded.
	SymbolicTimeout time.Duration `yaml:"symbolic_timeout" json:"symbolic_timeout"`
	// Parallel runs the independent stages concurrently.
	Parallel bool `yaml:"parallel" json:"parallel"`
}

// DefaultConfig returns the settings used by the command-line tool.
func DefaultConfig() Config {
	return Config{
		SamplePoints:        1600,
		SignChangeIntervals: 800,
		Tolerance:           1e-5,
		ZeroTolerance:       1e-8,
		BisectionIterations: 50,
		NewtonIterations:    50,
		BoundarySlack:       1e-9,
		SymbolicTimeout:     0,
		Parallel:            true,
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	switch {
	case c.SamplePoints < 2:
		return fmt.Errorf("%w: sample_points must be at least 2, got %d", ErrInvalidConfig, c.SamplePoints)
	case c.SignChangeIntervals < MinSignChangeIntervals:
		return fmt.Errorf("%w: sign_change_intervals must be at least %d, got %d", ErrInvalidConfig, MinSignChangeIntervals, c.SignChangeIntervals)
	case !(c.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.Tolerance)
	case !(c.ZeroTolerance > 0):
		return fmt.Errorf("%w: zero_tolerance must be positive, got %g", ErrInvalidConfig, c.ZeroTolerance)
	case c.BisectionIterations < 1:
		return fmt.Errorf("%w: bisection_iterations must be positive, got %d", ErrInvalidConfig, c.BisectionIterations)
	case c.NewtonIterations < 0:
		return fmt.Errorf("%w: newton_iterations must not be negative, got %d", ErrInvalidConfig, c.NewtonIterations)
	case c.BoundarySlack < 0 || math.IsNaN(c.BoundarySlack):
		return fmt.Errorf("%w: boundary_slack must not be negative, got %g", ErrInvalidConfig, c.BoundarySlack)
	case c.SymbolicTimeout < 0:
		return fmt.Errorf("%w: symbolic_timeout must not be negative, got %s", ErrInvalidConfig, c.SymbolicTimeout)
	}
	return nil
}
