package symbolic

import (
	"math"
	"math/cmplx"
	"sort"
)

// ============================================================
// Floating-point polynomial roots
// ============================================================

// realRoots returns the real roots of p in ascending order. Degree three uses
// the trigonometric/Cardano closed form, higher degrees use Durand-Kerner.
// Every root is polished with Newton's method on the original coefficients.
func realRoots(p Poly) []float64 {
	c := p.trim().Floats()
	var roots []float64
	switch n := len(c) - 1; {
	case n <= 0:
		return nil
	case n == 1:
		roots = []float64{-c[0] / c[1]}
	case n == 2:
		roots = quadraticRealRoots(c[2], c[1], c[0])
	case n == 3:
		roots = cubicRealRoots(c[3], c[2], c[1], c[0])
	default:
		for _, z := range durandKerner(c) {
			if math.Abs(imag(z)) <= 1e-7*(1+math.Abs(real(z))) {
				roots = append(roots, real(z))
			}
		}
	}
	out := make([]float64, 0, len(roots))
	for _, r := range roots {
		r = polishRoot(c, r)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		dup := false
		for _, o := range out {
			if math.Abs(o-r) <= 1e-9*(1+math.Abs(r)) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	sort.Float64s(out)
	return out
}

func quadraticRealRoots(a, b, c float64) []float64 {
	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return nil
	case disc == 0:
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}

// cubicRealRoots solves a*x^3 + b*x^2 + c*x + d = 0 via the depressed cubic
// t^3 + p*t + q.
func cubicRealRoots(a, b, c, d float64) []float64 {
	p := (3*a*c - b*b) / (3 * a * a)
	q := (2*b*b*b - 9*a*b*c + 27*a*a*d) / (27 * a * a * a)
	offset := b / (3 * a)
	disc := -(4*p*p*p + 27*q*q)

	switch {
	case disc > 0:
		m := 2 * math.Sqrt(-p/3)
		arg := math.Max(-1, math.Min(1, 3*q/(p*m)))
		theta := math.Acos(arg) / 3
		roots := make([]float64, 3)
		for k := 0; k < 3; k++ {
			roots[k] = m*math.Cos(theta-2*math.Pi*float64(k)/3) - offset
		}
		return roots
	case disc == 0:
		if p == 0 {
			return []float64{-offset}
		}
		return []float64{3*q/p - offset, -3*q/(2*p) - offset}
	}
	A := math.Cbrt(-q/2 + math.Sqrt(q*q/4+p*p*p/27))
	B := 0.0
	if A != 0 {
		B = -p / (3 * A)
	}
	return []float64{A + B - offset}
}

// durandKerner returns all complex roots of the polynomial with ascending
// float coefficients c (degree >= 1).
func durandKerner(c []float64) []complex128 {
	n := len(c) - 1
	lead := c[n]
	monic := make([]float64, n+1)
	for i := range c {
		monic[i] = c[i] / lead
	}

	// Cauchy bound.
	var maxAbs float64
	for i := 0; i < n; i++ {
		if v := math.Abs(monic[i]); v > maxAbs {
			maxAbs = v
		}
	}
	radius := 1 + maxAbs

	// Start off the real axis so conjugate pairs can separate.
	roots := make([]complex128, n)
	for k := 0; k < n; k++ {
		theta := 0.4 + 2*math.Pi*float64(k)/float64(n)
		roots[k] = complex(radius*math.Cos(theta), radius*math.Sin(theta))
	}

	const (
		tol     = 1e-12
		maxIter = 512
	)
	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for i := 0; i < n; i++ {
			zi := roots[i]
			den := complex(1, 0)
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				d := zi - roots[j]
				if d == 0 {
					d = complex(1e-9, 1e-9)
				}
				den *= d
			}
			if den == 0 {
				continue
			}
			dz := evalPolyComplex(monic, zi) / den
			roots[i] = zi - dz
			if d := cmplx.Abs(dz); d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta <= tol {
			break
		}
	}
	return roots
}

func evalPolyComplex(c []float64, z complex128) complex128 {
	var out complex128
	for i := len(c) - 1; i >= 0; i-- {
		out = out*z + complex(c[i], 0)
	}
	return out
}

// polishRoot runs a few Newton steps and keeps the result only if it did not
// make the residual worse.
func polishRoot(c []float64, x float64) float64 {
	eval := func(x float64) (f, df float64) {
		for i := len(c) - 1; i >= 0; i-- {
			df = df*x + f
			f = f*x + c[i]
		}
		return f, df
	}
	best := x
	bestF, _ := eval(x)
	for i := 0; i < 50; i++ {
		f, df := eval(x)
		if f == 0 || df == 0 {
			break
		}
		next := x - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		x = next
		if nf, _ := eval(x); math.Abs(nf) < math.Abs(bestF) {
			best, bestF = x, nf
		}
		if math.Abs(f/df) <= 1e-15*(1+math.Abs(x)) {
			break
		}
	}
	return best
}
