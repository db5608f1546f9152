package vector

// Derivative returns dv/dx using central differences for interior samples
// and one-sided differences at both ends. Where dx is zero the previous
// derivative is repeated (0 at the first sample).
func (v Vector) Derivative(x Vector) Vector {
	if len(v) != len(x) {
		panic("vector: length mismatch")
	}
	n := len(v)
	out := make(Vector, n)
	if n < 2 {
		return out
	}
	for i := 0; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		dx := x[hi] - x[lo]
		if dx == 0 {
			if i > 0 {
				out[i] = out[i-1]
			}
			continue
		}
		out[i] = (v[hi] - v[lo]) / dx
	}
	return out
}

// DerivativeMA returns the derivative smoothed by a centered moving average
// of the given window.
func (v Vector) DerivativeMA(x Vector, window int) Vector {
	return v.Derivative(x).MovingAverage(window)
}

// Integral returns the cumulative trapezoidal integral of v over x. Every
// partial sum is clamped into [lo, hi], so the accumulator cannot wind up
// past its limits.
func (v Vector) Integral(x Vector, lo, hi float64) Vector {
	if len(v) != len(x) {
		panic("vector: length mismatch")
	}
	out := make(Vector, len(v))
	if len(v) == 0 {
		return out
	}
	out[0] = clamp(0, lo, hi)
	for i := 1; i < len(v); i++ {
		area := (v[i] + v[i-1]) / 2 * (x[i] - x[i-1])
		out[i] = clamp(out[i-1]+area, lo, hi)
	}
	return out
}

// MovingAverage returns a centered moving average. Windows are truncated at
// the edges. A window of 1 or less returns a copy.
func (v Vector) MovingAverage(window int) Vector {
	n := len(v)
	if window <= 1 || n == 0 {
		return v.Copy()
	}
	prefix := make([]float64, n+1)
	for i, x := range v {
		prefix[i+1] = prefix[i] + x
	}
	before := (window - 1) / 2
	after := window / 2
	out := make(Vector, n)
	for i := range v {
		lo := i - before
		if lo < 0 {
			lo = 0
		}
		hi := i + after
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return out
}

// Smooth removes sampling quantization. Runs of repeated values are replaced
// by a straight line between the samples where the value changes, so an
// integer RPM trace that steps 3000,3000,3000,3050 becomes an even ramp.
// Samples where the value changes are left untouched.
func (v Vector) Smooth() Vector {
	n := len(v)
	out := v.Copy()
	if n < 3 {
		return out
	}
	knots := []int{0}
	for i := 1; i < n; i++ {
		if v[i] != v[i-1] {
			knots = append(knots, i)
		}
	}
	if knots[len(knots)-1] != n-1 {
		knots = append(knots, n-1)
	}
	for k := 1; k < len(knots); k++ {
		a, b := knots[k-1], knots[k]
		span := float64(b - a)
		for j := a + 1; j < b; j++ {
			out[j] = v[a] + (v[b]-v[a])*float64(j-a)/span
		}
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
