// Package vector implements the column-oriented numeric vector used by every
// log signal. Operations never modify their receiver; each returns a fresh
// Vector so cached columns can be shared safely.
package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is an ordered sequence of samples.
type Vector []float64

// New returns a zeroed vector of length n.
func New(n int) Vector {
	return make(Vector, n)
}

// Fill returns a vector of length n with every element set to c.
func Fill(n int, c float64) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = c
	}
	return v
}

// Index returns 0, 1, ..., n-1.
func Index(n int) Vector {
	v := make(Vector, n)
	if n > 1 {
		floats.Span(v, 0, float64(n-1))
	}
	return v
}

// Len returns the number of samples.
func (v Vector) Len() int { return len(v) }

// Copy returns an independent copy of v.
func (v Vector) Copy() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Ident returns a vector of the same length as v filled with c.
func (v Vector) Ident(c float64) Vector {
	return Fill(len(v), c)
}

// Add returns the elementwise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	return floats.AddTo(make(Vector, len(v)), v, o)
}

// Sub returns v - o elementwise.
func (v Vector) Sub(o Vector) Vector {
	return floats.SubTo(make(Vector, len(v)), v, o)
}

// Mul returns the elementwise product of v and o.
func (v Vector) Mul(o Vector) Vector {
	return floats.MulTo(make(Vector, len(v)), v, o)
}

// Div returns v / o elementwise.
func (v Vector) Div(o Vector) Vector {
	return floats.DivTo(make(Vector, len(v)), v, o)
}

// AddConst adds c to every element.
func (v Vector) AddConst(c float64) Vector {
	out := v.Copy()
	floats.AddConst(c, out)
	return out
}

// Scale multiplies every element by c.
func (v Vector) Scale(c float64) Vector {
	return floats.ScaleTo(make(Vector, len(v)), c, v)
}

// DivConst divides every element by c.
func (v Vector) DivConst(c float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x / c
	}
	return out
}

// Pow raises every element to the power p.
func (v Vector) Pow(p float64) Vector {
	return v.Map(func(x float64) float64 { return math.Pow(x, p) })
}

func (v Vector) Abs() Vector {
	return v.Map(math.Abs)
}

// Inverse returns 1/x for every element.
func (v Vector) Inverse() Vector {
	return v.Map(func(x float64) float64 { return 1 / x })
}

// Max floors every element at c.
func (v Vector) Max(c float64) Vector {
	return v.Map(func(x float64) float64 { return math.Max(x, c) })
}

// Min caps every element at c.
func (v Vector) Min(c float64) Vector {
	return v.Map(func(x float64) float64 { return math.Min(x, c) })
}

// MaxOf returns the elementwise maximum of v and o.
func (v Vector) MaxOf(o Vector) Vector {
	return v.Map2(o, math.Max)
}

// Clamp limits every element to [lo, hi].
func (v Vector) Clamp(lo, hi float64) Vector {
	return v.Max(lo).Min(hi)
}

// Map applies f to every element.
func (v Vector) Map(f func(x float64) float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = f(x)
	}
	return out
}

// Map2 applies the transfer function f(v[i], o[i]) to every index.
func (v Vector) Map2(o Vector, f func(x, y float64) float64) Vector {
	if len(v) != len(o) {
		panic("vector: length mismatch")
	}
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = f(x, o[i])
	}
	return out
}

// IsZero reports whether every element is exactly zero. An empty vector is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Slice returns a copy of the samples in the inclusive index range [start, end].
func (v Vector) Slice(start, end int) Vector {
	if start < 0 {
		start = 0
	}
	if end >= len(v) {
		end = len(v) - 1
	}
	if end < start {
		return Vector{}
	}
	out := make(Vector, end-start+1)
	copy(out, v[start:end+1])
	return out
}

// Span returns the minimum and maximum element. Both are NaN for an empty vector.
func (v Vector) Span() (min, max float64) {
	if len(v) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(v), floats.Max(v)
}
