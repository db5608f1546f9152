package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticDoesNotMutate(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	assert.Equal(t, Vector{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vector{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vector{4, 10, 18}, a.Mul(b))
	assert.Equal(t, Vector{4, 2.5, 2}, b.Div(a))
	assert.Equal(t, Vector{11, 12, 13}, a.AddConst(10))
	assert.Equal(t, Vector{2, 4, 6}, a.Scale(2))
	assert.Equal(t, Vector{0.5, 1, 1.5}, a.DivConst(2))
	assert.Equal(t, Vector{1, 8, 27}, a.Pow(3))

	assert.Equal(t, Vector{1, 2, 3}, a, "receiver must be untouched")
}

func TestFloorsAndClamps(t *testing.T) {
	v := Vector{-30, -5, 0, 5, 30}

	assert.Equal(t, Vector{0, 0, 0, 5, 30}, v.Max(0))
	assert.Equal(t, Vector{-30, -5, 0, 5, 10}, v.Min(10))
	assert.Equal(t, Vector{-25, -5, 0, 5, 25}, v.Clamp(-25, 25))
	assert.Equal(t, Vector{30, 5, 0, 5, 30}, v.Abs())
	assert.Equal(t, Vector{1, 1, 1, 5, 30}, v.MaxOf(Fill(5, 1)))
}

func TestMap2(t *testing.T) {
	x := Vector{1, 2, 3}
	y := Vector{10, -10, 0}
	out := x.Map2(y, func(a, b float64) float64 {
		if b < 0 {
			return 0
		}
		return a + b
	})
	assert.Equal(t, Vector{11, 0, 3}, out)

	assert.Panics(t, func() { x.Map2(Vector{1}, math.Max) })
}

func TestIndexAndFill(t *testing.T) {
	assert.Equal(t, Vector{0, 1, 2, 3}, Index(4))
	assert.Equal(t, Vector{0}, Index(1))
	assert.Empty(t, Index(0))
	assert.Equal(t, Vector{7, 7}, Fill(2, 7))
	assert.Equal(t, Vector{1013, 1013, 1013}, Vector{1, 2, 3}.Ident(1013))
}

func TestIsZero(t *testing.T) {
	assert.True(t, Vector{0, 0, 0}.IsZero())
	assert.True(t, Vector{}.IsZero())
	assert.False(t, Vector{0, 0.1}.IsZero())
}

func TestSlice(t *testing.T) {
	v := Index(10)
	assert.Equal(t, Vector{2, 3, 4}, v.Slice(2, 4))
	assert.Equal(t, Vector{8, 9}, v.Slice(8, 20))
	assert.Empty(t, v.Slice(5, 4))

	s := v.Slice(0, 1)
	s[0] = 100
	assert.Equal(t, 0.0, v[0], "slice must be a copy")
}

func TestSpan(t *testing.T) {
	lo, hi := Vector{3, -1, 7}.Span()
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)

	lo, hi = Vector{}.Span()
	assert.True(t, math.IsNaN(lo))
	assert.True(t, math.IsNaN(hi))
}

func TestDerivativeOfLine(t *testing.T) {
	x := Vector{0, 0.1, 0.2, 0.3, 0.4}
	y := x.Scale(50).AddConst(3)

	d := y.Derivative(x)
	require.Len(t, d, 5)
	for i := range d {
		assert.InDelta(t, 50, d[i], 1e-9, "index %d", i)
	}
}

func TestDerivativeRepeatsOnZeroDx(t *testing.T) {
	x := Vector{0, 1, 1, 1, 2}
	y := Vector{0, 2, 2, 2, 4}
	d := y.Derivative(x)
	assert.InDelta(t, 2, d[0], 1e-12)
	assert.InDelta(t, 2, d[1], 1e-12)
	assert.InDelta(t, 2, d[2], 1e-12, "zero dx repeats the previous value")
	assert.InDelta(t, 2, d[3], 1e-12)
}

func TestMovingAverage(t *testing.T) {
	v := Vector{0, 0, 3, 0, 0}

	assert.Equal(t, v, v.MovingAverage(1))
	assert.Equal(t, v, v.MovingAverage(0))

	ma := v.MovingAverage(3)
	assert.InDeltaSlice(t, []float64{0, 1, 1, 1, 0}, ma, 1e-12)

	line := Index(6)
	assert.InDeltaSlice(t, []float64{0.5, 1, 2, 3, 4, 4.5}, line.MovingAverage(3), 1e-12)
}

func TestIntegralClamps(t *testing.T) {
	x := Index(5)
	y := Fill(5, 2)

	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8}, y.Integral(x, -100, 100), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 2, 4, 5, 5}, y.Integral(x, 0, 5), 1e-12)

	neg := Fill(5, -1)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 0}, neg.Integral(x, 0, 5), 1e-12,
		"lower bound holds the accumulator")
}

func TestSmoothInterpolatesPlateaus(t *testing.T) {
	v := Vector{3000, 3000, 3000, 3060, 3060, 3120}
	s := v.Smooth()
	assert.InDeltaSlice(t, []float64{3000, 3020, 3040, 3060, 3090, 3120}, s, 1e-9)

	ramp := Vector{1, 2, 3, 4}
	assert.Equal(t, ramp, ramp.Smooth(), "distinct samples are untouched")

	for i := 1; i < len(s); i++ {
		assert.GreaterOrEqual(t, s[i], s[i-1])
	}
}
