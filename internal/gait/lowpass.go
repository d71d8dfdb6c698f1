package gait

import (
	"fmt"
	"math"
)

// SampleRate estimates the sample rate in Hz of a millisecond timestamp
// sequence as (N-1) intervals over the first-to-last span.
func SampleRate(ts []int64) (float64, error) {
	if len(ts) < 2 {
		return 0, fmt.Errorf("%w: %d samples", ErrDegenerateSampleRate, len(ts))
	}
	span := ts[len(ts)-1] - ts[0]
	if span <= 0 {
		return 0, fmt.Errorf("%w: span %d ms", ErrDegenerateSampleRate, span)
	}
	return 1000 * float64(len(ts)-1) / float64(span), nil
}

// Butterworth is a second-order IIR section with A[0] normalized to 1.
type Butterworth struct {
	B [3]float64
	A [3]float64
}

// DesignLowPass returns the 2nd-order Butterworth low-pass with normalized
// cutoff wn (1 is Nyquist), using the bilinear transform with frequency
// prewarping.
func DesignLowPass(wn float64) (Butterworth, error) {
	if !(wn > 0 && wn < 1) {
		return Butterworth{}, fmt.Errorf("%w: Wn=%g, must be in (0, 1)", ErrInvalidCutoff, wn)
	}
	k := math.Tan(math.Pi * wn / 2)
	k2 := k * k
	norm := 1 / (1 + math.Sqrt2*k + k2)

	var f Butterworth
	f.B[0] = k2 * norm
	f.B[1] = 2 * f.B[0]
	f.B[2] = f.B[0]
	f.A[0] = 1
	f.A[1] = 2 * (k2 - 1) * norm
	f.A[2] = (1 - math.Sqrt2*k + k2) * norm
	return f, nil
}

// Filter runs x through the section in transposed direct form II, starting
// from rest. The output has the same length as x.
func (f Butterworth) Filter(x []float64) []float64 {
	y := make([]float64, len(x))
	var z1, z2 float64
	for i, xi := range x {
		yi := f.B[0]*xi + z1
		z1 = f.B[1]*xi - f.A[1]*yi + z2
		z2 = f.B[2]*xi - f.A[2]*yi
		y[i] = yi
	}
	return y
}
