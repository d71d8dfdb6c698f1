package gait

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// Motion is the accelerometer signal with gravity removed, on the
// accelerometer's own timestamps.
type Motion struct {
	X, Y, Z []float64

	// AccSum is |raw acceleration| - g0, a diagnostic only.
	AccSum []float64
}

// Compensate subtracts the aligned gravity vector (gx, gy, gz) from each raw
// accelerometer sample. The gravity slices must have acc.Len() entries.
func Compensate(acc sensorlog.Vec3Channel, gx, gy, gz []float64, g0 float64) Motion {
	n := acc.Len()
	m := Motion{
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Z:      make([]float64, n),
		AccSum: make([]float64, n),
	}
	floats.SubTo(m.X, acc.X, gx)
	floats.SubTo(m.Y, acc.Y, gy)
	floats.SubTo(m.Z, acc.Z, gz)
	for i := 0; i < n; i++ {
		m.AccSum[i] = math.Sqrt(acc.X[i]*acc.X[i]+acc.Y[i]*acc.Y[i]+acc.Z[i]*acc.Z[i]) - g0
	}
	return m
}

// Project returns the component of each motion sample along its gravity
// direction. Samples with a zero gravity vector project to 0.
func Project(m Motion, gx, gy, gz []float64) []float64 {
	out := make([]float64, len(m.X))
	a := make([]float64, 3)
	g := make([]float64, 3)
	for i := range out {
		a[0], a[1], a[2] = m.X[i], m.Y[i], m.Z[i]
		g[0], g[1], g[2] = gx[i], gy[i], gz[i]
		norm := floats.Norm(g, 2)
		if norm == 0 {
			continue
		}
		out[i] = floats.Dot(a, g) / norm
	}
	return out
}
