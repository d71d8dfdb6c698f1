package gait

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	res := &Result{
		Steps:      []int64{0, 500, 1100, 1600},
		Trajectory: []Point{{0, 0}, {0.7, 0}, {0.7, 0.7}, {1.4, 0.7}},
		Diagnostics: []StepDiagnostic{
			{Azimuth: 0}, {Azimuth: math.Pi / 2}, {Azimuth: 0},
		},
	}

	s := Summarize(res)
	assert.Equal(t, 4, s.Steps)
	assert.InDelta(t, 2.1, s.PathLength, 1e-12)
	assert.InDelta(t, math.Hypot(1.4, 0.7), s.Displacement, 1e-12)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1.4, 0.7}}, s.Bound)
	assert.InDelta(t, math.Atan2(1, 2), s.MeanHeading.Radians(), 1e-12)

	// Intervals 500, 600, 500.
	assert.InDelta(t, 1600.0/3, s.IntervalMean, 1e-9)
	assert.InDelta(t, math.Sqrt(10000.0/3), s.IntervalStdDev, 1e-9)
}

func TestSummarize_HeadingWrapsAroundSouth(t *testing.T) {
	t.Parallel()

	// Headings either side of ±π average to π, not 0.
	res := &Result{
		Steps:       []int64{0, 1, 2},
		Trajectory:  []Point{{}, {-0.7, 0}, {-1.4, 0}},
		Diagnostics: []StepDiagnostic{{Azimuth: math.Pi - 0.1}, {Azimuth: -math.Pi + 0.1}},
	}
	s := Summarize(res)
	assert.InDelta(t, math.Pi, math.Abs(s.MeanHeading.Radians()), 1e-9)
}

func TestSummarize_Degenerate(t *testing.T) {
	t.Parallel()

	s := Summarize(&Result{Trajectory: []Point{{}}})
	assert.Equal(t, 0, s.Steps)
	assert.Equal(t, 0.0, s.PathLength)
	assert.Equal(t, 0.0, s.IntervalMean)

	s = Summarize(&Result{Steps: []int64{100, 700}, Trajectory: []Point{{}, {0.7, 0}}})
	assert.Equal(t, 600.0, s.IntervalMean)
	assert.Equal(t, 0.0, s.IntervalStdDev)
}

func TestLineString(t *testing.T) {
	t.Parallel()

	ls := LineString([]Point{{1, 2}, {3, 4}})
	assert.Equal(t, orb.LineString{{1, 2}, {3, 4}}, ls)
}
