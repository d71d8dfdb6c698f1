package gait

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a pipeline run for printing and persistence.
type Summary struct {
	Steps        int
	PathLength   float64 // meters walked
	Displacement float64 // meters from origin to final position
	Bound        orb.Bound
	// MeanHeading is the circular mean of the azimuths used, in (-π, π].
	MeanHeading s1.Angle
	// Step interval statistics in ms; zero with fewer than two steps.
	IntervalMean   float64
	IntervalStdDev float64
}

// LineString converts a trajectory to an orb geometry.
func LineString(traj []Point) orb.LineString {
	ls := make(orb.LineString, len(traj))
	for i, p := range traj {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls
}

// Summarize computes trajectory geometry and step timing statistics.
func Summarize(r *Result) Summary {
	s := Summary{Steps: len(r.Steps)}

	ls := LineString(r.Trajectory)
	if len(ls) > 0 {
		s.PathLength = planar.Length(ls)
		s.Displacement = planar.Distance(ls[0], ls[len(ls)-1])
		s.Bound = ls.Bound()
	}

	if len(r.Diagnostics) > 0 {
		var sin, cos float64
		for _, d := range r.Diagnostics {
			sin += math.Sin(d.Azimuth)
			cos += math.Cos(d.Azimuth)
		}
		s.MeanHeading = s1.Angle(math.Atan2(sin, cos)).Normalized()
	}

	if len(r.Steps) >= 2 {
		intervals := make([]float64, len(r.Steps)-1)
		for i := 1; i < len(r.Steps); i++ {
			intervals[i-1] = float64(r.Steps[i] - r.Steps[i-1])
		}
		if len(intervals) == 1 {
			s.IntervalMean = intervals[0]
		} else {
			s.IntervalMean, s.IntervalStdDev = stat.MeanStdDev(intervals, nil)
		}
	}
	return s
}
