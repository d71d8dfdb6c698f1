package gait

import (
	"math"

	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// Point is a trajectory position in meters.
type Point struct {
	X, Y float64
}

// StepDiagnostic records how one integrated step was resolved.
type StepDiagnostic struct {
	Step                 int   // index into the step sequence, from 1
	Timestamp            int64 // step time
	SincePrevious        int64 // ms since the previous step
	OrientationIndex     int
	OrientationTimestamp int64
	Lag                  int64 // Timestamp - OrientationTimestamp
	Azimuth              float64
}

// Integrator turns step events into a dead-reckoned trajectory.
type Integrator struct {
	StepSize float64 // meters per step
	StepTime int64   // nominal inter-step period, ms
}

// DefaultIntegrator uses 0.7 m steps and a 300 ms step period.
func DefaultIntegrator() Integrator {
	return Integrator{StepSize: 0.7, StepTime: 300}
}

// Integrate walks the steps in order. The first step only anchors the origin;
// each later step moves StepSize along the azimuth of the selected
// orientation sample and appends the new position.
//
// Orientation samples are scanned forward from where the previous step left
// off, skipping every sample at least StepTime/2 older than the step. The
// last skipped sample is the one used, not the first recent one. If no
// sample is skipped for a step, sample 0 is used, unless the channel has
// already run out, in which case the last sample is used.
func (g Integrator) Integrate(steps []int64, o sensorlog.OrientationChannel) ([]Point, []StepDiagnostic, error) {
	traj := []Point{{}}
	if len(steps) < 2 {
		return traj, nil, nil
	}
	n := o.Len()
	if n == 0 {
		return nil, nil, channelError(sensorlog.ChannelOrientations, ErrEmptyChannel)
	}

	half := g.StepTime / 2
	diags := make([]StepDiagnostic, 0, len(steps)-1)
	var x, y float64
	next := 0
	for k := 1; k < len(steps); k++ {
		ts := steps[k]
		best, skipped := 0, false
		for next < n && ts-o.Timestamps[next] >= half {
			best = next
			next++
			skipped = true
		}
		if !skipped && next == n {
			best = n - 1
		}

		az := o.Azimuth[best]
		x += g.StepSize * math.Cos(az)
		y += g.StepSize * math.Sin(az)
		traj = append(traj, Point{X: x, Y: y})

		diags = append(diags, StepDiagnostic{
			Step:                 k,
			Timestamp:            ts,
			SincePrevious:        ts - steps[k-1],
			OrientationIndex:     best,
			OrientationTimestamp: o.Timestamps[best],
			Lag:                  ts - o.Timestamps[best],
			Azimuth:              az,
		})
	}
	return traj, diags, nil
}
