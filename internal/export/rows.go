// Package export writes pipeline results as CSV or Parquet tables.
package export

import (
	"github.com/banshee-data/stepodom/internal/gait"
)

// SignalRow is one accelerometer sample of the processed signal.
type SignalRow struct {
	TimestampMs int64   `parquet:"name=timestamp_ms, type=INT64"`
	Projected   float64 `parquet:"name=projected, type=DOUBLE"`
	Filtered    float64 `parquet:"name=filtered, type=DOUBLE"`
	AccSum      float64 `parquet:"name=acc_sum, type=DOUBLE"`
	Step        bool    `parquet:"name=step, type=BOOLEAN"`
}

// TrajectoryRow is one integrated position. StepTimestampMs is -1 for the
// origin of a run with no steps.
type TrajectoryRow struct {
	Index           int64   `parquet:"name=index, type=INT64"`
	StepTimestampMs int64   `parquet:"name=step_timestamp_ms, type=INT64"`
	X               float64 `parquet:"name=x_m, type=DOUBLE"`
	Y               float64 `parquet:"name=y_m, type=DOUBLE"`
}

// SignalRows flattens s, marking the samples that carry a step.
func SignalRows(s *gait.Signal, steps []int64) []SignalRow {
	if s == nil {
		return nil
	}
	isStep := make(map[int64]bool, len(steps))
	for _, ts := range steps {
		isStep[ts] = true
	}
	rows := make([]SignalRow, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		rows[i] = SignalRow{
			TimestampMs: ts,
			Projected:   s.Projected[i],
			Filtered:    s.Filtered[i],
			AccSum:      s.AccSum[i],
			Step:        isStep[ts],
		}
	}
	return rows
}

// TrajectoryRows pairs each trajectory point with the step that produced it.
func TrajectoryRows(traj []gait.Point, steps []int64) []TrajectoryRow {
	rows := make([]TrajectoryRow, len(traj))
	for i, p := range traj {
		ts := int64(-1)
		if i < len(steps) {
			ts = steps[i]
		}
		rows[i] = TrajectoryRow{Index: int64(i), StepTimestampMs: ts, X: p.X, Y: p.Y}
	}
	return rows
}
