package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/stepodom/internal/gait"
)

var (
	signalHeader     = []string{"timestamp_ms", "projected", "filtered", "acc_sum", "step"}
	trajectoryHeader = []string{"index", "step_timestamp_ms", "x_m", "y_m"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(w io.Writer, header []string, n int, row func(i int) []string) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("csv write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	return bw.Flush()
}

// WriteSignalCSV writes one row per accelerometer sample of s.
func WriteSignalCSV(w io.Writer, s *gait.Signal, steps []int64) error {
	rows := SignalRows(s, steps)
	return writeCSV(w, signalHeader, len(rows), func(i int) []string {
		r := rows[i]
		step := "0"
		if r.Step {
			step = "1"
		}
		return []string{
			strconv.FormatInt(r.TimestampMs, 10),
			formatFloat(r.Projected),
			formatFloat(r.Filtered),
			formatFloat(r.AccSum),
			step,
		}
	})
}

// WriteTrajectoryCSV writes one row per trajectory point.
func WriteTrajectoryCSV(w io.Writer, traj []gait.Point, steps []int64) error {
	rows := TrajectoryRows(traj, steps)
	return writeCSV(w, trajectoryHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			strconv.FormatInt(r.Index, 10),
			strconv.FormatInt(r.StepTimestampMs, 10),
			formatFloat(r.X),
			formatFloat(r.Y),
		}
	})
}
