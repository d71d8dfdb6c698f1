package gait

// DetectorState is the position of the step detector's hysteresis cycle.
type DetectorState int

const (
	// StateAbove: the signal is at or above the low threshold.
	StateAbove DetectorState = iota
	// StateBelowAwaitingZeroCross: the signal dipped under the low
	// threshold and has not come back above zero.
	StateBelowAwaitingZeroCross
	// StateBelowPastZero: a zero crossing is latched as the step candidate;
	// waiting for the high threshold.
	StateBelowPastZero
)

func (s DetectorState) String() string {
	switch s {
	case StateAbove:
		return "above"
	case StateBelowAwaitingZeroCross:
		return "below-awaiting-zero-cross"
	case StateBelowPastZero:
		return "below-past-zero"
	}
	return "unknown"
}

// StepDetector finds footsteps in the filtered vertical acceleration. A step
// is a dip below ThresholdLow, a rise through zero and a peak above
// ThresholdHigh; it is timed at the zero crossing.
type StepDetector struct {
	ThresholdLow  float64
	ThresholdHigh float64
}

// DefaultStepDetector uses thresholds of ±1 m/s².
func DefaultStepDetector() StepDetector {
	return StepDetector{ThresholdLow: -1, ThresholdHigh: 1}
}

// Detect returns the step timestamps found in sig, in order. ts and sig must
// be the same length.
func (d StepDetector) Detect(ts []int64, sig []float64) []int64 {
	var steps []int64
	state := StateAbove
	var candidate int64
	for i, v := range sig {
		if state == StateAbove {
			// The crossing sample itself is not examined further.
			if v < d.ThresholdLow {
				state = StateBelowAwaitingZeroCross
			}
			continue
		}
		if state == StateBelowAwaitingZeroCross && v > 0 {
			state = StateBelowPastZero
			candidate = ts[i]
		}
		if state == StateBelowPastZero && v > d.ThresholdHigh {
			steps = append(steps, candidate)
			state = StateAbove
		}
	}
	return steps
}
