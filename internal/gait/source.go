package gait

import (
	"fmt"

	"github.com/banshee-data/stepodom/internal/config"
	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// StepSource produces the step event sequence fed to the Integrator.
type StepSource interface {
	// Name is the configuration name of the source.
	Name() string
	// NeedsSignal reports whether Steps requires the filtered signal.
	NeedsSignal() bool
	// Steps returns step timestamps on the log's time base. sig may be nil
	// when NeedsSignal is false.
	Steps(l *sensorlog.Log, sig *Signal) ([]int64, error)
}

// DetectorSource derives steps from the filtered vertical acceleration.
type DetectorSource struct {
	Detector StepDetector
}

func (DetectorSource) Name() string      { return config.StepSourceDetector }
func (DetectorSource) NeedsSignal() bool { return true }

func (s DetectorSource) Steps(_ *sensorlog.Log, sig *Signal) ([]int64, error) {
	if sig == nil {
		return nil, fmt.Errorf("%s step source: no signal", s.Name())
	}
	return s.Detector.Detect(sig.Timestamps, sig.Filtered), nil
}

// CounterSource uses the phone's step counter: every stepCount sample is one
// step event.
type CounterSource struct{}

func (CounterSource) Name() string      { return config.StepSourceCounter }
func (CounterSource) NeedsSignal() bool { return false }

func (CounterSource) Steps(l *sensorlog.Log, _ *Signal) ([]int64, error) {
	if l.Steps.Len() == 0 {
		return nil, channelError(sensorlog.ChannelSteps, ErrEmptyChannel)
	}
	steps := make([]int64, len(l.Steps.Timestamps))
	copy(steps, l.Steps.Timestamps)
	return steps, nil
}

// NewStepSource returns the source registered under name.
func NewStepSource(name string, d StepDetector) (StepSource, error) {
	switch name {
	case "", config.StepSourceDetector:
		return DetectorSource{Detector: d}, nil
	case config.StepSourceCounter:
		return CounterSource{}, nil
	}
	return nil, fmt.Errorf("unknown step source %q", name)
}
