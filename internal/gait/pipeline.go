// Package gait detects walking steps in phone accelerometer logs and
// dead-reckons a 2D trajectory from them.
//
// The pipeline runs once over a parsed log:
//
//	gravity aligned onto accelerometer timestamps
//	  -> gravity subtracted, remainder projected onto the gravity direction
//	  -> 2nd-order Butterworth low-pass
//	  -> hysteresis step detector (or the phone's step counter)
//	  -> step integrator with the orientation channel
//
// All timestamps are re-based on the first accelerometer sample.
package gait

import (
	"github.com/banshee-data/stepodom/internal/config"
	"github.com/banshee-data/stepodom/internal/monitoring"
	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// Params configures Process.
type Params struct {
	Detector   StepDetector
	Integrator Integrator
	// CutoffHz over the sample rate gives the normalized cutoff.
	CutoffHz   float64
	GravityG0  float64
	StepSource string
}

// DefaultParams matches config/gait.defaults.json.
func DefaultParams() Params {
	return ParamsFromConfig(config.EmptyGaitConfig())
}

// ParamsFromConfig maps a tuning file onto pipeline parameters.
func ParamsFromConfig(c *config.GaitConfig) Params {
	return Params{
		Detector: StepDetector{
			ThresholdLow:  c.GetThresholdLow(),
			ThresholdHigh: c.GetThresholdHigh(),
		},
		Integrator: Integrator{
			StepSize: c.GetStepSizeM(),
			StepTime: c.GetStepTimeMs(),
		},
		CutoffHz:   c.GetCutoffHz(),
		GravityG0:  c.GetGravityG0(),
		StepSource: c.GetStepSource(),
	}
}

// Signal is the vertical acceleration on the accelerometer's timestamps.
type Signal struct {
	Timestamps []int64
	Projected  []float64
	Filtered   []float64
	AccSum     []float64
	SampleRate float64 // Hz
	Cutoff     float64 // normalized, 1 = Nyquist
}

// BuildSignal runs alignment, gravity compensation, projection and the
// low-pass filter over l's accelerometer and gravity channels.
func BuildSignal(l *sensorlog.Log, p Params) (*Signal, error) {
	acc := l.Accelero
	if acc.Len() == 0 {
		return nil, channelError(sensorlog.ChannelAccelero, ErrEmptyChannel)
	}
	if l.Gravity.Len() == 0 {
		return nil, channelError(sensorlog.ChannelGravity, ErrEmptyChannel)
	}
	gx, gy, gz, err := AlignVec3(acc.Timestamps, l.Gravity)
	if err != nil {
		return nil, err
	}

	motion := Compensate(acc, gx, gy, gz, p.GravityG0)
	projected := Project(motion, gx, gy, gz)

	rate, err := SampleRate(acc.Timestamps)
	if err != nil {
		return nil, channelError(sensorlog.ChannelAccelero, err)
	}
	wn := p.CutoffHz / rate
	lp, err := DesignLowPass(wn)
	if err != nil {
		return nil, channelError(sensorlog.ChannelAccelero, err)
	}

	ts := make([]int64, acc.Len())
	copy(ts, acc.Timestamps)
	return &Signal{
		Timestamps: ts,
		Projected:  projected,
		Filtered:   lp.Filter(projected),
		AccSum:     motion.AccSum,
		SampleRate: rate,
		Cutoff:     wn,
	}, nil
}

// Result is the output of one pipeline run. Timestamps are relative to
// Origin.
type Result struct {
	Origin      int64
	Source      string
	Signal      *Signal // nil when the step source did not need it and gravity was absent
	Steps       []int64
	Trajectory  []Point
	Diagnostics []StepDiagnostic
}

// Process runs the full pipeline over l. l is not modified.
func Process(l *sensorlog.Log, p Params) (*Result, error) {
	if l.Accelero.Len() == 0 {
		return nil, channelError(sensorlog.ChannelAccelero, ErrEmptyChannel)
	}
	src, err := NewStepSource(p.StepSource, p.Detector)
	if err != nil {
		return nil, err
	}

	origin := l.Accelero.Timestamps[0]
	rl := l.Rebase(origin)

	res := &Result{Origin: origin, Source: src.Name()}
	if src.NeedsSignal() || rl.Gravity.Len() > 0 {
		if res.Signal, err = BuildSignal(rl, p); err != nil {
			return nil, err
		}
		monitoring.Debugf("gait: %d samples at %.2f Hz, Wn=%.4f", len(res.Signal.Timestamps), res.Signal.SampleRate, res.Signal.Cutoff)
	}

	if res.Steps, err = src.Steps(rl, res.Signal); err != nil {
		return nil, err
	}
	monitoring.Debugf("gait: %d steps from %s", len(res.Steps), src.Name())

	res.Trajectory, res.Diagnostics, err = p.Integrator.Integrate(res.Steps, rl.Orientations)
	if err != nil {
		return nil, err
	}
	for _, d := range res.Diagnostics {
		monitoring.Debugf("gait: step %d: %d ms since last, orientation %d at %d (lag %d ms)",
			d.Step, d.SincePrevious, d.OrientationIndex, d.OrientationTimestamp, d.Lag)
	}
	return res, nil
}
