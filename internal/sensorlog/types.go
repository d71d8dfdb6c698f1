// Package sensorlog reads the line-oriented sensor event logs written by the
// phone-side logger and splits them into typed, per-channel sequences.
//
// Every channel is stored column-wise: a Timestamps slice (milliseconds
// since the epoch, or since a re-based origin) plus one slice per field, all
// of equal length and in file order. Channels are never sorted here; file
// order is preserved so that consumers can decide how to treat the
// out-of-order timestamps that show up around scan boundaries.
package sensorlog

// Channel names, used in error messages and summaries.
const (
	ChannelScans            = "scans"
	ChannelScanStarts       = "scanStarts"
	ChannelScanStops        = "scanStops"
	ChannelPhoneInteractive = "phoneInteractive"
	ChannelAppForeground    = "appForeGround"
	ChannelAnnotations      = "annotations"
	ChannelOrientations     = "orientations"
	ChannelSteps            = "steps"
	ChannelGyro             = "gyro"
	ChannelAccelero         = "accelero"
	ChannelGravity          = "gravity"
)

// Log event names as they appear in the second column of a log line.
const (
	EventScan             = "onScan"
	EventStartScan        = "startScan"
	EventStopScan         = "stopScan"
	EventPhoneInteractive = "phoneInteractive"
	EventAppForeground    = "appForeGround"
	EventAppBackground    = "appBackGround"
	EventSetLocation      = "setLocation"
	EventOrientation      = "orientation"
	EventStepCount        = "stepCount"
	EventAccelero         = "accelero"
	EventGyro             = "gyro"
	EventGravity          = "gravity"
)

// Vec3Channel is a three-axis sensor stream (accelerometer, gyroscope, gravity).
type Vec3Channel struct {
	Name       string
	Timestamps []int64
	X, Y, Z    []float64
}

// Len returns the number of samples.
func (c Vec3Channel) Len() int { return len(c.Timestamps) }

// OrientationChannel holds device orientation readings in radians.
type OrientationChannel struct {
	Timestamps []int64
	Azimuth    []float64
	Pitch      []float64
	Roll       []float64
}

func (c OrientationChannel) Len() int { return len(c.Timestamps) }

// StepChannel holds the platform step counter pulses.
type StepChannel struct {
	Timestamps []int64
	NumSteps   []int
}

func (c StepChannel) Len() int { return len(c.Timestamps) }

// ScanChannel holds individual BLE advertisement sightings.
type ScanChannel struct {
	Timestamps     []int64
	Address        []string
	RSSI           []int
	CalibratedRSSI []int
}

func (c ScanChannel) Len() int { return len(c.Timestamps) }

// EventChannel holds events without a payload (scan start/stop).
type EventChannel struct {
	Timestamps []int64
}

func (c EventChannel) Len() int { return len(c.Timestamps) }

// StateChannel holds boolean state changes (interactive, foreground).
type StateChannel struct {
	Timestamps []int64
	Active     []bool
}

func (c StateChannel) Len() int { return len(c.Timestamps) }

// AnnotationChannel holds user-entered positions. Floor is an opaque label.
type AnnotationChannel struct {
	Timestamps []int64
	Floor      []string
	X, Y       []float64
}

func (c AnnotationChannel) Len() int { return len(c.Timestamps) }

// Log is one parsed log file.
type Log struct {
	Scans            ScanChannel
	ScanStarts       EventChannel
	ScanStops        EventChannel
	PhoneInteractive StateChannel
	AppForeground    StateChannel
	Annotations      AnnotationChannel
	Orientations     OrientationChannel
	Steps            StepChannel
	Gyro             Vec3Channel
	Accelero         Vec3Channel
	Gravity          Vec3Channel
}

// NewLog returns an empty log with the vector channels named.
func NewLog() *Log {
	return &Log{
		Gyro:     Vec3Channel{Name: ChannelGyro},
		Accelero: Vec3Channel{Name: ChannelAccelero},
		Gravity:  Vec3Channel{Name: ChannelGravity},
	}
}

// Counts returns the number of samples per channel.
func (l *Log) Counts() map[string]int {
	return map[string]int{
		ChannelScans:            l.Scans.Len(),
		ChannelScanStarts:       l.ScanStarts.Len(),
		ChannelScanStops:        l.ScanStops.Len(),
		ChannelPhoneInteractive: l.PhoneInteractive.Len(),
		ChannelAppForeground:    l.AppForeground.Len(),
		ChannelAnnotations:      l.Annotations.Len(),
		ChannelOrientations:     l.Orientations.Len(),
		ChannelSteps:            l.Steps.Len(),
		ChannelGyro:             l.Gyro.Len(),
		ChannelAccelero:         l.Accelero.Len(),
		ChannelGravity:          l.Gravity.Len(),
	}
}

// Rebase returns a copy of the log with origin subtracted from every
// timestamp of every channel. The receiver is not modified.
func (l *Log) Rebase(origin int64) *Log {
	shift := func(ts []int64) []int64 {
		if ts == nil {
			return nil
		}
		out := make([]int64, len(ts))
		for i, t := range ts {
			out[i] = t - origin
		}
		return out
	}
	vec := func(c Vec3Channel) Vec3Channel {
		return Vec3Channel{Name: c.Name, Timestamps: shift(c.Timestamps), X: c.X, Y: c.Y, Z: c.Z}
	}

	out := *l
	out.Scans.Timestamps = shift(l.Scans.Timestamps)
	out.ScanStarts.Timestamps = shift(l.ScanStarts.Timestamps)
	out.ScanStops.Timestamps = shift(l.ScanStops.Timestamps)
	out.PhoneInteractive.Timestamps = shift(l.PhoneInteractive.Timestamps)
	out.AppForeground.Timestamps = shift(l.AppForeground.Timestamps)
	out.Annotations.Timestamps = shift(l.Annotations.Timestamps)
	out.Orientations.Timestamps = shift(l.Orientations.Timestamps)
	out.Steps.Timestamps = shift(l.Steps.Timestamps)
	out.Gyro = vec(l.Gyro)
	out.Accelero = vec(l.Accelero)
	out.Gravity = vec(l.Gravity)
	return &out
}
