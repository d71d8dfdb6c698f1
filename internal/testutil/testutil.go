// Package testutil provides shared test utilities and fixtures.
//
// Most fixtures are sensor logs built in memory with LogBuilder, so tests
// can describe a walk in a few lines instead of shipping capture files.
package testutil

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// BaseTimestamp is a convenient epoch origin (2015-12-13 09:46:40 UTC) for
// synthetic logs.
const BaseTimestamp int64 = 1_450_000_000_000

// LogBuilder accumulates sensor log lines.
type LogBuilder struct {
	lines []string
}

// NewLogBuilder returns an empty builder.
func NewLogBuilder() *LogBuilder {
	return &LogBuilder{}
}

// Line appends "<ts> <event> <fields...>". Floats are written in the
// shortest form that round-trips.
func (b *LogBuilder) Line(ts int64, event string, fields ...any) *LogBuilder {
	parts := make([]string, 0, len(fields)+2)
	parts = append(parts, strconv.FormatInt(ts, 10), event)
	for _, f := range fields {
		switch v := f.(type) {
		case float64:
			parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	b.lines = append(b.lines, strings.Join(parts, " "))
	return b
}

// Raw appends a line verbatim.
func (b *LogBuilder) Raw(line string) *LogBuilder {
	b.lines = append(b.lines, line)
	return b
}

func (b *LogBuilder) Accelero(ts int64, x, y, z float64) *LogBuilder {
	return b.Line(ts, "accelero", x, y, z)
}

func (b *LogBuilder) Gravity(ts int64, x, y, z float64) *LogBuilder {
	return b.Line(ts, "gravity", x, y, z)
}

func (b *LogBuilder) Gyro(ts int64, x, y, z float64) *LogBuilder {
	return b.Line(ts, "gyro", x, y, z)
}

func (b *LogBuilder) Orientation(ts int64, azimuth, pitch, roll float64) *LogBuilder {
	return b.Line(ts, "orientation", azimuth, pitch, roll)
}

// StepCount writes the counter the way the phone does, as a float.
func (b *LogBuilder) StepCount(ts int64, n int) *LogBuilder {
	return b.Line(ts, "stepCount", strconv.Itoa(n)+".0")
}

// ScanBlock appends startScan, one onScan per address, and stopScan. Each
// line is 1 ms after the previous one.
func (b *LogBuilder) ScanBlock(ts int64, rssi map[string]int, order ...string) *LogBuilder {
	b.Line(ts, "startScan")
	for i, addr := range order {
		b.Line(ts+int64(i)+1, "onScan", addr, rssi[addr], rssi[addr]+5)
	}
	return b.Line(ts+int64(len(order))+1, "stopScan")
}

// String returns the log text, one line per entry with a trailing newline.
func (b *LogBuilder) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Reader returns the log text as an io.Reader.
func (b *LogBuilder) Reader() io.Reader {
	return strings.NewReader(b.String())
}

// Walk describes a synthetic walk: a vertical sinusoid on top of gravity,
// sampled by the accelerometer at RateHz, with a constant gravity vector and
// a constant heading.
type Walk struct {
	Start      int64
	RateHz     float64
	Duration   float64 // seconds
	StepHz     float64
	Amplitude  float64 // m/s²
	Azimuth    float64 // radians
	Gravity    float64 // m/s², along +z
	GravityHz  float64 // gravity sample rate; 0 uses RateHz
	HeadingHz  float64 // orientation sample rate; 0 uses RateHz
	StepCounts []int   // optional counter values, one per second
}

// DefaultWalk is two seconds at 100 Hz of a 1 Hz, 3 m/s² oscillation
// heading north. The filtered signal dips below -1 twice.
func DefaultWalk() Walk {
	return Walk{
		Start:     BaseTimestamp,
		RateHz:    100,
		Duration:  2,
		StepHz:    1,
		Amplitude: 3,
		Gravity:   9.81,
	}
}

// Builder renders the walk into a LogBuilder. The vertical acceleration is
// Gravity - Amplitude·sin(2π·StepHz·t), so the projected motion starts by
// falling.
func (w Walk) Builder() *LogBuilder {
	b := NewLogBuilder()
	n := int(math.Round(w.Duration * w.RateHz))
	gravHz, headHz := w.GravityHz, w.HeadingHz
	if gravHz == 0 {
		gravHz = w.RateHz
	}
	if headHz == 0 {
		headHz = w.RateHz
	}
	gravEvery := int(math.Max(1, math.Round(w.RateHz/gravHz)))
	headEvery := int(math.Max(1, math.Round(w.RateHz/headHz)))

	for i := 0; i < n; i++ {
		t := float64(i) / w.RateHz
		ts := w.Start + int64(math.Round(t*1000))
		if i%gravEvery == 0 {
			b.Gravity(ts, 0, 0, w.Gravity)
		}
		if i%headEvery == 0 {
			b.Orientation(ts, w.Azimuth, 0, 0)
		}
		b.Accelero(ts, 0, 0, w.Gravity-w.Amplitude*math.Sin(2*math.Pi*w.StepHz*t))
	}
	for i, c := range w.StepCounts {
		b.StepCount(w.Start+int64(i)*1000, c)
	}
	return b
}
