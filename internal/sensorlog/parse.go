package sensorlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/stepodom/internal/monitoring"
)

// MalformedSampleError reports a log line whose fields do not match its
// declared event type. Parsing stops at the first such line.
type MalformedSampleError struct {
	Line  int
	Event string
	Err   error
}

func (e *MalformedSampleError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("line %d: malformed sample: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: malformed %s sample: %v", e.Line, e.Event, e.Err)
}

func (e *MalformedSampleError) Unwrap() error { return e.Err }

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return l, nil
}

// Parse reads a whole log. Lines have the form
//
//	<timestamp_ms> <event> [field ...]
//
// separated by single spaces. Unknown events are ignored and blank lines are
// skipped; a known event with missing or unparsable fields aborts the parse
// with a *MalformedSampleError.
func Parse(r io.Reader) (*Log, error) {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 4*1024*1024)

	l := NewLog()
	scanning := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r\n")
		if line == "" {
			continue
		}
		cols := strings.Split(line, " ")
		if len(cols) < 2 {
			return nil, &MalformedSampleError{Line: lineNo, Err: fmt.Errorf("expected timestamp and event, got %q", line)}
		}
		p := lineParser{cols: cols}
		ts := p.int64At(0)

		switch cols[1] {
		case EventScan:
			addr := p.stringAt(2)
			rssi := p.intAt(3)
			cal := p.intAt(4)
			if p.err == nil {
				l.Scans.Timestamps = append(l.Scans.Timestamps, ts)
				l.Scans.Address = append(l.Scans.Address, addr)
				l.Scans.RSSI = append(l.Scans.RSSI, rssi)
				l.Scans.CalibratedRSSI = append(l.Scans.CalibratedRSSI, cal)
			}

		case EventStartScan:
			if p.err == nil {
				if scanning {
					monitoring.Logf("sensorlog: line %d: startScan at %d while already scanning", lineNo, ts)
				}
				scanning = true
				l.ScanStarts.Timestamps = append(l.ScanStarts.Timestamps, ts)
			}

		case EventStopScan:
			if p.err == nil {
				scanning = false
				l.ScanStops.Timestamps = append(l.ScanStops.Timestamps, ts)
			}

		case EventPhoneInteractive:
			active := p.intAt(2)
			if p.err == nil {
				l.PhoneInteractive.Timestamps = append(l.PhoneInteractive.Timestamps, ts)
				l.PhoneInteractive.Active = append(l.PhoneInteractive.Active, active != 0)
			}

		case EventAppForeground, EventAppBackground:
			if p.err == nil {
				l.AppForeground.Timestamps = append(l.AppForeground.Timestamps, ts)
				l.AppForeground.Active = append(l.AppForeground.Active, cols[1] == EventAppForeground)
			}

		case EventSetLocation:
			floor := p.stringAt(2)
			x := p.floatAt(3)
			y := p.floatAt(4)
			if p.err == nil {
				l.Annotations.Timestamps = append(l.Annotations.Timestamps, ts)
				l.Annotations.Floor = append(l.Annotations.Floor, floor)
				l.Annotations.X = append(l.Annotations.X, x)
				l.Annotations.Y = append(l.Annotations.Y, y)
			}

		case EventOrientation:
			az := p.floatAt(2)
			pitch := p.floatAt(3)
			roll := p.floatAt(4)
			if p.err == nil {
				l.Orientations.Timestamps = append(l.Orientations.Timestamps, ts)
				l.Orientations.Azimuth = append(l.Orientations.Azimuth, az)
				l.Orientations.Pitch = append(l.Orientations.Pitch, pitch)
				l.Orientations.Roll = append(l.Orientations.Roll, roll)
			}

		case EventStepCount:
			// The counter is logged as a float ("12.0"); truncate like int(float(x)).
			n := p.floatAt(2)
			if p.err == nil {
				l.Steps.Timestamps = append(l.Steps.Timestamps, ts)
				l.Steps.NumSteps = append(l.Steps.NumSteps, int(n))
			}

		case EventAccelero:
			p.appendVec3(&l.Accelero, ts)
		case EventGyro:
			p.appendVec3(&l.Gyro, ts)
		case EventGravity:
			p.appendVec3(&l.Gravity, ts)

		default:
			continue
		}

		if p.err != nil {
			return nil, &MalformedSampleError{Line: lineNo, Event: cols[1], Err: p.err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return l, nil
}

// lineParser extracts typed columns, remembering the first failure so a
// case can read all its fields before checking once.
type lineParser struct {
	cols []string
	err  error
}

func (p *lineParser) stringAt(i int) string {
	if p.err != nil {
		return ""
	}
	if i >= len(p.cols) {
		p.err = fmt.Errorf("missing field %d (have %d columns)", i, len(p.cols))
		return ""
	}
	return p.cols[i]
}

func (p *lineParser) int64At(i int) int64 {
	s := p.stringAt(i)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("field %d: %w", i, err)
	}
	return v
}

func (p *lineParser) intAt(i int) int {
	return int(p.int64At(i))
}

func (p *lineParser) floatAt(i int) float64 {
	s := p.stringAt(i)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("field %d: %w", i, err)
	}
	return v
}

func (p *lineParser) appendVec3(c *Vec3Channel, ts int64) {
	x := p.floatAt(2)
	y := p.floatAt(3)
	z := p.floatAt(4)
	if p.err != nil {
		return
	}
	c.Timestamps = append(c.Timestamps, ts)
	c.X = append(c.X, x)
	c.Y = append(c.Y, y)
	c.Z = append(c.Z, z)
}
