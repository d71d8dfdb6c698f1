package sensorlog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FilterKind selects the phone state that gates scan blocks.
type FilterKind string

const (
	FilterInteractive FilterKind = "interactive"
	FilterForeground  FilterKind = "foreground"
)

// ParseFilterKind validates a filter name given on the command line.
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(s) {
	case FilterInteractive, FilterForeground:
		return FilterKind(s), nil
	}
	return "", fmt.Errorf("unknown filter %q (expected %s|%s)", s, FilterInteractive, FilterForeground)
}

// FilterOptions configures Filter.
type FilterOptions struct {
	Kind FilterKind
	// Invert keeps the scans recorded while the state was off instead.
	Invert bool
}

// OutputSuffix is the file name suffix for a filtered copy, e.g. "not-interactive".
func (o FilterOptions) OutputSuffix() string {
	if o.Invert {
		return "not-" + string(o.Kind)
	}
	return string(o.Kind)
}

// FilterStats counts lines seen and written by Filter.
type FilterStats struct {
	LinesRead    int
	LinesWritten int
	ScanBlocks   int
}

// Filter copies complete scan blocks (startScan, onScan..., stopScan) from r
// to w, keeping only blocks recorded while the selected state passes.
//
// The interactive filter starts in the passing state, the foreground filter
// starts blocked. A state change discards any partially buffered block; a
// block is only written once its stopScan arrives. Blank lines are skipped
// as in Parse.
func Filter(r io.Reader, w io.Writer, opts FilterOptions) (FilterStats, error) {
	var stats FilterStats
	if _, err := ParseFilterKind(string(opts.Kind)); err != nil {
		return stats, err
	}

	bw := bufio.NewWriter(w)
	pass := opts.Kind == FilterInteractive
	scanning := false
	var pending []string

	write := func(line string) error {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
		stats.LinesWritten++
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		stats.LinesRead++
		line := sc.Text()
		trimmed := strings.TrimRight(line, " \t\r\n")
		if trimmed == "" {
			continue
		}
		cols := strings.Split(trimmed, " ")
		if len(cols) < 2 {
			return stats, &MalformedSampleError{Line: stats.LinesRead, Err: fmt.Errorf("expected timestamp and event, got %q", line)}
		}
		event := cols[1]

		switch {
		case event == EventPhoneInteractive && opts.Kind == FilterInteractive:
			if len(cols) < 3 {
				return stats, &MalformedSampleError{Line: stats.LinesRead, Event: event, Err: fmt.Errorf("missing field 2")}
			}
			if cols[2] == "1" {
				pass = !opts.Invert
			} else {
				pass = opts.Invert
			}
			pending = pending[:0]
		case event == EventAppForeground && opts.Kind == FilterForeground:
			pass = !opts.Invert
			pending = pending[:0]
		case event == EventAppBackground && opts.Kind == FilterForeground:
			pass = opts.Invert
			pending = pending[:0]
		}

		if !pass {
			continue
		}
		switch event {
		case EventScan:
			if scanning {
				pending = append(pending, line)
			}
		case EventStartScan:
			scanning = true
			pending = append(pending, line)
		case EventStopScan:
			for _, l := range pending {
				if err := write(l); err != nil {
					return stats, err
				}
			}
			pending = pending[:0]
			scanning = false
			if err := write(line); err != nil {
				return stats, err
			}
			stats.ScanBlocks++
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read log: %w", err)
	}
	return stats, bw.Flush()
}
