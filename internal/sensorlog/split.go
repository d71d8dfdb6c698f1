package sensorlog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/units"
)

// OutputName inserts suffix before the extension of path:
// "walk.log" + "2015-10-15" gives "walk-2015-10-15.log".
func OutputName(path, suffix string) string {
	dot := strings.LastIndex(path, ".")
	if dot < 0 || strings.ContainsRune(path[dot:], '/') {
		return path + "-" + suffix
	}
	return path[:dot] + "-" + suffix + path[dot:]
}

// SplitByDate copies every line of r into one file per calendar date of the
// line's timestamp, evaluated in loc. Files are named with OutputName(path,
// date) and created through fsys. Blank lines are skipped as in Parse. It
// returns the created file names in the order their dates were first seen.
func SplitByDate(r io.Reader, path string, loc *time.Location, fsys fsutil.FileSystem) ([]string, error) {
	if loc == nil {
		loc = time.Local
	}

	type output struct {
		name string
		w    io.WriteCloser
		bw   *bufio.Writer
	}
	outputs := make(map[string]*output)
	var order []string

	closeAll := func() error {
		var first error
		for _, date := range order {
			o := outputs[date]
			if err := o.bw.Flush(); err != nil && first == nil {
				first = fmt.Errorf("flush %s: %w", o.name, err)
			}
			if err := o.w.Close(); err != nil && first == nil {
				first = fmt.Errorf("close %s: %w", o.name, err)
			}
		}
		return first
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		field, _, _ := strings.Cut(line, " ")
		ts, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			_ = closeAll()
			return nil, &MalformedSampleError{Line: lineNo, Err: fmt.Errorf("timestamp: %w", err)}
		}

		date := units.LogDate(ts, loc)
		o, ok := outputs[date]
		if !ok {
			name := OutputName(path, date)
			w, err := fsys.Create(name)
			if err != nil {
				_ = closeAll()
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
			o = &output{name: name, w: w, bw: bufio.NewWriter(w)}
			outputs[date] = o
			order = append(order, date)
		}
		if _, err := o.bw.WriteString(line + "\n"); err != nil {
			_ = closeAll()
			return nil, fmt.Errorf("write %s: %w", o.name, err)
		}
	}
	if err := sc.Err(); err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("read log: %w", err)
	}
	if err := closeAll(); err != nil {
		return nil, err
	}

	names := make([]string, len(order))
	for i, date := range order {
		names[i] = outputs[date].name
	}
	return names, nil
}
