package sensorlog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/stepodom/internal/fsutil"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		path, suffix, want string
	}{
		{"walk.log", "2015-10-15", "walk-2015-10-15.log"},
		{"/data/run.1/walk.txt", "interactive", "/data/run.1/walk-interactive.txt"},
		{"/data/run.1/walk", "not-foreground", "/data/run.1/walk-not-foreground"},
		{"walk", "x", "walk-x"},
		{"a.b.log", "x", "a.b-x.log"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputName(tt.path, tt.suffix), tt.path)
	}
}

func TestSplitByDate(t *testing.T) {
	// 2015-10-15 23:59:59 UTC, then just after midnight, then a day later.
	in := "1444953599000 accelero 0 0 9.8\n" +
		"1444953599500 start\n" +
		"1444953600000 accelero 0 0 9.7\n" +
		"1444953599900 gravity 0 0 9.81\n" +
		"1445040000000 stopScan\n"

	fsys := fsutil.NewMemoryFileSystem()
	names, err := SplitByDate(strings.NewReader(in), "/logs/walk.log", time.UTC, fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/logs/walk-2015-10-15.log",
		"/logs/walk-2015-10-16.log",
		"/logs/walk-2015-10-17.log",
	}, names)

	day1, err := fsys.ReadFile("/logs/walk-2015-10-15.log")
	require.NoError(t, err)
	// Lines keep file order; the late gravity sample goes back to day one.
	assert.Equal(t, "1444953599000 accelero 0 0 9.8\n1444953599500 start\n1444953599900 gravity 0 0 9.81\n", string(day1))

	day2, err := fsys.ReadFile("/logs/walk-2015-10-16.log")
	require.NoError(t, err)
	assert.Equal(t, "1444953600000 accelero 0 0 9.7\n", string(day2))
}

func TestSplitByDate_BlankLinesSkipped(t *testing.T) {
	in := "1444953599000 accelero 0 0 9.8\n\n   \n1444953600000 accelero 0 0 9.7\n"

	fsys := fsutil.NewMemoryFileSystem()
	names, err := SplitByDate(strings.NewReader(in), "/logs/walk.log", time.UTC, fsys)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	day1, err := fsys.ReadFile("/logs/walk-2015-10-15.log")
	require.NoError(t, err)
	assert.Equal(t, "1444953599000 accelero 0 0 9.8\n", string(day1))
}

func TestSplitByDate_Timezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// 2015-10-16 01:00 UTC is still the 15th in California.
	fsys := fsutil.NewMemoryFileSystem()
	names, err := SplitByDate(strings.NewReader("1444957200000 start\n"), "walk.log", loc, fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"walk-2015-10-15.log"}, names)
}

func TestSplitByDate_MalformedTimestamp(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	_, err := SplitByDate(strings.NewReader("1444953599000 start\nnoon start\n"), "walk.log", time.UTC, fsys)
	require.Error(t, err)

	var malformed *MalformedSampleError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Line)
}

func TestSplitByDate_Empty(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	names, err := SplitByDate(strings.NewReader(""), "walk.log", nil, fsys)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, fsys.Names())
}
