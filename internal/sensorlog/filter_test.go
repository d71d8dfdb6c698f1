package sensorlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interactiveLog = `100 startScan
101 onScan aa -60 -55
102 stopScan
200 phoneInteractive 0
300 startScan
301 onScan bb -70 -65
302 stopScan
400 phoneInteractive 1
500 accelero 0 0 9.8
600 startScan
601 onScan cc -80 -75
650 phoneInteractive 0
700 stopScan
800 phoneInteractive 1
900 onScan dd -90 -85
1000 startScan
1001 onScan ee -50 -45
1002 stopScan
`

func TestFilter_Interactive(t *testing.T) {
	var out bytes.Buffer
	stats, err := Filter(strings.NewReader(interactiveLog), &out, FilterOptions{Kind: FilterInteractive})
	require.NoError(t, err)

	// Block 1 passes (the filter starts open), block 2 is blocked, block 3
	// is cut by the state change, and block 4 passes. Block 3's stopScan was
	// never seen while passing, so the scan is still open when the stray
	// sighting at 900 arrives and it is written with block 4.
	want := "100 startScan\n101 onScan aa -60 -55\n102 stopScan\n" +
		"900 onScan dd -90 -85\n" +
		"1000 startScan\n1001 onScan ee -50 -45\n1002 stopScan\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, FilterStats{LinesRead: 18, LinesWritten: 7, ScanBlocks: 2}, stats)
}

func TestFilter_NotInteractive(t *testing.T) {
	var out bytes.Buffer
	_, err := Filter(strings.NewReader(interactiveLog), &out, FilterOptions{Kind: FilterInteractive, Invert: true})
	require.NoError(t, err)

	// The interactive filter starts open even when inverted. The stopScan at
	// 700 is written alone since its block was discarded on the state change.
	want := "100 startScan\n101 onScan aa -60 -55\n102 stopScan\n" +
		"300 startScan\n301 onScan bb -70 -65\n302 stopScan\n" +
		"700 stopScan\n"
	assert.Equal(t, want, out.String())
}

func TestFilter_Foreground(t *testing.T) {
	in := "100 startScan\n101 onScan aa -60 -55\n102 stopScan\n" +
		"200 appForeGround\n" +
		"300 startScan\n301 onScan bb -70 -65\n302 stopScan\n" +
		"400 appBackGround\n" +
		"500 startScan\n501 onScan cc -80 -75\n502 stopScan\n"

	var out bytes.Buffer
	_, err := Filter(strings.NewReader(in), &out, FilterOptions{Kind: FilterForeground})
	require.NoError(t, err)
	assert.Equal(t, "300 startScan\n301 onScan bb -70 -65\n302 stopScan\n", out.String())

	out.Reset()
	_, err = Filter(strings.NewReader(in), &out, FilterOptions{Kind: FilterForeground, Invert: true})
	require.NoError(t, err)
	// The foreground filter starts blocked even when inverted.
	assert.Equal(t, "500 startScan\n501 onScan cc -80 -75\n502 stopScan\n", out.String())
}

func TestFilter_StrayScansDropped(t *testing.T) {
	var out bytes.Buffer
	in := "50 onScan zz -1 -1\n100 startScan\n101 onScan aa -60 -55\n102 stopScan\n103 onScan zz -1 -1\n"
	_, err := Filter(strings.NewReader(in), &out, FilterOptions{Kind: FilterInteractive})
	require.NoError(t, err)
	assert.Equal(t, "100 startScan\n101 onScan aa -60 -55\n102 stopScan\n", out.String())
}

func TestFilter_BlankLinesSkipped(t *testing.T) {
	in := "100 startScan\n\n101 onScan aa -60 -55\n  \n102 stopScan\n\n"

	l, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Scans.Len())

	var out bytes.Buffer
	stats, err := Filter(strings.NewReader(in), &out, FilterOptions{Kind: FilterInteractive})
	require.NoError(t, err)
	assert.Equal(t, "100 startScan\n101 onScan aa -60 -55\n102 stopScan\n", out.String())
	assert.Equal(t, 1, stats.ScanBlocks)
	assert.Equal(t, 3, stats.LinesWritten)
}

func TestFilter_Errors(t *testing.T) {
	var out bytes.Buffer
	_, err := Filter(strings.NewReader(""), &out, FilterOptions{Kind: "sleeping"})
	assert.Error(t, err)

	_, err = Filter(strings.NewReader("100 phoneInteractive\n"), &out, FilterOptions{Kind: FilterInteractive})
	assert.Error(t, err)

	_, err = Filter(strings.NewReader("100\n"), &out, FilterOptions{Kind: FilterInteractive})
	assert.Error(t, err)
}

func TestParseFilterKind(t *testing.T) {
	k, err := ParseFilterKind("foreground")
	require.NoError(t, err)
	assert.Equal(t, FilterForeground, k)

	_, err = ParseFilterKind("background")
	assert.Error(t, err)
}

func TestFilterOptions_OutputSuffix(t *testing.T) {
	assert.Equal(t, "interactive", FilterOptions{Kind: FilterInteractive}.OutputSuffix())
	assert.Equal(t, "not-foreground", FilterOptions{Kind: FilterForeground, Invert: true}.OutputSuffix())
}
