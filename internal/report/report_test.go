package report

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/gait"
	"github.com/banshee-data/stepodom/internal/scanstats"
	"github.com/banshee-data/stepodom/internal/sensorlog"
	"github.com/banshee-data/stepodom/internal/testutil"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func processWalk(t *testing.T) *gait.Result {
	t.Helper()
	l, err := sensorlog.Parse(testutil.DefaultWalk().Builder().Reader())
	require.NoError(t, err)
	res, err := gait.Process(l, gait.DefaultParams())
	require.NoError(t, err)
	return res
}

func requirePNG(t *testing.T, fsys *fsutil.MemoryFileSystem, path string) {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func TestSignalPlot(t *testing.T) {
	res := processWalk(t)
	p, err := SignalPlot(res, gait.DefaultStepDetector())
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "2 steps")

	_, err = SignalPlot(&gait.Result{Trajectory: []gait.Point{{}}}, gait.DefaultStepDetector())
	assert.True(t, errors.Is(err, ErrNoSignal))
}

func TestWriteRunPlots(t *testing.T) {
	res := processWalk(t)
	floors := []sensorlog.FloorPath{
		{Floor: "floor1", Timestamps: []int64{0, 1000}, X: []float64{10, 40}, Y: []float64{20, 20}},
		{Floor: "floor2", Timestamps: []int64{2000}, X: []float64{5}, Y: []float64{5}},
	}
	backgrounds := map[string]image.Image{
		"floor2": image.NewRGBA(image.Rect(0, 0, 64, 32)),
	}

	mfs := fsutil.NewMemoryFileSystem()
	paths, err := WriteRunPlots(mfs, "/plots", res, gait.DefaultStepDetector(), floors, backgrounds)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/plots/signal.png",
		"/plots/trajectory.png",
		"/plots/floor_floor1.png",
		"/plots/floor_floor2.png",
	}, paths)
	for _, p := range paths {
		requirePNG(t, mfs, p)
	}
}

func TestWriteRunPlots_NoSignal(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	res := &gait.Result{Trajectory: []gait.Point{{}}}
	paths, err := WriteRunPlots(mfs, "/plots", res, gait.DefaultStepDetector(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/plots/trajectory.png"}, paths)
}

func TestFloorPlots_FlipsOverBackground(t *testing.T) {
	floors := []sensorlog.FloorPath{{Floor: "f", X: []float64{1, 2}, Y: []float64{3, 4}}}
	plots, err := FloorPlots(floors, map[string]image.Image{"f": image.NewGray(image.Rect(0, 0, 10, 10))})
	require.NoError(t, err)
	require.Len(t, plots, 1)
	assert.Equal(t, "f", plots[0].Title.Text)
	assert.LessOrEqual(t, plots[0].Y.Max, 0.0)
}

func scanLog(t *testing.T) *sensorlog.Log {
	t.Helper()
	b := testutil.NewLogBuilder().
		ScanBlock(1000, map[string]int{"AA": -60, "BB": -80}, "AA", "BB").
		ScanBlock(3000, map[string]int{"AA": -70}, "AA")
	l, err := sensorlog.Parse(b.Reader())
	require.NoError(t, err)
	return l
}

func TestWriteScanPlots(t *testing.T) {
	l := scanLog(t)
	buckets, err := scanstats.Buckets(l, scanstats.DefaultBucketConfig())
	require.NoError(t, err)
	rssi := scanstats.RSSI(l, map[string]string{"AA": "hans"})

	mfs := fsutil.NewMemoryFileSystem()
	paths, err := WriteScanPlots(mfs, "/scans", buckets, rssi)
	require.NoError(t, err)
	assert.Equal(t, []string{"/scans/scan_buckets.png", "/scans/scan_average.png", "/scans/rssi.png"}, paths)
	for _, p := range paths {
		requirePNG(t, mfs, p)
	}

	paths, err = WriteScanPlots(mfs, "/scans", buckets, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestWriteHTML(t *testing.T) {
	res := processWalk(t)
	var buf bytes.Buffer
	err := WriteHTML(&buf, res, HTMLOptions{Title: "walk-2015-10-15", Detector: gait.DefaultStepDetector()})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "walk-2015-10-15")
	assert.Contains(t, html, "echarts")
	for _, series := range []string{"projected", "filtered", "trajectory"} {
		assert.Contains(t, html, series)
	}
	assert.Contains(t, html, "2 steps from detector")
}

func TestWriteHTML_TrajectoryOnly(t *testing.T) {
	var buf bytes.Buffer
	res := &gait.Result{Source: "counter", Trajectory: []gait.Point{{}, {X: 0.7}}}
	require.NoError(t, WriteHTML(&buf, res, HTMLOptions{}))

	html := buf.String()
	assert.Contains(t, html, "Step odometry")
	assert.Contains(t, html, "trajectory")
	assert.False(t, strings.Contains(html, "Vertical acceleration"))
}
