package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/scanstats"
)

// ScanBucketPlot draws, for every scan bucket edge, the cumulative number of
// sightings of each interval.
func ScanBucketPlot(st *scanstats.BucketStats) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("Sightings per scan (%d intervals)", len(st.Intervals)), "Time after startScan (ms)", "Number of scans")
	for k, iv := range st.Intervals {
		xys := make(plotter.XYs, len(st.EndTimes))
		for j, end := range st.EndTimes {
			xys[j] = plotter.XY{X: float64(end), Y: float64(iv.Cumulative[j])}
		}
		if err := addLine(p, "", xys, seriesStyle(k)); err != nil {
			return nil, fmt.Errorf("interval %d: %w", k, err)
		}
	}
	return p, nil
}

// ScanAveragePlot draws the average cumulative sightings per bucket edge
// over the intervals that saw anything.
func ScanAveragePlot(st *scanstats.BucketStats) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("Average sightings per scan (%d of %d intervals, mean total %.1f)", st.Valid, len(st.Intervals), st.MeanTotal()),
		"Time after startScan (ms)", "Average number of scans")
	xys := make(plotter.XYs, len(st.EndTimes))
	for j, end := range st.EndTimes {
		xys[j] = plotter.XY{X: float64(end), Y: st.Average[j]}
	}
	if err := addLine(p, "average", xys, seriesStyle(0)); err != nil {
		return nil, err
	}
	return p, nil
}

// RSSIPlot draws every beacon's mean RSSI per scan interval against hours
// since the first scan. Beacons are labelled with their display names.
func RSSIPlot(st *scanstats.RSSIStats) (*plot.Plot, error) {
	p := newPlot("RSSI per scan", "Time (h)", "RSSI")
	for i, s := range st.Series {
		xys := make(plotter.XYs, len(st.Hours))
		for k, h := range st.Hours {
			xys[k] = plotter.XY{X: h, Y: s.Mean[k]}
		}
		if err := addLine(p, s.Label, xys, seriesStyle(i)); err != nil {
			return nil, fmt.Errorf("beacon %s: %w", s.Address, err)
		}
	}
	return p, nil
}

// WriteScanPlots saves scan_buckets.png, scan_average.png and, when rssi is
// not nil, rssi.png into dir.
func WriteScanPlots(fsys fsutil.FileSystem, dir string, buckets *scanstats.BucketStats, rssi *scanstats.RSSIStats) ([]string, error) {
	type job struct {
		name  string
		build func() (*plot.Plot, error)
	}
	jobs := []job{
		{"scan_buckets.png", func() (*plot.Plot, error) { return ScanBucketPlot(buckets) }},
		{"scan_average.png", func() (*plot.Plot, error) { return ScanAveragePlot(buckets) }},
	}
	if rssi != nil {
		jobs = append(jobs, job{"rssi.png", func() (*plot.Plot, error) { return RSSIPlot(rssi) }})
	}

	var paths []string
	for _, j := range jobs {
		p, err := j.build()
		if err != nil {
			return paths, fmt.Errorf("%s: %w", j.name, err)
		}
		path, err := SavePNG(fsys, dir, j.name, p, wideWidth, wideHeight)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
