// Package report renders pipeline and scan statistics as PNG plots and
// an interactive HTML page.
package report

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/gait"
	"github.com/banshee-data/stepodom/internal/security"
	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// ErrNoSignal is returned when a plot needs the accelerometer signal but the
// run did not build one.
var ErrNoSignal = errors.New("run has no accelerometer signal")

const (
	wideWidth    = 14 * vg.Inch
	wideHeight   = 6 * vg.Inch
	squareLength = 8 * vg.Inch
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

func addLine(p *plot.Plot, label string, xys plotter.XYs, style draw.LineStyle) error {
	if len(xys) == 0 {
		return nil
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	l.LineStyle = style
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

func seconds(ms int64) float64 { return float64(ms) / 1000 }

// SignalPlot draws the projected, filtered and summed acceleration of res
// against time, with the detector thresholds and a marker on every step.
func SignalPlot(res *gait.Result, d gait.StepDetector) (*plot.Plot, error) {
	s := res.Signal
	if s == nil {
		return nil, ErrNoSignal
	}
	p := newPlot(fmt.Sprintf("Vertical acceleration (%d steps, %s)", len(res.Steps), res.Source), "Time (s)", "Acceleration (m/s²)")

	projected := make(plotter.XYs, len(s.Timestamps))
	filtered := make(plotter.XYs, len(s.Timestamps))
	accSum := make(plotter.XYs, len(s.Timestamps))
	index := make(map[int64]int, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		x := seconds(ts)
		projected[i] = plotter.XY{X: x, Y: s.Projected[i]}
		filtered[i] = plotter.XY{X: x, Y: s.Filtered[i]}
		accSum[i] = plotter.XY{X: x, Y: s.AccSum[i]}
		index[ts] = i
	}

	for i, series := range []struct {
		label string
		xys   plotter.XYs
	}{
		{"projected", projected},
		{"filtered", filtered},
		{"sum", accSum},
	} {
		if err := addLine(p, series.label, series.xys, seriesStyle(i)); err != nil {
			return nil, err
		}
	}

	if n := len(s.Timestamps); n > 0 {
		x0, x1 := seconds(s.Timestamps[0]), seconds(s.Timestamps[n-1])
		threshold := draw.LineStyle{Color: color.Gray{Y: 96}, Width: vg.Points(0.5), Dashes: dashPatterns[1]}
		for _, y := range []float64{d.ThresholdLow, d.ThresholdHigh} {
			if err := addLine(p, "", plotter.XYs{{X: x0, Y: y}, {X: x1, Y: y}}, threshold); err != nil {
				return nil, err
			}
		}
	}

	marks := make(plotter.XYs, 0, len(res.Steps))
	for _, ts := range res.Steps {
		i, ok := index[ts]
		if !ok {
			// Counter steps need not fall on an accelerometer sample.
			marks = append(marks, plotter.XY{X: seconds(ts), Y: 0})
			continue
		}
		marks = append(marks, plotter.XY{X: seconds(ts), Y: s.Filtered[i]})
	}
	if len(marks) > 0 {
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("steps: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Color = color.Black
		p.Add(sc)
		p.Legend.Add("steps", sc)
	}
	return p, nil
}

func pointsXY(traj []gait.Point) plotter.XYs {
	xys := make(plotter.XYs, len(traj))
	for i, pt := range traj {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

// TrajectoryPlot draws the dead-reckoned path, starting at the origin.
func TrajectoryPlot(traj []gait.Point) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("Trajectory (%d points)", len(traj)), "X (m)", "Y (m)")
	xys := pointsXY(traj)
	if err := addLine(p, "path", xys, seriesStyle(0)); err != nil {
		return nil, err
	}
	if len(xys) > 0 {
		start, err := plotter.NewScatter(xys[:1])
		if err != nil {
			return nil, err
		}
		start.GlyphStyle.Shape = draw.BoxGlyph{}
		start.GlyphStyle.Radius = vg.Points(3)
		p.Add(start)
		p.Legend.Add("start", start)
	}
	return p, nil
}

// FloorPlots draws the annotated walk of every floor, in path order. When
// backgrounds holds an image for a floor, the path is drawn over it in
// image pixel coordinates, y pointing down.
func FloorPlots(paths []sensorlog.FloorPath, backgrounds map[string]image.Image) ([]*plot.Plot, error) {
	plots := make([]*plot.Plot, 0, len(paths))
	for _, fp := range paths {
		p := newPlot(fp.Floor, "x (px)", "y (px)")
		flip := 1.0
		if img, ok := backgrounds[fp.Floor]; ok {
			b := img.Bounds()
			p.Add(plotter.NewImage(img, 0, -float64(b.Dy()), float64(b.Dx()), 0))
			flip = -1
		}
		xys := make(plotter.XYs, len(fp.X))
		for i := range fp.X {
			xys[i] = plotter.XY{X: fp.X[i], Y: flip * fp.Y[i]}
		}
		if err := addLine(p, "", xys, seriesStyle(0)); err != nil {
			return nil, fmt.Errorf("floor %s: %w", fp.Floor, err)
		}
		plots = append(plots, p)
	}
	return plots, nil
}

// SavePNG writes p to dir/name through fsys and returns the file path.
func SavePNG(fsys fsutil.FileSystem, dir, name string, p *plot.Plot, width, height vg.Length) (string, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	w, path, err := fsutil.CreateIn(fsys, dir, name)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// WriteRunPlots saves signal.png (when the run has a signal),
// trajectory.png and one floor_<label>.png per annotated floor into dir.
// Floor labels are sanitized before use in file names.
func WriteRunPlots(fsys fsutil.FileSystem, dir string, res *gait.Result, d gait.StepDetector, floors []sensorlog.FloorPath, backgrounds map[string]image.Image) ([]string, error) {
	var paths []string
	if res.Signal != nil {
		p, err := SignalPlot(res, d)
		if err != nil {
			return paths, err
		}
		path, err := SavePNG(fsys, dir, "signal.png", p, wideWidth, wideHeight)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	p, err := TrajectoryPlot(res.Trajectory)
	if err != nil {
		return paths, err
	}
	path, err := SavePNG(fsys, dir, "trajectory.png", p, squareLength, squareLength)
	if err != nil {
		return paths, err
	}
	paths = append(paths, path)

	fps, err := FloorPlots(floors, backgrounds)
	if err != nil {
		return paths, err
	}
	for i, fp := range fps {
		path, err := SavePNG(fsys, dir, "floor_"+security.SanitizeFilename(floors[i].Floor)+".png", fp, squareLength, squareLength)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
