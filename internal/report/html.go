package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/stepodom/internal/gait"
)

// HTMLOptions configures WriteHTML.
type HTMLOptions struct {
	Title string
	// AssetsHost overrides where echarts.min.js is loaded from; empty uses
	// the go-echarts default CDN.
	AssetsHost string
	Detector   gait.StepDetector
}

func initOpts(o HTMLOptions, width, height string) opts.Initialization {
	return opts.Initialization{PageTitle: o.Title, Width: width, Height: height, AssetsHost: o.AssetsHost}
}

func signalChart(res *gait.Result, o HTMLOptions) *charts.Line {
	s := res.Signal
	x := make([]string, len(s.Timestamps))
	projected := make([]opts.LineData, len(s.Timestamps))
	filtered := make([]opts.LineData, len(s.Timestamps))
	accSum := make([]opts.LineData, len(s.Timestamps))
	index := make(map[int64]int, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		x[i] = fmt.Sprintf("%.3f", seconds(ts))
		projected[i] = opts.LineData{Value: s.Projected[i]}
		filtered[i] = opts.LineData{Value: s.Filtered[i]}
		accSum[i] = opts.LineData{Value: s.AccSum[i]}
		index[ts] = i
	}

	marks := make([]opts.MarkPointNameCoordItem, 0, len(res.Steps))
	for n, ts := range res.Steps {
		if i, ok := index[ts]; ok {
			marks = append(marks, opts.MarkPointNameCoordItem{
				Name:       fmt.Sprintf("step %d", n),
				Coordinate: []interface{}{x[i], s.Filtered[i]},
				Symbol:     "circle",
				SymbolSize: 8,
			})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(o, "100%", "480px")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Vertical acceleration",
			Subtitle: fmt.Sprintf("%d samples at %.2f Hz, %d steps from %s", len(s.Timestamps), s.SampleRate, len(res.Steps), res.Source),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m/s²"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x).
		AddSeries("projected", projected).
		AddSeries("filtered", filtered,
			charts.WithMarkLineNameYAxisItemOpts(
				opts.MarkLineNameYAxisItem{Name: "low", YAxis: o.Detector.ThresholdLow},
				opts.MarkLineNameYAxisItem{Name: "high", YAxis: o.Detector.ThresholdHigh},
			),
			charts.WithMarkPointNameCoordItemOpts(marks...),
		).
		AddSeries("sum", accSum)
	return line
}

func trajectoryChart(traj []gait.Point, o HTMLOptions) *charts.Scatter {
	data := make([]opts.ScatterData, len(traj))
	for i, pt := range traj {
		data[i] = opts.ScatterData{Value: []interface{}{pt.X, pt.Y, i}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(o, "720px", "720px")),
		charts.WithTitleOpts(opts.Title{Title: "Trajectory", Subtitle: fmt.Sprintf("points=%d", len(traj))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("trajectory", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

// WriteHTML renders a page with the signal line chart (when res has a
// signal) and the trajectory scatter.
func WriteHTML(w io.Writer, res *gait.Result, o HTMLOptions) error {
	if o.Title == "" {
		o.Title = "Step odometry"
	}
	page := components.NewPage()
	page.PageTitle = o.Title
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}
	if res.Signal != nil {
		page.AddCharts(signalChart(res, o))
	}
	page.AddCharts(trajectoryChart(res.Trajectory, o))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
