// Command stepodom detects steps in a phone sensor log and dead-reckons the
// walked trajectory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/stepodom/internal/config"
	"github.com/banshee-data/stepodom/internal/db"
	"github.com/banshee-data/stepodom/internal/export"
	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/gait"
	"github.com/banshee-data/stepodom/internal/monitoring"
	"github.com/banshee-data/stepodom/internal/report"
	"github.com/banshee-data/stepodom/internal/security"
	"github.com/banshee-data/stepodom/internal/sensorlog"
	"github.com/banshee-data/stepodom/internal/units"
	"github.com/banshee-data/stepodom/internal/version"
)

// Config holds the command-line settings.
type Config struct {
	ShowVersion bool
	LogPath     string
	ConfigPath  string
	Source      string
	OutDir      string
	DBPath      string
	FloorDir    string
	Units       string
	Plots       bool
	HTML        bool
	Parquet     bool
	CSV         bool
	Verbose     bool
}

func main() {
	rt, err := config.LoadRuntime()
	if err != nil {
		log.Fatalf("environment: %v", err)
	}
	cfg, err := parseFlags(os.Args[1:], rt)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("%v", err)
	}
	if cfg.ShowVersion {
		fmt.Println(version.String("stepodom"))
		return
	}
	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func parseFlags(args []string, rt config.Runtime) (Config, error) {
	cfg := Config{}
	fs := flag.NewFlagSet("stepodom", flag.ContinueOnError)
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.StringVar(&cfg.LogPath, "log", "", "Sensor log file (or first positional argument)")
	fs.StringVar(&cfg.ConfigPath, "config", rt.Config, "Gait tuning JSON file (default: built-in values)")
	fs.StringVar(&cfg.Source, "source", "", "Step source: detector|counter (overrides the tuning file)")
	fs.StringVar(&cfg.OutDir, "out", rt.OutDir, "Output directory; artifacts go to <out>/<log name>/")
	fs.StringVar(&cfg.DBPath, "db", rt.DBPath, "SQLite database to record the run in (optional)")
	fs.StringVar(&cfg.FloorDir, "floors", "", "Directory of <floor>.png images drawn under annotated paths")
	fs.StringVar(&cfg.Units, "units", units.Meters, "Units for the printed summary: "+units.GetValidUnitsString())
	fs.BoolVar(&cfg.Plots, "plots", false, "Write PNG plots")
	fs.BoolVar(&cfg.HTML, "html", false, "Write an interactive HTML report")
	fs.BoolVar(&cfg.Parquet, "parquet", false, "Export signal and trajectory as Parquet")
	fs.BoolVar(&cfg.CSV, "csv", false, "Export signal and trajectory as CSV")
	fs.BoolVar(&cfg.Verbose, "verbose", rt.Verbose, "Log per-step diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: stepodom [options] [logfile]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.LogPath == "" && fs.NArg() > 0 {
		cfg.LogPath = fs.Arg(0)
	}
	if cfg.LogPath == "" {
		return cfg, fmt.Errorf("a log file is required")
	}
	if cfg.Source != "" && cfg.Source != config.StepSourceDetector && cfg.Source != config.StepSourceCounter {
		return cfg, fmt.Errorf("invalid -source %q (expected %s|%s)", cfg.Source, config.StepSourceDetector, config.StepSourceCounter)
	}
	if !units.IsValid(cfg.Units) {
		return cfg, fmt.Errorf("invalid -units %q (expected one of %s)", cfg.Units, units.GetValidUnitsString())
	}
	return cfg, nil
}

func loadParams(cfg Config) (gait.Params, error) {
	gc := config.EmptyGaitConfig()
	if cfg.ConfigPath != "" {
		var err error
		if gc, err = config.LoadGaitConfig(cfg.ConfigPath); err != nil {
			return gait.Params{}, err
		}
	}
	p := gait.ParamsFromConfig(gc)
	if cfg.Source != "" {
		p.StepSource = cfg.Source
	}
	return p, nil
}

// runName is the log file name without its extension, safe for use as a
// directory name.
func runName(logPath string) string {
	base := filepath.Base(logPath)
	return security.SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
}

func run(ctx context.Context, cfg Config, stdout io.Writer) error {
	monitoring.SetVerbose(cfg.Verbose)

	params, err := loadParams(cfg)
	if err != nil {
		return fmt.Errorf("load gait config: %w", err)
	}
	l, err := sensorlog.ParseFile(cfg.LogPath)
	if err != nil {
		return err
	}
	res, err := gait.Process(l, params)
	if err != nil {
		return fmt.Errorf("process %s: %w", cfg.LogPath, err)
	}
	sum := gait.Summarize(res)
	printSummary(stdout, cfg, res, sum)

	fsys := fsutil.OSFileSystem{}
	dir := filepath.Join(cfg.OutDir, runName(cfg.LogPath))
	var written []string

	for _, format := range []struct {
		enabled bool
		name    string
	}{
		{cfg.CSV, export.FormatCSV},
		{cfg.Parquet, export.FormatParquet},
	} {
		if !format.enabled {
			continue
		}
		paths, err := export.WriteResult(fsys, dir, res, format.name)
		written = append(written, paths...)
		if err != nil {
			return fmt.Errorf("export %s: %w", format.name, err)
		}
	}

	if cfg.Plots {
		floors := sensorlog.FloorPaths(l.Annotations)
		backgrounds, err := loadFloorImages(cfg.FloorDir, floors)
		if err != nil {
			return err
		}
		paths, err := report.WriteRunPlots(fsys, dir, res, params.Detector, floors, backgrounds)
		written = append(written, paths...)
		if err != nil {
			return fmt.Errorf("plots: %w", err)
		}
	}

	if cfg.HTML {
		path, err := writeHTML(fsys, dir, res, params.Detector, runName(cfg.LogPath))
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	for _, path := range written {
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}

	if cfg.DBPath != "" {
		store, err := db.NewDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer store.Close()
		runID, err := store.RecordRun(ctx, db.NewRunRecord(cfg.LogPath, res, sum))
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Fprintf(stdout, "recorded run %s in %s\n", runID, cfg.DBPath)
	}
	return nil
}

func printSummary(w io.Writer, cfg Config, res *gait.Result, sum gait.Summary) {
	length := func(m float64) float64 { return units.ConvertLength(m, cfg.Units) }
	last := res.Trajectory[len(res.Trajectory)-1]

	fmt.Fprintf(w, "log:          %s\n", cfg.LogPath)
	fmt.Fprintf(w, "source:       %s\n", res.Source)
	if res.Signal != nil {
		fmt.Fprintf(w, "sample rate:  %.2f Hz (Wn=%.4f)\n", res.Signal.SampleRate, res.Signal.Cutoff)
	}
	fmt.Fprintf(w, "steps:        %d\n", sum.Steps)
	if sum.Steps >= 2 {
		fmt.Fprintf(w, "interval:     %.0f ± %.0f ms\n", sum.IntervalMean, sum.IntervalStdDev)
		fmt.Fprintf(w, "heading:      %.1f°\n", sum.MeanHeading.Degrees())
	}
	fmt.Fprintf(w, "path length:  %.2f %s\n", length(sum.PathLength), cfg.Units)
	fmt.Fprintf(w, "displacement: %.2f %s\n", length(sum.Displacement), cfg.Units)
	fmt.Fprintf(w, "final:        (%.2f, %.2f) %s\n", length(last.X), length(last.Y), cfg.Units)
	fmt.Fprintf(w, "extent:       %.2f x %.2f %s\n",
		length(math.Abs(sum.Bound.Max[0]-sum.Bound.Min[0])),
		length(math.Abs(sum.Bound.Max[1]-sum.Bound.Min[1])), cfg.Units)
}

// loadFloorImages reads <dir>/<floor>.png for every annotated floor that has
// one. Missing images are skipped.
func loadFloorImages(dir string, floors []sensorlog.FloorPath) (map[string]image.Image, error) {
	if dir == "" {
		return nil, nil
	}
	images := make(map[string]image.Image)
	for _, fp := range floors {
		path := filepath.Join(dir, fp.Floor+".png")
		if err := security.ValidatePathWithinDirectory(path, dir); err != nil {
			return nil, fmt.Errorf("floor %q: %w", fp.Floor, err)
		}
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			monitoring.Logf("no floor image %s", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		images[fp.Floor] = img
	}
	return images, nil
}

func writeHTML(fsys fsutil.FileSystem, dir string, res *gait.Result, d gait.StepDetector, title string) (string, error) {
	w, path, err := fsutil.CreateIn(fsys, dir, "report.html")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteHTML(w, res, report.HTMLOptions{Title: title, Detector: d}); err != nil {
		_ = w.Close()
		return "", err
	}
	return path, w.Close()
}
