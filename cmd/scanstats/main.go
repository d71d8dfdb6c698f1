// Command scanstats reports how BLE sightings accumulate within scan
// intervals and how each beacon's RSSI varies over a log.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/banshee-data/stepodom/internal/config"
	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/report"
	"github.com/banshee-data/stepodom/internal/scanstats"
	"github.com/banshee-data/stepodom/internal/sensorlog"
	"github.com/banshee-data/stepodom/internal/version"
)

type Config struct {
	ShowVersion bool
	LogPath     string
	Buckets     int
	Step        int64
	OutDir      string
	NamesPath   string
	Plots       bool
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
		fmt.Println(version.String("scanstats"))
		return
	}
	if err := run(cfg, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func parseFlags(args []string, rt config.Runtime) (Config, error) {
	def := scanstats.DefaultBucketConfig()
	cfg := Config{}
	fs := flag.NewFlagSet("scanstats", flag.ContinueOnError)
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.StringVar(&cfg.LogPath, "log", "", "Sensor log file (or first positional argument)")
	fs.IntVar(&cfg.Buckets, "buckets", def.Buckets, "Number of time buckets after each startScan")
	fs.Int64Var(&cfg.Step, "step", def.Step, "Bucket width in ms")
	fs.StringVar(&cfg.OutDir, "out", rt.OutDir, "Output directory; plots go to <out>/<log name>/")
	fs.StringVar(&cfg.NamesPath, "names", "", "JSON or YAML map of beacon address to label")
	fs.BoolVar(&cfg.Plots, "plots", true, "Write PNG plots")
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
	return cfg, nil
}

func run(cfg Config, fsys fsutil.FileSystem, stdout io.Writer) error {
	var names map[string]string
	if cfg.NamesPath != "" {
		var err error
		if names, err = scanstats.LoadNames(cfg.NamesPath); err != nil {
			return err
		}
	}

	l, err := sensorlog.ParseFile(cfg.LogPath)
	if err != nil {
		return err
	}
	buckets, err := scanstats.Buckets(l, scanstats.BucketConfig{Buckets: cfg.Buckets, Step: cfg.Step})
	if err != nil {
		return err
	}
	rssi := scanstats.RSSI(l, names)

	printBuckets(stdout, buckets)
	printRSSI(stdout, rssi)

	if !cfg.Plots {
		return nil
	}
	base := filepath.Base(cfg.LogPath)
	dir := filepath.Join(cfg.OutDir, strings.TrimSuffix(base, filepath.Ext(base)))
	paths, err := report.WriteScanPlots(fsys, dir, buckets, rssi)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(stdout, "wrote %s\n", p)
	}
	return nil
}

func printBuckets(w io.Writer, st *scanstats.BucketStats) {
	fmt.Fprintf(w, "%d scan intervals, %d with sightings, %.1f sightings on average\n",
		len(st.Intervals), st.Valid, st.MeanTotal())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "after (ms)\taverage\tfraction\t")
	for j, end := range st.EndTimes {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t\n", end, st.Average[j], st.AverageFraction[j])
	}
	tw.Flush()
}

func printRSSI(w io.Writer, st *scanstats.RSSIStats) {
	if len(st.Series) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "beacon\taddress\tseen in\tsightings")
	for _, s := range st.Series {
		seen, total := 0, 0
		for _, c := range s.Count {
			if c > 0 {
				seen++
			}
			total += c
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\n", s.Label, s.Address, seen, len(s.Count), total)
	}
	tw.Flush()
}
