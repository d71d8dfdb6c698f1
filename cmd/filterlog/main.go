// Command filterlog keeps the scan blocks of a sensor log that were recorded
// while the phone was (or was not) interactive or in the foreground.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/sensorlog"
)

const usage = "Usage: filterlog [not] <interactive|foreground> <logfile>"

type Config struct {
	LogPath string
	Options sensorlog.FilterOptions
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		log.Fatalf("%v", err)
	}
	if err := run(cfg, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func parseArgs(args []string) (Config, error) {
	var cfg Config
	if len(args) > 0 && args[0] == "not" {
		cfg.Options.Invert = true
		args = args[1:]
	}
	if len(args) != 2 {
		return cfg, fmt.Errorf("expected a filter and a log file")
	}
	kind, err := sensorlog.ParseFilterKind(args[0])
	if err != nil {
		return cfg, err
	}
	cfg.Options.Kind = kind
	cfg.LogPath = args[1]
	return cfg, nil
}

func run(cfg Config, fsys fsutil.FileSystem, stdout io.Writer) error {
	in, err := os.Open(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer in.Close()

	name := sensorlog.OutputName(cfg.LogPath, cfg.Options.OutputSuffix())
	out, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	stats, err := sensorlog.Filter(in, out, cfg.Options)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("filter %s: %w", cfg.LogPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	fmt.Fprintf(stdout, "%s: kept %d scan blocks, %d of %d lines\n", name, stats.ScanBlocks, stats.LinesWritten, stats.LinesRead)
	return nil
}
