// Command splitlog splits a sensor log into one file per calendar date.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/stepodom/internal/config"
	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/sensorlog"
	"github.com/banshee-data/stepodom/internal/units"
	"github.com/banshee-data/stepodom/internal/version"
)

type Config struct {
	ShowVersion bool
	LogPath     string
	Timezone    string
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
		fmt.Println(version.String("splitlog"))
		return
	}
	if err := run(cfg, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func parseFlags(args []string, rt config.Runtime) (Config, error) {
	cfg := Config{}
	fs := flag.NewFlagSet("splitlog", flag.ContinueOnError)
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.StringVar(&cfg.Timezone, "tz", rt.Timezone, "Timezone that decides the calendar date (IANA name or Local)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: splitlog [-tz zone] <logfile>\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, fmt.Errorf("expected exactly one log file")
	}
	cfg.LogPath = fs.Arg(0)
	return cfg, nil
}

func run(cfg Config, fsys fsutil.FileSystem, stdout io.Writer) error {
	loc, err := units.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}
	f, err := os.Open(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	names, err := sensorlog.SplitByDate(f, cfg.LogPath, loc, fsys)
	if err != nil {
		return fmt.Errorf("split %s: %w", cfg.LogPath, err)
	}
	for _, name := range names {
		fmt.Fprintf(stdout, "New file: %s\n", name)
	}
	return nil
}
