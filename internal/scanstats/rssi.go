package scanstats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// Unseen is the RSSI reported for a beacon that was not sighted during a scan.
const Unseen = -100

// RSSISeries is one beacon's average RSSI per scan interval.
type RSSISeries struct {
	Address string
	Label   string
	Mean    []float64
	Count   []int
}

// RSSIStats holds one series per beacon, in the order beacons were first seen.
type RSSIStats struct {
	Starts []int64
	// Hours since the first startScan, for plotting.
	Hours  []float64
	Series []RSSISeries
}

// RSSI averages each beacon's RSSI over every scan interval. Sightings are
// consumed in file order up to each interval's stopScan. names maps
// addresses to display labels and may be nil.
func RSSI(l *sensorlog.Log, names map[string]string) *RSSIStats {
	scans := l.Scans
	index := make(map[string]int)
	st := &RSSIStats{}
	for _, addr := range scans.Address {
		if _, ok := index[addr]; ok {
			continue
		}
		index[addr] = len(st.Series)
		label := addr
		if name, ok := names[addr]; ok {
			label = name
		}
		st.Series = append(st.Series, RSSISeries{Address: addr, Label: label})
	}

	stops := sortedCopy(l.ScanStops.Timestamps)
	sums := make([]float64, len(st.Series))
	counts := make([]int, len(st.Series))
	i := 0
	for _, start := range l.ScanStarts.Timestamps {
		stop, ok := firstStopAfter(stops, start)
		if !ok {
			continue
		}
		st.Starts = append(st.Starts, start)
		st.Hours = append(st.Hours, float64(start-st.Starts[0])/1000/3600)

		for k := range sums {
			sums[k], counts[k] = 0, 0
		}
		for i < scans.Len() && scans.Timestamps[i] < stop {
			k := index[scans.Address[i]]
			sums[k] += float64(scans.RSSI[i])
			counts[k]++
			i++
		}
		for k := range st.Series {
			s := &st.Series[k]
			s.Count = append(s.Count, counts[k])
			if counts[k] == 0 {
				s.Mean = append(s.Mean, Unseen)
			} else {
				s.Mean = append(s.Mean, sums[k]/float64(counts[k]))
			}
		}
	}
	return st
}

// LoadNames reads a map of beacon addresses to labels from a .json, .yaml
// or .yml file.
func LoadNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read beacon names: %w", err)
	}
	var names map[string]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &names)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &names)
	default:
		return nil, fmt.Errorf("beacon names file must be .json, .yaml or .yml, got %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse beacon names %s: %w", path, err)
	}
	return names, nil
}
