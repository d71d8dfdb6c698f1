// Package scanstats summarizes the BLE scan blocks of a sensor log: how many
// advertisements arrive over the course of a scan, and how each beacon's
// signal strength evolves from one scan to the next.
package scanstats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/stepodom/internal/monitoring"
	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// BucketConfig divides the start of each scan into fixed-width buckets.
type BucketConfig struct {
	Buckets int
	Step    int64 // bucket width, ms
}

// DefaultBucketConfig covers the first five seconds of a scan in 250 ms steps.
func DefaultBucketConfig() BucketConfig {
	return BucketConfig{Buckets: 20, Step: 250}
}

func (c BucketConfig) validate() error {
	if c.Buckets <= 0 {
		return fmt.Errorf("buckets must be positive, got %d", c.Buckets)
	}
	if c.Step <= 0 {
		return fmt.Errorf("bucket step must be positive, got %d", c.Step)
	}
	return nil
}

// Interval is one startScan..stopScan block.
type Interval struct {
	Start, Stop int64
	// Cumulative[j] counts sightings in [Start, Start+(j+1)*Step).
	Cumulative []int
	// Total counts every sighting before Stop.
	Total int
}

// BucketStats are cumulative sighting counts per scan.
type BucketStats struct {
	// EndTimes[j] is the upper edge of bucket j, ms after startScan.
	EndTimes  []int64
	Intervals []Interval
	// Valid counts intervals with at least one sighting; only those
	// contribute to the averages.
	Valid           int
	Average         []float64
	AverageFraction []float64 // of the interval's total
}

// firstStopAfter returns the first stop strictly after start.
func firstStopAfter(stops []int64, start int64) (int64, bool) {
	i := sort.Search(len(stops), func(i int) bool { return stops[i] > start })
	if i == len(stops) {
		return 0, false
	}
	return stops[i], true
}

// sortedCopy returns ts in ascending order without touching the caller's slice.
func sortedCopy(ts []int64) []int64 {
	out := make([]int64, len(ts))
	copy(out, ts)
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Buckets counts scan sightings in cumulative buckets after every startScan.
// Sightings are consumed in file order, so each is counted in at most one
// interval. A startScan with no later stopScan is skipped.
func Buckets(l *sensorlog.Log, cfg BucketConfig) (*BucketStats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	st := &BucketStats{EndTimes: make([]int64, cfg.Buckets)}
	for j := range st.EndTimes {
		st.EndTimes[j] = int64(j+1) * cfg.Step
	}

	stops := sortedCopy(l.ScanStops.Timestamps)
	scans := l.Scans.Timestamps
	i := 0
	for _, start := range l.ScanStarts.Timestamps {
		stop, ok := firstStopAfter(stops, start)
		if !ok {
			monitoring.Logf("scanstats: startScan at %d has no stopScan, skipped", start)
			continue
		}

		iv := Interval{Start: start, Stop: stop, Cumulative: make([]int, cfg.Buckets)}
		num := 0
		for j, end := range st.EndTimes {
			for i < len(scans) && scans[i] < start+end {
				if scans[i] >= start {
					num++
				}
				i++
			}
			iv.Cumulative[j] = num
		}
		for i < len(scans) && scans[i] < stop {
			num++
			i++
		}
		iv.Total = num
		st.Intervals = append(st.Intervals, iv)
	}

	st.Average = make([]float64, cfg.Buckets)
	st.AverageFraction = make([]float64, cfg.Buckets)
	counts := make([]float64, 0, len(st.Intervals))
	fractions := make([]float64, 0, len(st.Intervals))
	for j := 0; j < cfg.Buckets; j++ {
		counts, fractions = counts[:0], fractions[:0]
		for _, iv := range st.Intervals {
			if iv.Total == 0 {
				continue
			}
			counts = append(counts, float64(iv.Cumulative[j]))
			fractions = append(fractions, float64(iv.Cumulative[j])/float64(iv.Total))
		}
		if len(counts) == 0 {
			continue
		}
		st.Average[j] = stat.Mean(counts, nil)
		st.AverageFraction[j] = stat.Mean(fractions, nil)
	}
	for _, iv := range st.Intervals {
		if iv.Total > 0 {
			st.Valid++
		}
	}
	return st, nil
}

// CumulativeSeries returns the counts of bucket j for every interval, in
// interval order.
func (s *BucketStats) CumulativeSeries(j int) []float64 {
	out := make([]float64, len(s.Intervals))
	for k, iv := range s.Intervals {
		out[k] = float64(iv.Cumulative[j])
	}
	return out
}

// MeanTotal is the average number of sightings per valid interval.
func (s *BucketStats) MeanTotal() float64 {
	if s.Valid == 0 {
		return 0
	}
	totals := make([]float64, 0, s.Valid)
	for _, iv := range s.Intervals {
		if iv.Total > 0 {
			totals = append(totals, float64(iv.Total))
		}
	}
	return floats.Sum(totals) / float64(len(totals))
}
