package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/stepodom/internal/fsutil"
	"github.com/banshee-data/stepodom/internal/gait"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// ParseFormat normalizes a format name; "" means parquet.
func ParseFormat(s string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(s))
	if format == "" {
		format = FormatParquet
	}
	if format != FormatParquet && format != FormatCSV {
		return "", fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	return format, nil
}

// WriteResult writes signal.<format> and trajectory.<format> for res into
// dir and returns the created paths. The signal table is skipped when res
// has no signal.
func WriteResult(fsys fsutil.FileSystem, dir string, res *gait.Result, format string) ([]string, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	var paths []string
	write := func(name string, fn func(io.Writer) error) error {
		w, path, err := fsutil.CreateIn(fsys, dir, name+"."+format)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := fn(w); err != nil {
			_ = w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	}

	if res.Signal != nil {
		err := write("signal", func(w io.Writer) error {
			if format == FormatCSV {
				return WriteSignalCSV(w, res.Signal, res.Steps)
			}
			return WriteSignalParquet(w, res.Signal, res.Steps)
		})
		if err != nil {
			return paths, err
		}
	}
	err = write("trajectory", func(w io.Writer) error {
		if format == FormatCSV {
			return WriteTrajectoryCSV(w, res.Trajectory, res.Steps)
		}
		return WriteTrajectoryParquet(w, res.Trajectory, res.Steps)
	})
	return paths, err
}
