package export

import (
	"fmt"
	"io"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/banshee-data/stepodom/internal/gait"
)

// parquetParallelism is the number of goroutines the writer marshals with.
const parquetParallelism = 4

func marshalParquet[T any](rows []T) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(T), parquetParallelism)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return fw.Bytes(), nil
}

// WriteSignalParquet writes the processed signal as a SNAPPY-compressed
// Parquet file.
func WriteSignalParquet(w io.Writer, s *gait.Signal, steps []int64) error {
	data, err := marshalParquet(SignalRows(s, steps))
	if err != nil {
		return fmt.Errorf("marshal signal parquet: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteTrajectoryParquet writes the trajectory as a SNAPPY-compressed
// Parquet file.
func WriteTrajectoryParquet(w io.Writer, traj []gait.Point, steps []int64) error {
	data, err := marshalParquet(TrajectoryRows(traj, steps))
	if err != nil {
		return fmt.Errorf("marshal trajectory parquet: %w", err)
	}
	_, err = w.Write(data)
	return err
}
