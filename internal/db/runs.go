package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/stepodom/internal/gait"
)

// ErrRunNotFound is returned when a run ID has no row in runs.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is everything stored for one pipeline run.
type RunRecord struct {
	LogPath      string
	StepSource   string
	OriginMs     int64
	SampleRateHz float64 // 0 when no signal was built
	Cutoff       float64
	Steps        []int64
	Trajectory   []gait.Point
	PathLengthM  float64
}

// NewRunRecord collects a pipeline result and its summary for storage.
func NewRunRecord(logPath string, res *gait.Result, sum gait.Summary) RunRecord {
	rec := RunRecord{
		LogPath:     logPath,
		StepSource:  res.Source,
		OriginMs:    res.Origin,
		Steps:       res.Steps,
		Trajectory:  res.Trajectory,
		PathLengthM: sum.PathLength,
	}
	if res.Signal != nil {
		rec.SampleRateHz = res.Signal.SampleRate
		rec.Cutoff = res.Signal.Cutoff
	}
	return rec
}

// Run is one row of the runs table.
type Run struct {
	RunID        string
	LogPath      string
	StepSource   string
	OriginMs     int64
	SampleRateHz float64
	Cutoff       float64
	NumSteps     int
	PathLengthM  float64
	CreatedAt    time.Time
}

// RecordRun stores rec, its steps and its trajectory in one transaction and
// returns the new run ID.
func (db *DB) RecordRun(ctx context.Context, rec RunRecord) (string, error) {
	runID := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
			run_id, log_path, step_source, origin_ms, sample_rate_hz, cutoff,
			num_steps, path_length_m, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.LogPath, rec.StepSource, rec.OriginMs, rec.SampleRateHz, rec.Cutoff,
		len(rec.Steps), rec.PathLengthM, db.clock.Now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stepStmt, err := tx.PrepareContext(ctx, `INSERT INTO steps (run_id, step_index, timestamp_ms) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare steps insert: %w", err)
	}
	defer stepStmt.Close()
	for i, ts := range rec.Steps {
		if _, err := stepStmt.ExecContext(ctx, runID, i, ts); err != nil {
			return "", fmt.Errorf("insert step %d: %w", i, err)
		}
	}

	pointStmt, err := tx.PrepareContext(ctx, `INSERT INTO trajectory_points (run_id, point_index, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare trajectory insert: %w", err)
	}
	defer pointStmt.Close()
	for i, p := range rec.Trajectory {
		if _, err := pointStmt.ExecContext(ctx, runID, i, p.X, p.Y); err != nil {
			return "", fmt.Errorf("insert trajectory point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns all runs, newest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT run_id, log_path, step_source, origin_ms, sample_rate_hz, cutoff,
			num_steps, path_length_m, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdMs int64
		if err := rows.Scan(&r.RunID, &r.LogPath, &r.StepSource, &r.OriginMs, &r.SampleRateHz,
			&r.Cutoff, &r.NumSteps, &r.PathLengthM, &createdMs); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMilli(createdMs).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (db *DB) runExists(ctx context.Context, runID string) error {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE run_id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

// LoadTrajectory returns a run's trajectory points in order.
func (db *DB) LoadTrajectory(ctx context.Context, runID string) ([]gait.Point, error) {
	if err := db.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT x, y FROM trajectory_points WHERE run_id = ? ORDER BY point_index`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []gait.Point
	for rows.Next() {
		var p gait.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// LoadSteps returns a run's step timestamps in order.
func (db *DB) LoadSteps(ctx context.Context, runID string) ([]int64, error) {
	if err := db.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT timestamp_ms FROM steps WHERE run_id = ? ORDER BY step_index`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []int64
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		steps = append(steps, ts)
	}
	return steps, rows.Err()
}
