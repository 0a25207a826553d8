package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded search invocation.
type Run struct {
	RunID      string
	Strategy   string
	FindAll    bool
	Threads    int
	PoolSize   int
	Estimated  uint64
	StartedAt  time.Time
	EndedAt    *time.Time
	Found      int64
	Checked    int64
	AppVersion *string
}

// RunParams describes a run at start time.
type RunParams struct {
	Strategy   string
	FindAll    bool
	Threads    int
	PoolSize   int
	Estimated  uint64
	AppVersion string
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create records the start of a run and returns its ID.
func (r *RunRepository) Create(p RunParams) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	var appVersion *string
	if p.AppVersion != "" {
		appVersion = &p.AppVersion
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (run_id, strategy, find_all, threads, pool_size, estimated, started_at, app_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, p.Strategy, boolToInt(p.FindAll), p.Threads, p.PoolSize, int64(p.Estimated),
		startedAt.Format(time.RFC3339Nano), appVersion)

	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	return id, nil
}

// Finish stores the final counters of a run.
func (r *RunRepository) Finish(runID string, found, checked int64) error {
	endedAt := time.Now().UTC()

	res, err := r.db.Exec(`
		UPDATE runs
		SET ended_at = ?, found = ?, checked = ?
		WHERE run_id = ?
	`, endedAt.Format(time.RFC3339Nano), found, checked, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `run_id, strategy, find_all, threads, pool_size, estimated, started_at, ended_at, found, checked, app_version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		findAll    int
		estimated  int64
		startedAt  string
		endedAt    sql.NullString
		appVersion sql.NullString
	)
	err := row.Scan(&run.RunID, &run.Strategy, &findAll, &run.Threads, &run.PoolSize,
		&estimated, &startedAt, &endedAt, &run.Found, &run.Checked, &appVersion)
	if err != nil {
		return nil, err
	}

	run.FindAll = findAll == 1
	run.Estimated = uint64(estimated)
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, endedAt.String)
		run.EndedAt = &t
	}
	if appVersion.Valid {
		run.AppVersion = &appVersion.String
	}
	return &run, nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(runID string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetLast retrieves the most recent run.
func (r *RunRepository) GetLast() (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}
	return run, nil
}

// List retrieves recent runs, newest first.
func (r *RunRepository) List(limit int) ([]Run, error) {
	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// Delete removes a run and its discoveries.
func (r *RunRepository) Delete(runID string) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM discoveries WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("failed to delete discoveries: %w", err)
		}
		res, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", runID)
		if err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
