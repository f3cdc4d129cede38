package meshdb

import (
	"fmt"
	"time"
)

// Run is one logged weight operation.
type Run struct {
	ID        string
	Operation string
	Source    string
	Target    string // empty for single-object operations
	Params    string // JSON
	Elapsed   time.Duration
	StartedAt time.Time
}

// RecordRun appends r to the operation log.
func (db *DB) RecordRun(r Run) error {
	params := r.Params
	if params == "" {
		params = "{}"
	}
	_, err := db.Exec(`
		INSERT INTO operation_runs (run_id, operation, source_object, target_object, params_json, elapsed_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Operation, r.Source, r.Target, params, r.Elapsed.Milliseconds(), r.StartedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.ID, err)
	}
	return nil
}

// Runs returns the operation log, oldest first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, operation, source_object, target_object, params_json, elapsed_ms, started_at
		FROM operation_runs
		ORDER BY started_at, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			elapsedMs int64
			startedNs int64
		)
		if err := rows.Scan(&r.ID, &r.Operation, &r.Source, &r.Target, &r.Params, &elapsedMs, &startedNs); err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		r.StartedAt = time.Unix(0, startedNs).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
