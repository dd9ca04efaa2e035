package runs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Store reads and appends CI runs.
type Store interface {
	Add(ctx context.Context, runs []store.Run) error
	// ListRuns returns runs that started or finished at or after since,
	// oldest first.
	ListRuns(ctx context.Context, since time.Time) ([]store.Run, error)
	Projects(ctx context.Context) ([]string, error)
}

type runStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{db: db}, nil
}

func (s *runStore) Add(ctx context.Context, runs []store.Run) error {
	if len(runs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO runs (project, run_start, run_finish, seconds_used, jobs)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, run := range runs {
		jobs := run.Jobs
		if jobs == "" {
			jobs = "[]"
		}
		if _, err := stmt.ExecContext(ctx, run.Project, run.RunStart, run.RunFinish, run.SecondsUsed, jobs); err != nil {
			return fmt.Errorf("insert run for %s: %w", run.Project, err)
		}
	}
	return tx.Commit()
}

func (s *runStore) ListRuns(ctx context.Context, since time.Time) ([]store.Run, error) {
	logger := zerolog.Ctx(ctx)
	query := `
		SELECT project, run_start, run_finish, seconds_used, jobs
		FROM runs
		WHERE run_start >= ? OR run_finish >= ?
		ORDER BY run_start, id`

	cutoff := since.Unix()
	rows, err := s.db.QueryContext(ctx, query, cutoff, cutoff)
	if err != nil {
		return nil, fmt.Errorf("runs query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close runs query rows")
		}
	}(rows)

	var result []store.Run
	for rows.Next() {
		var run store.Run
		if err := rows.Scan(&run.Project, &run.RunStart, &run.RunFinish, &run.SecondsUsed, &run.Jobs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return result, nil
}

func (s *runStore) Projects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT project FROM runs ORDER BY project`)
	if err != nil {
		return nil, fmt.Errorf("projects query failed: %w", err)
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var project string
		if err := rows.Scan(&project); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
