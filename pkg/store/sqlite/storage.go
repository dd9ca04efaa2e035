package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// RunsTableSchema matches the table the CI scanner writes. jobs holds a JSON
// array of {name, job_duration, labels}.
const RunsTableSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL,
		run_start INTEGER NOT NULL,
		run_finish INTEGER NOT NULL,
		seconds_used REAL NOT NULL DEFAULT 0,
		jobs TEXT NOT NULL DEFAULT '[]'
	);
`

const RunsIndex = `CREATE INDEX IF NOT EXISTS runs_finish ON runs (run_finish);`

var bootQueries = []string{
	RunsTableSchema,
	RunsIndex,
}

type Settings struct {
	DbPath string
}

// NewDB opens the SQLite database at settings.DbPath and makes sure the
// schema exists.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection also keeps ":memory:"
	// databases alive across queries.
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return db, nil
}
