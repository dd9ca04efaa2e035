package runs

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqlite.NewDB(context.Background(), sqlite.Settings{
		DbPath: filepath.Join(t.TempDir(), "builds.db"),
	})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})
	return &fixture{db: db, store: s}
}

func TestRunStore_AddAndList(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	runs := []store.Run{
		{Project: "httpd", RunStart: 1000, RunFinish: 1100, SecondsUsed: 100, Jobs: `[{"name":"build","job_duration":100,"labels":[]}]`},
		{Project: "kafka", RunStart: 5000, RunFinish: 5600, SecondsUsed: 600},
		{Project: "httpd", RunStart: 3000, RunFinish: 3050, SecondsUsed: 50},
	}
	require.NoError(t, f.store.Add(ctx, runs))

	t.Run("since filters old runs", func(t *testing.T) {
		got, err := f.store.ListRuns(ctx, time.Unix(2000, 0))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(3000), got[0].RunStart)
		assert.Equal(t, "kafka", got[1].Project)
		assert.Equal(t, "[]", got[1].Jobs)
	})

	t.Run("run finishing after cutoff is included", func(t *testing.T) {
		got, err := f.store.ListRuns(ctx, time.Unix(1050, 0))
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("projects", func(t *testing.T) {
		projects, err := f.store.Projects(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"httpd", "kafka"}, projects)
	})
}

func TestRunStore_AddEmpty(t *testing.T) {
	f := setupFixture(t)
	assert.NoError(t, f.store.Add(context.Background(), nil))
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestRunStore_ListRuns_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM runs")).
		WithArgs(int64(500), int64(500)).
		WillReturnError(errors.New("disk I/O error"))

	s, err := NewStore(db)
	require.NoError(t, err)

	_, err = s.ListRuns(context.Background(), time.Unix(500, 0))
	assert.ErrorContains(t, err, "runs query failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_ListRuns_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"project", "run_start", "run_finish", "seconds_used", "jobs"}).
		AddRow("httpd", "not-a-number", 10, 1.5, "[]")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT project, run_start")).WillReturnRows(rows)

	s, err := NewStore(db)
	require.NoError(t, err)

	_, err = s.ListRuns(context.Background(), time.Unix(0, 0))
	assert.ErrorContains(t, err, "scan run")
}

func TestRunStore_Projects_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT project FROM runs")).
		WillReturnRows(sqlmock.NewRows([]string{"project"}).AddRow("beam").AddRow("flink"))

	s, err := NewStore(db)
	require.NoError(t, err)

	projects, err := s.Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beam", "flink"}, projects)
	assert.NoError(t, mock.ExpectationsWereMet())
}
