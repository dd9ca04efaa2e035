package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, Settings{DbPath: filepath.Join(t.TempDir(), "runs.db")})
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'runs'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "runs", name)
}

func TestNewDB_EmptyPath(t *testing.T) {
	_, err := NewDB(context.Background(), Settings{})
	assert.Error(t, err)
}
