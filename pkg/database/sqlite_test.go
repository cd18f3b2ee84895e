package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteAppliesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tutoraid.db")
	db, err := NewSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	assert.Equal(t, []string{"lessons", "students"}, tables)

	_, err = db.Exec(`INSERT INTO lessons (position, lesson_name) VALUES (?, ?)`, 0, "Math")
	require.NoError(t, err)

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	var count int
	require.NoError(t, reopened.Get(&count, `SELECT COUNT(*) FROM lessons`))
	assert.Equal(t, 1, count)
}
