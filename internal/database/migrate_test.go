package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- users
CREATE TABLE a (id INT);

CREATE INDEX idx_a ON a (id);
-- trailing comment only
`
	stmts := SplitStatements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", stmts[0])
	assert.Equal(t, "CREATE INDEX idx_a ON a (id)", stmts[1])
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	for _, pattern := range []string{
		"migrations/postgres/*.up.sql",
		"migrations/postgres/*.down.sql",
		"migrations/oracle/*.up.sql",
	} {
		files, err := fs.Glob(migrationFS, pattern)
		require.NoError(t, err)
		assert.NotEmpty(t, files, pattern)
	}
}

func TestOracleMigrationDeclaresUniquePairs(t *testing.T) {
	content, err := migrationFS.ReadFile("migrations/oracle/000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "UQ_ENROLLMENTS_USER_COURSE")
	assert.Contains(t, string(content), "UQ_PROGRESS_USER_COURSE")
}
