package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveAssignmentIndexIsUnique(t *testing.T) {
	schema, err := fs.ReadFile(migrationsFS, "migrations/001_init.sql")
	require.NoError(t, err)

	// A plain index would let two concurrent assignment transactions
	// both pass the existence check and both commit. The unique partial
	// index makes the second insert fail instead.
	idx := indexDefinition(t, string(schema), "idx_assignments_active_request")
	assert.True(t, strings.HasPrefix(idx, "CREATE UNIQUE INDEX"), idx)
	assert.Contains(t, idx, "WHERE status <> 'cancelled'")
	assert.Contains(t, idx, "(aid_request_id)")
}

func indexDefinition(t *testing.T, schema, name string) string {
	t.Helper()
	for _, stmt := range strings.Split(schema, ";") {
		if strings.Contains(stmt, name) {
			return strings.TrimSpace(stmt)
		}
	}
	t.Fatalf("index %s not found in schema", name)
	return ""
}
