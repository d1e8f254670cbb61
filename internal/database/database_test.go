package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost:5432/leads"))
	assert.True(t, IsPostgres("postgresql://localhost/stressor_leads"))
	assert.False(t, IsPostgres("stressor_leads.db"))
	assert.False(t, IsPostgres("file::memory:?cache=shared"))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"dealers", "uploads", "vehicles", "scored_leads"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
