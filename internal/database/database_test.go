package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "matches", "match_attendance", "player_stats", "notifications"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_AttendanceUniqueConstraint(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO players (username, password, name) VALUES ('alice', 'x', 'Alice')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO matches (title, match_date) VALUES ('Friendly', 1893456000)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status) VALUES (1, 1, 'in')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status) VALUES (1, 1, 'out')`)
	assert.Error(t, err, "second mark for the same (match, player) pair must violate the unique constraint")
}
