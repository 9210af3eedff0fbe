package players_test

import (
	"database/sql"
	"testing"

	"github.com/ijlaln/footycount-app/internal/database"
	"github.com/ijlaln/footycount-app/internal/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (players.PlayerStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return players.New(db), db, dbTeardown
}

func register(t *testing.T, store players.PlayerStore, username, name string) players.Player {
	t.Helper()
	p, err := store.Register(players.NewPlayer{Username: username, Password: "pass", Name: name})
	require.NoError(t, err)
	return p
}

func TestRegister(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	jersey := int64(10)
	p, err := store.Register(players.NewPlayer{
		Username:     "alice",
		Password:     "secret",
		Name:         "Alice",
		Position:     "fwd",
		JerseyNumber: &jersey,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, players.PositionForward, p.Position)
	require.NotNil(t, p.JerseyNumber)
	assert.EqualValues(t, 10, *p.JerseyNumber)
	assert.False(t, p.IsAdmin)

	// The plaintext must never be stored.
	var stored string
	require.NoError(t, db.QueryRow(`SELECT password FROM players WHERE id = ?`, p.ID).Scan(&stored))
	assert.NotEqual(t, "secret", stored)
	assert.NotEmpty(t, stored)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	register(t, store, "alice", "Alice")

	_, err := store.Register(players.NewPlayer{Username: "alice", Password: "pass", Name: "Other"})
	assert.ErrorIs(t, err, players.ErrDuplicateUsername)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players WHERE username = 'alice'`).Scan(&count))
	assert.Equal(t, 1, count, "exactly one row for the username must remain")
}

func TestRegister_DuplicateJersey(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	jersey := int64(7)
	_, err := store.Register(players.NewPlayer{Username: "alice", Password: "pass", Name: "Alice", JerseyNumber: &jersey})
	require.NoError(t, err)

	_, err = store.Register(players.NewPlayer{Username: "bob", Password: "pass", Name: "Bob", JerseyNumber: &jersey})
	assert.ErrorIs(t, err, players.ErrDuplicateJersey)
}

func TestRegister_WeakPassword(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Register(players.NewPlayer{Username: "alice", Password: "abc", Name: "Alice"})
	assert.ErrorIs(t, err, players.ErrWeakPassword)
}

func TestRegisterAdmin_OnlyOnce(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	admin, err := store.RegisterAdmin(players.NewPlayer{Username: "boss", Password: "pass", Name: "Boss"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, players.PositionAdmin, admin.Position)

	_, err = store.RegisterAdmin(players.NewPlayer{Username: "boss2", Password: "pass", Name: "Other"})
	assert.ErrorIs(t, err, players.ErrAdminExists)
}

func TestAuthenticate(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	register(t, store, "alice", "Alice")

	p, err := store.Authenticate("alice", "pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	_, err = store.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, players.ErrInvalidCredentials)

	// Unknown usernames report the same error as wrong passwords.
	_, err = store.Authenticate("nobody", "pass")
	assert.ErrorIs(t, err, players.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	p := register(t, store, "alice", "Alice")

	err := store.ChangePassword(p.ID, "wrong", "newpass")
	assert.ErrorIs(t, err, players.ErrInvalidCredentials)

	err = store.ChangePassword(p.ID, "pass", "abc")
	assert.ErrorIs(t, err, players.ErrWeakPassword)

	require.NoError(t, store.ChangePassword(p.ID, "pass", "newpass"))

	_, err = store.Authenticate("alice", "newpass")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	alice := register(t, store, "alice", "Alice")
	bob := register(t, store, "bob", "Bob")

	jersey := int64(9)
	updated, err := store.UpdateProfile(alice.ID, players.ProfileUpdate{Name: "Alice B", Position: "DEF", JerseyNumber: &jersey})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, players.PositionDefender, updated.Position)

	// Bob cannot take Alice's jersey number.
	_, err = store.UpdateProfile(bob.ID, players.ProfileUpdate{Name: "Bob", JerseyNumber: &jersey})
	assert.ErrorIs(t, err, players.ErrDuplicateJersey)

	// Re-submitting your own number is fine.
	_, err = store.UpdateProfile(alice.ID, players.ProfileUpdate{Name: "Alice B", JerseyNumber: &jersey})
	assert.NoError(t, err)
}

func TestSetAdminFlag(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	p := register(t, store, "alice", "Alice")

	promoted, err := store.SetAdminFlag(p.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	_, err = store.SetAdminFlag(999, true)
	assert.ErrorIs(t, err, players.ErrNotFound)
}

func TestDelete_CascadesDependentRows(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	p := register(t, store, "alice", "Alice")

	_, err := db.Exec(`INSERT INTO matches (title, match_date) VALUES ('Friendly', strftime('%s', 'now'))`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status) VALUES (1, ?, 'in')`, p.ID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO player_stats (player_id, match_id, goals) VALUES (?, 1, 2)`, p.ID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(p.ID))

	for _, q := range []string{
		`SELECT COUNT(*) FROM players WHERE id = ?`,
		`SELECT COUNT(*) FROM match_attendance WHERE player_id = ?`,
		`SELECT COUNT(*) FROM player_stats WHERE player_id = ?`,
	} {
		var count int
		require.NoError(t, db.QueryRow(q, p.ID).Scan(&count))
		assert.Zero(t, count)
	}
}

func TestList_AttendancePercentage(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := register(t, store, "alice", "Alice")
	register(t, store, "bob", "Bob")

	_, err := db.Exec(`INSERT INTO matches (title, match_date) VALUES ('M1', 1), ('M2', 2), ('M3', 3)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status) VALUES
		(1, ?, 'in'), (2, ?, 'out'), (3, ?, 'in')`, alice.ID, alice.ID, alice.ID)
	require.NoError(t, err)

	listings, err := store.List()
	require.NoError(t, err)
	require.Len(t, listings, 2)

	// Ordered by name: Alice then Bob.
	assert.Equal(t, "Alice", listings[0].Name)
	assert.InDelta(t, 66.7, listings[0].AttendancePercentage, 0.001)
	assert.GreaterOrEqual(t, listings[0].AttendancePercentage, 0.0)
	assert.LessOrEqual(t, listings[0].AttendancePercentage, 100.0)

	// A player with zero marks ever has a percentage of exactly zero.
	assert.Equal(t, "Bob", listings[1].Name)
	assert.Zero(t, listings[1].AttendancePercentage)
}

func TestSummary_PastMatchesOnly(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := register(t, store, "alice", "Alice")

	// One past match attended, one future match which must not count.
	_, err := db.Exec(`INSERT INTO matches (title, match_date) VALUES
		('Past', strftime('%s', 'now') - 3600),
		('Future', strftime('%s', 'now') + 3600)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status) VALUES (1, ?, 'in')`, alice.ID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO player_stats (player_id, match_id, goals) VALUES (?, 1, 3)`, alice.ID)
	require.NoError(t, err)

	summary, err := store.Summary(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalMatches)
	assert.Equal(t, 1, summary.AttendedMatches)
	assert.InDelta(t, 100.0, summary.AttendanceRate, 0.001)
	assert.Equal(t, 3, summary.TotalGoals)
}

func TestActivity(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := register(t, store, "alice", "Alice")

	_, err := db.Exec(`INSERT INTO matches (title, match_date) VALUES ('Derby', 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status, marked_at) VALUES (1, ?, 'in', 100)`, alice.ID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO player_stats (player_id, match_id, goals, created_at) VALUES (?, 1, 1, 200)`, alice.ID)
	require.NoError(t, err)

	activity, err := store.Activity(alice.ID)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "goal", activity[0].Type)
	assert.Equal(t, "attendance", activity[1].Type)
	assert.Contains(t, activity[1].Description, "Derby")
}

func TestProfile(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := register(t, store, "alice", "Alice")

	_, err := db.Exec(`INSERT INTO matches (title, match_date) VALUES ('Past', strftime('%s', 'now') - 3600)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_attendance (match_id, player_id, status) VALUES (1, ?, 'in')`, alice.ID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO player_stats (player_id, match_id, goals, assists) VALUES (?, 1, 2, 1)`, alice.ID)
	require.NoError(t, err)

	profile, err := store.Profile(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Player.Username)
	assert.Equal(t, 2, profile.Stats.TotalGoals)
	assert.Equal(t, 1, profile.Stats.TotalAssists)
	require.Len(t, profile.RecentMatches, 1)
	require.NotNil(t, profile.RecentMatches[0].Goals)
	assert.Equal(t, 2, *profile.RecentMatches[0].Goals)

	_, err = store.Profile(999)
	assert.ErrorIs(t, err, players.ErrNotFound)
}
