package matches_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ijlaln/footycount-app/internal/database"
	"github.com/ijlaln/footycount-app/internal/matches"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (matches.MatchStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return matches.New(db), db, dbTeardown
}

func addPlayer(t *testing.T, db *sql.DB, username, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO players (username, password, name) VALUES (?, 'x', ?)`, username, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func createMatch(t *testing.T, store matches.MatchStore, createdBy int64, title string, date time.Time) matches.Match {
	t.Helper()
	m, err := store.Create(createdBy, matches.NewMatch{Title: title, MatchDate: date})
	require.NoError(t, err)
	return m
}

func TestCreate(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	admin := addPlayer(t, db, "boss", "Boss")

	m := createMatch(t, store, admin, "Friendly", time.Now().Add(48*time.Hour))
	assert.Equal(t, "Friendly", m.Title)
	assert.Equal(t, matches.MatchScheduled, m.Status)
	require.NotNil(t, m.CreatedByName)
	assert.Equal(t, "Boss", *m.CreatedByName)
}

func TestCreate_Validation(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Create(1, matches.NewMatch{MatchDate: time.Now()})
	assert.ErrorIs(t, err, matches.ErrValidation)

	_, err = store.Create(1, matches.NewMatch{Title: "No date"})
	assert.ErrorIs(t, err, matches.ErrValidation)
}

func TestUpdate_Partial(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	admin := addPlayer(t, db, "boss", "Boss")
	m := createMatch(t, store, admin, "Friendly", time.Now().Add(48*time.Hour))

	loc := "Town pitch"
	updated, err := store.Update(m.ID, matches.MatchUpdate{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Friendly", updated.Title, "untouched fields keep their value")
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Town pitch", *updated.Location)

	status := matches.MatchCompleted
	updated, err = store.Update(m.ID, matches.MatchUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, matches.MatchCompleted, updated.Status)

	bad := "abandoned"
	_, err = store.Update(m.ID, matches.MatchUpdate{Status: &bad})
	assert.ErrorIs(t, err, matches.ErrValidation)

	_, err = store.Update(999, matches.MatchUpdate{Location: &loc})
	assert.ErrorIs(t, err, matches.ErrNotFound)
}

func TestDelete_RemovesDependentRows(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	admin := addPlayer(t, db, "boss", "Boss")
	m := createMatch(t, store, admin, "Friendly", time.Now().Add(time.Hour))

	_, err := store.MarkAttendance(m.ID, admin, matches.StatusIn)
	require.NoError(t, err)
	require.NoError(t, store.UpsertStats(m.ID, matches.StatsInput{PlayerID: admin, Goals: 1}))
	_, err = db.Exec(`INSERT INTO notifications (match_id, type, message) VALUES (?, 'pre_match_30min', 'x')`, m.ID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(m.ID))

	for _, table := range []string{"match_attendance", "player_stats", "notifications"} {
		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE match_id = ?`, m.ID).Scan(&count))
		assert.Zero(t, count, "no residual %s rows may reference the deleted match", table)
	}
	_, err = store.Get(m.ID)
	assert.ErrorIs(t, err, matches.ErrNotFound)
}

func TestMarkAttendance_UpsertSemantics(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	m := createMatch(t, store, alice, "Friendly", time.Now().Add(time.Hour))

	counts, err := store.MarkAttendance(m.ID, alice, matches.StatusIn)
	require.NoError(t, err)
	assert.Equal(t, matches.AttendanceCounts{In: 1, Total: 1}, counts)

	detail, err := store.Detail(m.ID)
	require.NoError(t, err)
	require.NotEmpty(t, detail.Attendance)
	assert.Equal(t, matches.StatusIn, detail.Attendance[0].Status)

	// A second mark overwrites rather than duplicates.
	counts, err = store.MarkAttendance(m.ID, alice, matches.StatusOut)
	require.NoError(t, err)
	assert.Equal(t, matches.AttendanceCounts{Out: 1, Total: 1}, counts)

	var rowCount int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM match_attendance WHERE match_id = ? AND player_id = ?`, m.ID, alice,
	).Scan(&rowCount))
	assert.Equal(t, 1, rowCount)
}

func TestMarkAttendance_Errors(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	m := createMatch(t, store, alice, "Friendly", time.Now().Add(time.Hour))

	_, err := store.MarkAttendance(999, alice, matches.StatusIn)
	assert.ErrorIs(t, err, matches.ErrNotFound)

	_, err = store.MarkAttendance(m.ID, alice, "sometimes")
	assert.ErrorIs(t, err, matches.ErrValidation)
}

func TestMarkAttendance_MaybeCountsSeparately(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")
	carol := addPlayer(t, db, "carol", "Carol")
	m := createMatch(t, store, alice, "Friendly", time.Now().Add(time.Hour))

	_, err := store.MarkAttendance(m.ID, alice, matches.StatusIn)
	require.NoError(t, err)
	_, err = store.MarkAttendance(m.ID, bob, matches.StatusOut)
	require.NoError(t, err)
	counts, err := store.MarkAttendance(m.ID, carol, matches.StatusMaybe)
	require.NoError(t, err)

	assert.Equal(t, matches.AttendanceCounts{In: 1, Out: 1, Maybe: 1, Total: 3}, counts)
}

func TestAttendanceCounts(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")
	addPlayer(t, db, "zoe", "Zoe") // never responds
	m := createMatch(t, store, alice, "Friendly", time.Now().Add(time.Hour))

	// No marks yet.
	counts, err := store.AttendanceCounts(m.ID)
	require.NoError(t, err)
	assert.Equal(t, matches.AttendanceCounts{}, counts)

	_, err = store.MarkAttendance(m.ID, alice, matches.StatusIn)
	require.NoError(t, err)
	_, err = store.MarkAttendance(m.ID, bob, matches.StatusIn)
	require.NoError(t, err)

	// Non-responders are not counted in any bucket.
	counts, err = store.AttendanceCounts(m.ID)
	require.NoError(t, err)
	assert.Equal(t, matches.AttendanceCounts{In: 2, Total: 2}, counts)
}

func TestDetail_Ordering(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	// Bob sorts before Alice only if in-status outranks name order.
	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")
	addPlayer(t, db, "zoe", "Zoe")
	m := createMatch(t, store, alice, "Derby", time.Now().Add(time.Hour))

	_, err := store.MarkAttendance(m.ID, alice, matches.StatusOut)
	require.NoError(t, err)
	_, err = store.MarkAttendance(m.ID, bob, matches.StatusIn)
	require.NoError(t, err)

	detail, err := store.Detail(m.ID)
	require.NoError(t, err)
	require.Len(t, detail.Attendance, 3)
	assert.Equal(t, "Bob", detail.Attendance[0].Name)
	assert.Equal(t, "Alice", detail.Attendance[1].Name)
	// Zoe never responded and defaults to out with no marked-at time.
	assert.Equal(t, "Zoe", detail.Attendance[2].Name)
	assert.Equal(t, matches.StatusOut, detail.Attendance[2].Status)
	assert.Nil(t, detail.Attendance[2].MarkedAt)
}

func TestDetail_InBeforeOut_WithCounts(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")
	m := createMatch(t, store, alice, "Derby", time.Now().Add(time.Hour))

	_, err := store.MarkAttendance(m.ID, alice, matches.StatusIn)
	require.NoError(t, err)
	counts, err := store.MarkAttendance(m.ID, bob, matches.StatusOut)
	require.NoError(t, err)

	assert.Equal(t, 1, counts.In)
	assert.Equal(t, 1, counts.Out)

	detail, err := store.Detail(m.ID)
	require.NoError(t, err)
	require.Len(t, detail.Attendance, 2)
	assert.Equal(t, "Alice", detail.Attendance[0].Name)
	assert.Equal(t, "Bob", detail.Attendance[1].Name)
}

func TestDetail_StatsOnlyForPastMatches(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")

	future := createMatch(t, store, alice, "Future", time.Now().Add(time.Hour))
	past := createMatch(t, store, alice, "Past", time.Now().Add(-time.Hour))

	require.NoError(t, store.UpsertStats(past.ID, matches.StatsInput{PlayerID: alice, Goals: 1, Assists: 2}))
	require.NoError(t, store.UpsertStats(past.ID, matches.StatsInput{PlayerID: bob, Goals: 2}))
	require.NoError(t, store.UpsertStats(future.ID, matches.StatsInput{PlayerID: alice, Goals: 5}))

	detail, err := store.Detail(future.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Stats, "future matches expose no statistics")

	detail, err = store.Detail(past.ID)
	require.NoError(t, err)
	require.Len(t, detail.Stats, 2)
	// Sorted by goals, then assists, descending.
	assert.Equal(t, "Bob", detail.Stats[0].Name)
	assert.Equal(t, "Alice", detail.Stats[1].Name)
}

func TestUpsertStats_ReplacesRow(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	m := createMatch(t, store, alice, "Past", time.Now().Add(-time.Hour))

	require.NoError(t, store.UpsertStats(m.ID, matches.StatsInput{PlayerID: alice, Goals: 1}))
	require.NoError(t, store.UpsertStats(m.ID, matches.StatsInput{PlayerID: alice, Goals: 3, Assists: 1}))

	var count, goals int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*), MAX(goals) FROM player_stats WHERE match_id = ? AND player_id = ?`, m.ID, alice,
	).Scan(&count, &goals))
	assert.Equal(t, 1, count)
	assert.Equal(t, 3, goals)
}

func TestListAll_And_ListUpcoming(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")

	past := createMatch(t, store, alice, "Past", time.Now().Add(-time.Hour))
	soon := createMatch(t, store, alice, "Soon", time.Now().Add(time.Hour))
	later := createMatch(t, store, alice, "Later", time.Now().Add(48*time.Hour))

	_, err := store.MarkAttendance(soon.ID, alice, matches.StatusIn)
	require.NoError(t, err)

	all, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Descending by date: Later, Soon, Past.
	assert.Equal(t, later.ID, all[0].ID)
	assert.Equal(t, soon.ID, all[1].ID)
	assert.Equal(t, past.ID, all[2].ID)
	assert.Equal(t, 1, all[1].Counts.In)

	upcoming, err := store.ListUpcoming(alice)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	// Ascending by date: Soon, Later.
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)
	require.NotNil(t, upcoming[0].UserStatus)
	assert.Equal(t, matches.StatusIn, *upcoming[0].UserStatus)
	assert.Nil(t, upcoming[1].UserStatus)
}

func TestRoster_FoldsNonResponders(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")
	addPlayer(t, db, "zoe", "Zoe")
	m := createMatch(t, store, alice, "Derby", time.Now().Add(time.Hour))

	_, err := store.MarkAttendance(m.ID, alice, matches.StatusIn)
	require.NoError(t, err)
	_, err = store.MarkAttendance(m.ID, bob, matches.StatusOut)
	require.NoError(t, err)

	roster, err := store.Roster(m.ID)
	require.NoError(t, err)
	require.Len(t, roster.PlayersIn, 1)
	assert.Equal(t, "Alice", roster.PlayersIn[0].Name)
	require.Len(t, roster.PlayersOut, 2)
	assert.Equal(t, "Bob", roster.PlayersOut[0].Name)
	assert.Equal(t, "Zoe", roster.PlayersOut[1].Name)
}

func TestDashboard(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := addPlayer(t, db, "alice", "Alice")
	bob := addPlayer(t, db, "bob", "Bob")

	past1 := createMatch(t, store, alice, "Past 1", time.Now().Add(-48*time.Hour))
	past2 := createMatch(t, store, alice, "Past 2", time.Now().Add(-24*time.Hour))
	createMatch(t, store, alice, "Future", time.Now().Add(24*time.Hour))

	_, err := store.MarkAttendance(past1.ID, alice, matches.StatusIn)
	require.NoError(t, err)
	_, err = store.MarkAttendance(past1.ID, bob, matches.StatusIn)
	require.NoError(t, err)
	_, err = store.MarkAttendance(past2.ID, alice, matches.StatusIn)
	require.NoError(t, err)

	stats, err := store.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPlayers)
	assert.Equal(t, 1, stats.UpcomingMatches)
	// Mean of per-match in-counts over past matches: (2 + 1) / 2.
	assert.InDelta(t, 1.5, stats.AverageAttendance, 0.001)
	assert.Len(t, stats.RecentActivity, 3)
}
