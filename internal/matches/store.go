package matches

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new MatchStore backed by the given database.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

// Create inserts a new scheduled match.
func (s *store) Create(createdBy int64, input NewMatch) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Title == "" || input.MatchDate.IsZero() {
		return Match{}, fmt.Errorf("%w: title and match date are required", ErrValidation)
	}

	res, err := s.db.Exec(`
		INSERT INTO matches (title, description, match_date, location, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, input.Title, input.Description, input.MatchDate.Unix(), input.Location, createdBy)
	if err != nil {
		return Match{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Match{}, err
	}
	return s.getLocked(id)
}

// Update applies a partial update; nil fields keep their current value.
func (s *store) Update(matchID int64, update MatchUpdate) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getLocked(matchID)
	if err != nil {
		return Match{}, err
	}

	title := current.Title
	if update.Title != nil {
		if *update.Title == "" {
			return Match{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		title = *update.Title
	}
	description := current.Description
	if update.Description != nil {
		description = update.Description
	}
	matchDate := current.MatchDate
	if update.MatchDate != nil {
		matchDate = *update.MatchDate
	}
	location := current.Location
	if update.Location != nil {
		location = update.Location
	}
	status := current.Status
	if update.Status != nil {
		if *update.Status != MatchScheduled && *update.Status != MatchCompleted {
			return Match{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *update.Status)
		}
		status = *update.Status
	}

	_, err = s.db.Exec(`
		UPDATE matches
		SET title = ?, description = ?, match_date = ?, location = ?, status = ?, updated_at = strftime('%s', 'now')
		WHERE id = ?
	`, title, description, matchDate.Unix(), location, status, matchID)
	if err != nil {
		return Match{}, err
	}
	return s.getLocked(matchID)
}

// Delete removes a match and its attendance, statistics and notification
// rows in dependency order.
func (s *store) Delete(matchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(matchID); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM match_attendance WHERE match_id = ?`,
		`DELETE FROM player_stats WHERE match_id = ?`,
		`DELETE FROM notifications WHERE match_id = ?`,
		`DELETE FROM matches WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, matchID); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Get returns a single match by id.
func (s *store) Get(matchID int64) (Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(matchID)
}

// ListAll returns every match with aggregate counts, newest first.
func (s *store) ListAll() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(`ORDER BY m.match_date DESC`, "", 0)
}

// ListUpcoming returns future matches soonest first, with the calling
// player's own mark attached.
func (s *store) ListUpcoming(playerID int64) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(`ORDER BY m.match_date ASC`, `WHERE m.match_date > strftime('%s', 'now')`, playerID)
}

// Detail returns the match, the full per-player attendance listing and,
// for past matches only, the recorded statistics.
func (s *store) Detail(matchID int64) (Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, err := s.getLocked(matchID)
	if err != nil {
		return Detail{}, err
	}

	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.position, p.jersey_number, COALESCE(ma.status, 'out'), ma.marked_at
		FROM players p
		LEFT JOIN match_attendance ma ON p.id = ma.player_id AND ma.match_id = ?
		ORDER BY
			CASE WHEN ma.status = 'in' THEN 1 ELSE 2 END,
			p.name
	`, matchID)
	if err != nil {
		return Detail{}, err
	}
	defer rows.Close()

	var attendance []AttendanceEntry
	for rows.Next() {
		var (
			entry    AttendanceEntry
			jersey   sql.NullInt64
			markedAt sql.NullInt64
		)
		if err := rows.Scan(&entry.PlayerID, &entry.Name, &entry.Position, &jersey, &entry.Status, &markedAt); err != nil {
			log.Error("Failed to scan attendance row", "error", err, "matchID", matchID)
			continue
		}
		if jersey.Valid {
			entry.JerseyNumber = &jersey.Int64
		}
		if markedAt.Valid {
			t := time.Unix(markedAt.Int64, 0)
			entry.MarkedAt = &t
		}
		attendance = append(attendance, entry)
	}
	if err := rows.Err(); err != nil {
		return Detail{}, err
	}

	detail := Detail{Match: match, Attendance: attendance}

	// Statistics are only shown once the match has been played.
	if match.MatchDate.Before(time.Now()) {
		stats, err := s.statsLocked(matchID)
		if err != nil {
			return Detail{}, err
		}
		detail.Stats = stats
	}
	return detail, nil
}

// MarkAttendance upserts the player's mark and returns fresh aggregate
// counts. A new mark for the same (match, player) pair replaces the prior
// one; last write wins.
func (s *store) MarkAttendance(matchID, playerID int64, status string) (AttendanceCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ValidAttendanceStatus(status) {
		return AttendanceCounts{}, fmt.Errorf("%w: status must be one of in, out, maybe", ErrValidation)
	}
	if _, err := s.getLocked(matchID); err != nil {
		return AttendanceCounts{}, err
	}

	_, err := s.db.Exec(`
		INSERT INTO match_attendance (match_id, player_id, status, marked_at)
		VALUES (?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(match_id, player_id) DO UPDATE SET
			status = excluded.status,
			marked_at = excluded.marked_at
	`, matchID, playerID, status)
	if err != nil {
		return AttendanceCounts{}, err
	}
	return s.countsLocked(matchID)
}

// AttendanceCounts returns the aggregate marks for one match.
func (s *store) AttendanceCounts(matchID int64) (AttendanceCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countsLocked(matchID)
}

// Roster returns confirmed-in players and everyone else. Players without a
// mark are listed as out.
func (s *store) Roster(matchID int64) (Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getLocked(matchID); err != nil {
		return Roster{}, err
	}

	queryRoster := func(query string) ([]RosterPlayer, error) {
		rows, err := s.db.Query(query, matchID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var roster []RosterPlayer
		for rows.Next() {
			var (
				p      RosterPlayer
				jersey sql.NullInt64
			)
			if err := rows.Scan(&p.Name, &jersey); err != nil {
				log.Error("Failed to scan roster row", "error", err, "matchID", matchID)
				continue
			}
			if jersey.Valid {
				p.JerseyNumber = &jersey.Int64
			}
			roster = append(roster, p)
		}
		return roster, rows.Err()
	}

	playersIn, err := queryRoster(`
		SELECT p.name, p.jersey_number
		FROM players p
		JOIN match_attendance ma ON p.id = ma.player_id
		WHERE ma.match_id = ? AND ma.status = 'in'
		ORDER BY p.name
	`)
	if err != nil {
		return Roster{}, err
	}

	playersOut, err := queryRoster(`
		SELECT p.name, p.jersey_number
		FROM players p
		JOIN match_attendance ma ON p.id = ma.player_id
		WHERE ma.match_id = ? AND ma.status = 'out'
		ORDER BY p.name
	`)
	if err != nil {
		return Roster{}, err
	}

	notResponded, err := queryRoster(`
		SELECT p.name, p.jersey_number
		FROM players p
		WHERE p.id NOT IN (
			SELECT player_id FROM match_attendance WHERE match_id = ?
		)
		ORDER BY p.name
	`)
	if err != nil {
		return Roster{}, err
	}

	return Roster{PlayersIn: playersIn, PlayersOut: append(playersOut, notResponded...)}, nil
}

// UpsertStats writes one statistic row per (player, match), replacing any
// prior row for the pair.
func (s *store) UpsertStats(matchID int64, input StatsInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(matchID); err != nil {
		return err
	}
	if input.PlayerID == 0 {
		return fmt.Errorf("%w: player id is required", ErrValidation)
	}

	_, err := s.db.Exec(`
		INSERT INTO player_stats (player_id, match_id, goals, assists, yellow_cards, red_cards, minutes_played)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, match_id) DO UPDATE SET
			goals = excluded.goals,
			assists = excluded.assists,
			yellow_cards = excluded.yellow_cards,
			red_cards = excluded.red_cards,
			minutes_played = excluded.minutes_played
	`, input.PlayerID, matchID, input.Goals, input.Assists, input.YellowCards, input.RedCards, input.MinutesPlayed)
	return err
}

// Dashboard returns the admin dashboard aggregates.
func (s *store) Dashboard() (DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats DashboardStats

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&stats.TotalPlayers); err != nil {
		return DashboardStats{}, err
	}
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM matches WHERE match_date > strftime('%s', 'now')
	`).Scan(&stats.UpcomingMatches)
	if err != nil {
		return DashboardStats{}, err
	}
	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM matches
		WHERE strftime('%Y-%m', match_date, 'unixepoch') = strftime('%Y-%m', 'now')
	`).Scan(&stats.ThisMonthMatches)
	if err != nil {
		return DashboardStats{}, err
	}

	var avg sql.NullFloat64
	err = s.db.QueryRow(`
		SELECT AVG(attendance_count)
		FROM (
			SELECT COUNT(CASE WHEN ma.status = 'in' THEN 1 END) AS attendance_count
			FROM matches m
			LEFT JOIN match_attendance ma ON m.id = ma.match_id
			WHERE m.match_date <= strftime('%s', 'now')
			GROUP BY m.id
		)
	`).Scan(&avg)
	if err != nil {
		return DashboardStats{}, err
	}
	if avg.Valid {
		stats.AverageAttendance = math.Round(avg.Float64*10) / 10
	}

	rows, err := s.db.Query(`
		SELECT p.name, m.title, ma.status, ma.marked_at
		FROM match_attendance ma
		JOIN players p ON ma.player_id = p.id
		JOIN matches m ON ma.match_id = m.id
		ORDER BY ma.marked_at DESC
		LIMIT 10
	`)
	if err != nil {
		return DashboardStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry ActivityEntry
			ts    int64
		)
		if err := rows.Scan(&entry.PlayerName, &entry.MatchTitle, &entry.Status, &ts); err != nil {
			log.Error("Failed to scan dashboard activity row", "error", err)
			continue
		}
		entry.Type = "attendance"
		entry.Timestamp = time.Unix(ts, 0)
		stats.RecentActivity = append(stats.RecentActivity, entry)
	}
	return stats, rows.Err()
}

func (s *store) getLocked(matchID int64) (Match, error) {
	row := s.db.QueryRow(`
		SELECT m.id, m.title, m.description, m.match_date, m.location, m.created_by, p.name, m.status, m.created_at, m.updated_at
		FROM matches m
		LEFT JOIN players p ON m.created_by = p.id
		WHERE m.id = ?
	`, matchID)

	var (
		match     Match
		matchDate int64
		created   int64
		updated   int64
		creator   sql.NullInt64
		crName    sql.NullString
	)
	err := row.Scan(&match.ID, &match.Title, &match.Description, &matchDate, &match.Location,
		&creator, &crName, &match.Status, &created, &updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return Match{}, ErrNotFound
		}
		return Match{}, err
	}
	match.MatchDate = time.Unix(matchDate, 0)
	match.CreatedAt = time.Unix(created, 0)
	match.UpdatedAt = time.Unix(updated, 0)
	if creator.Valid {
		match.CreatedBy = &creator.Int64
	}
	if crName.Valid {
		match.CreatedByName = &crName.String
	}
	return match, nil
}

func (s *store) listLocked(order, where string, playerID int64) ([]Summary, error) {
	query := fmt.Sprintf(`
		SELECT
			m.id, m.title, m.description, m.match_date, m.location, m.created_by, p.name, m.status, m.created_at, m.updated_at,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id) AS total_responses,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id AND ma.status = 'in') AS players_in,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id AND ma.status = 'out') AS players_out,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id AND ma.status = 'maybe') AS players_maybe,
			(SELECT status FROM match_attendance ma WHERE ma.match_id = m.id AND ma.player_id = ?) AS user_status
		FROM matches m
		LEFT JOIN players p ON m.created_by = p.id
		%s
		%s
	`, where, order)

	rows, err := s.db.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			sm        Summary
			matchDate int64
			created   int64
			updated   int64
			creator   sql.NullInt64
			crName    sql.NullString
			userStat  sql.NullString
		)
		err := rows.Scan(&sm.ID, &sm.Title, &sm.Description, &matchDate, &sm.Location,
			&creator, &crName, &sm.Status, &created, &updated,
			&sm.Counts.Total, &sm.Counts.In, &sm.Counts.Out, &sm.Counts.Maybe, &userStat)
		if err != nil {
			log.Error("Failed to scan match summary row", "error", err)
			continue
		}
		sm.MatchDate = time.Unix(matchDate, 0)
		sm.CreatedAt = time.Unix(created, 0)
		sm.UpdatedAt = time.Unix(updated, 0)
		if creator.Valid {
			sm.CreatedBy = &creator.Int64
		}
		if crName.Valid {
			sm.CreatedByName = &crName.String
		}
		if playerID != 0 && userStat.Valid {
			sm.UserStatus = &userStat.String
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

func (s *store) countsLocked(matchID int64) (AttendanceCounts, error) {
	var counts AttendanceCounts
	err := s.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN status = 'in' THEN 1 END),
			COUNT(CASE WHEN status = 'out' THEN 1 END),
			COUNT(CASE WHEN status = 'maybe' THEN 1 END),
			COUNT(*)
		FROM match_attendance
		WHERE match_id = ?
	`, matchID).Scan(&counts.In, &counts.Out, &counts.Maybe, &counts.Total)
	return counts, err
}

func (s *store) statsLocked(matchID int64) ([]StatLine, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.jersey_number, ps.goals, ps.assists, ps.yellow_cards, ps.red_cards, ps.minutes_played
		FROM player_stats ps
		JOIN players p ON ps.player_id = p.id
		WHERE ps.match_id = ?
		ORDER BY ps.goals DESC, ps.assists DESC
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []StatLine
	for rows.Next() {
		var (
			line   StatLine
			jersey sql.NullInt64
		)
		err := rows.Scan(&line.PlayerID, &line.Name, &jersey, &line.Goals, &line.Assists,
			&line.YellowCards, &line.RedCards, &line.MinutesPlayed)
		if err != nil {
			log.Error("Failed to scan stat line", "error", err, "matchID", matchID)
			continue
		}
		if jersey.Valid {
			line.JerseyNumber = &jersey.Int64
		}
		stats = append(stats, line)
	}
	return stats, rows.Err()
}
