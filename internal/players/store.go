package players

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
)

// New creates a new PlayerStore backed by the given database.
func New(db *sql.DB) PlayerStore {
	return &store{
		db: db,
	}
}

// Register creates a new player with a hashed password and returns it.
func (s *store) Register(input NewPlayer) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateRegistration(input); err != nil {
		return Player{}, err
	}
	position, err := normalizePosition(input.Position)
	if err != nil {
		return Player{}, err
	}

	taken, err := s.usernameTaken(input.Username)
	if err != nil {
		return Player{}, err
	}
	if taken {
		return Player{}, ErrDuplicateUsername
	}
	if input.JerseyNumber != nil {
		inUse, err := s.jerseyTaken(*input.JerseyNumber, 0)
		if err != nil {
			return Player{}, err
		}
		if inUse {
			return Player{}, ErrDuplicateJersey
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Player{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO players (username, password, name, position, jersey_number)
		VALUES (?, ?, ?, ?, ?)
	`, input.Username, string(hash), input.Name, position, nullableInt(input.JerseyNumber))
	if err != nil {
		// The unique constraint is the arbiter under concurrent registration.
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return Player{}, ErrDuplicateUsername
		}
		return Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Player{}, err
	}
	return s.getLocked(id)
}

// RegisterAdmin creates the initial admin account. It fails once any player
// with the admin flag exists; later grants go through SetAdminFlag.
func (s *store) RegisterAdmin(input NewPlayer) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateRegistration(input); err != nil {
		return Player{}, err
	}

	var adminID int64
	err := s.db.QueryRow(`SELECT id FROM players WHERE is_admin = 1 LIMIT 1`).Scan(&adminID)
	switch {
	case err == nil:
		return Player{}, ErrAdminExists
	case err != sql.ErrNoRows:
		return Player{}, err
	}

	taken, err := s.usernameTaken(input.Username)
	if err != nil {
		return Player{}, err
	}
	if taken {
		return Player{}, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Player{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO players (username, password, name, position, is_admin)
		VALUES (?, ?, ?, ?, 1)
	`, input.Username, string(hash), input.Name, PositionAdmin)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return Player{}, ErrDuplicateUsername
		}
		return Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Player{}, err
	}
	return s.getLocked(id)
}

// Authenticate checks a username/password pair. Unknown usernames and wrong
// passwords report the same error to avoid username enumeration.
func (s *store) Authenticate(username, password string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		player Player
		hash   string
	)
	row := s.db.QueryRow(`
		SELECT id, username, password, name, position, jersey_number, is_admin, created_at, updated_at
		FROM players WHERE username = ?
	`, username)
	if err := scanPlayerWithHash(row, &player, &hash); err != nil {
		if err == sql.ErrNoRows {
			return Player{}, ErrInvalidCredentials
		}
		return Player{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Player{}, ErrInvalidCredentials
	}
	return player, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *store) ChangePassword(playerID int64, currentPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	var hash string
	err := s.db.QueryRow(`SELECT password FROM players WHERE id = ?`, playerID).Scan(&hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.db.Exec(`
		UPDATE players SET password = ?, updated_at = strftime('%s', 'now') WHERE id = ?
	`, string(newHash), playerID)
	return err
}

// UpdateProfile updates name, position and jersey number.
func (s *store) UpdateProfile(playerID int64, update ProfileUpdate) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Name == "" {
		return Player{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	position, err := normalizePosition(update.Position)
	if err != nil {
		return Player{}, err
	}
	if update.JerseyNumber != nil {
		inUse, err := s.jerseyTaken(*update.JerseyNumber, playerID)
		if err != nil {
			return Player{}, err
		}
		if inUse {
			return Player{}, ErrDuplicateJersey
		}
	}

	res, err := s.db.Exec(`
		UPDATE players
		SET name = ?, position = ?, jersey_number = ?, updated_at = strftime('%s', 'now')
		WHERE id = ?
	`, update.Name, position, nullableInt(update.JerseyNumber), playerID)
	if err != nil {
		return Player{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Player{}, ErrNotFound
	}
	return s.getLocked(playerID)
}

// SetAdminFlag grants or revokes the admin flag.
func (s *store) SetAdminFlag(playerID int64, isAdmin bool) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE players SET is_admin = ?, updated_at = strftime('%s', 'now') WHERE id = ?
	`, isAdmin, playerID)
	if err != nil {
		return Player{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Player{}, ErrNotFound
	}
	return s.getLocked(playerID)
}

// Delete removes a player and their attendance marks and statistics rows.
// Dependent rows go first; the schema has no ON DELETE CASCADE.
func (s *store) Delete(playerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM match_attendance WHERE player_id = ?`,
		`DELETE FROM player_stats WHERE player_id = ?`,
		`DELETE FROM players WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, playerID); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Get returns a single player by id.
func (s *store) Get(playerID int64) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(playerID)
}

// List returns all players with roster-wide aggregates, ordered by name.
func (s *store) List() ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT
			p.id, p.username, p.name, p.position, p.jersey_number, p.is_admin, p.created_at, p.updated_at,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.player_id = p.id) AS total_responses,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.player_id = p.id AND ma.status = 'in') AS matches_attended,
			COALESCE((SELECT SUM(ps.goals) FROM player_stats ps WHERE ps.player_id = p.id), 0) AS total_goals,
			COALESCE((SELECT SUM(ps.assists) FROM player_stats ps WHERE ps.player_id = p.id), 0) AS total_assists
		FROM players p
		ORDER BY p.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var (
			l       Listing
			jersey  sql.NullInt64
			created int64
			updated int64
		)
		err := rows.Scan(
			&l.ID, &l.Username, &l.Name, &l.Position, &jersey, &l.IsAdmin, &created, &updated,
			&l.TotalResponses, &l.MatchesAttended, &l.TotalGoals, &l.TotalAssists,
		)
		if err != nil {
			log.Error("Failed to scan player listing row", "error", err)
			continue
		}
		if jersey.Valid {
			l.JerseyNumber = &jersey.Int64
		}
		l.CreatedAt = time.Unix(created, 0)
		l.UpdatedAt = time.Unix(updated, 0)
		l.AttendancePercentage = percentage(l.MatchesAttended, l.TotalResponses)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Summary returns a player's own dashboard numbers over past matches.
func (s *store) Summary(playerID int64) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary Summary
	err := s.db.QueryRow(`
		SELECT
			COUNT(DISTINCT m.id) AS total_matches,
			COUNT(CASE WHEN ma.status = 'in' THEN 1 END) AS attended_matches
		FROM matches m
		LEFT JOIN match_attendance ma ON m.id = ma.match_id AND ma.player_id = ?
		WHERE m.match_date <= strftime('%s', 'now')
	`, playerID).Scan(&summary.TotalMatches, &summary.AttendedMatches)
	if err != nil {
		return Summary{}, err
	}
	summary.AttendanceRate = percentage(summary.AttendedMatches, summary.TotalMatches)

	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(goals), 0) FROM player_stats WHERE player_id = ?
	`, playerID).Scan(&summary.TotalGoals)
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Activity returns a player's recent attendance and goal activity, newest
// first, capped at 15 entries.
func (s *store) Activity(playerID int64) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var activities []Activity

	rows, err := s.db.Query(`
		SELECT 'attendance', 'Marked ' || ma.status || ' for ' || m.title, ma.marked_at
		FROM match_attendance ma
		JOIN matches m ON ma.match_id = m.id
		WHERE ma.player_id = ?
		ORDER BY ma.marked_at DESC
		LIMIT 10
	`, playerID)
	if err != nil {
		return nil, err
	}
	activities, err = scanActivities(rows, activities)
	if err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT 'goal', 'Scored ' || ps.goals || ' goal(s) in ' || m.title, ps.created_at
		FROM player_stats ps
		JOIN matches m ON ps.match_id = m.id
		WHERE ps.player_id = ? AND ps.goals > 0
		ORDER BY ps.created_at DESC
		LIMIT 5
	`, playerID)
	if err != nil {
		return nil, err
	}
	activities, err = scanActivities(rows, activities)
	if err != nil {
		return nil, err
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > 15 {
		activities = activities[:15]
	}
	return activities, nil
}

// Profile returns a player with career stats and their last ten past
// matches.
func (s *store) Profile(playerID int64) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, err := s.getLocked(playerID)
	if err != nil {
		return Profile{}, err
	}

	var stats CareerStats
	err = s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.player_id = p.id),
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.player_id = p.id AND ma.status = 'in'),
			COALESCE((SELECT SUM(ps.goals) FROM player_stats ps WHERE ps.player_id = p.id), 0),
			COALESCE((SELECT SUM(ps.assists) FROM player_stats ps WHERE ps.player_id = p.id), 0),
			COALESCE((SELECT SUM(ps.yellow_cards) FROM player_stats ps WHERE ps.player_id = p.id), 0),
			COALESCE((SELECT SUM(ps.red_cards) FROM player_stats ps WHERE ps.player_id = p.id), 0),
			COALESCE((SELECT SUM(ps.minutes_played) FROM player_stats ps WHERE ps.player_id = p.id), 0)
		FROM players p WHERE p.id = ?
	`, playerID).Scan(
		&stats.TotalResponses, &stats.MatchesAttended, &stats.TotalGoals, &stats.TotalAssists,
		&stats.TotalYellow, &stats.TotalRed, &stats.TotalMinutes,
	)
	if err != nil {
		return Profile{}, err
	}

	rows, err := s.db.Query(`
		SELECT m.id, m.title, m.match_date, ma.status, ps.goals, ps.assists, ps.minutes_played
		FROM matches m
		LEFT JOIN match_attendance ma ON m.id = ma.match_id AND ma.player_id = ?
		LEFT JOIN player_stats ps ON m.id = ps.match_id AND ps.player_id = ?
		WHERE m.match_date <= strftime('%s', 'now')
		ORDER BY m.match_date DESC
		LIMIT 10
	`, playerID, playerID)
	if err != nil {
		return Profile{}, err
	}
	defer rows.Close()

	var recent []RecentMatch
	for rows.Next() {
		var (
			rm        RecentMatch
			matchDate int64
			status    sql.NullString
			goals     sql.NullInt64
			assists   sql.NullInt64
			minutes   sql.NullInt64
		)
		if err := rows.Scan(&rm.MatchID, &rm.Title, &matchDate, &status, &goals, &assists, &minutes); err != nil {
			log.Error("Failed to scan recent match row", "error", err, "playerID", playerID)
			continue
		}
		rm.MatchDate = time.Unix(matchDate, 0)
		if status.Valid {
			rm.AttendanceStatus = &status.String
		}
		if goals.Valid {
			g := int(goals.Int64)
			rm.Goals = &g
		}
		if assists.Valid {
			a := int(assists.Int64)
			rm.Assists = &a
		}
		if minutes.Valid {
			m := int(minutes.Int64)
			rm.MinutesPlayed = &m
		}
		recent = append(recent, rm)
	}

	return Profile{Player: player, Stats: stats, RecentMatches: recent}, rows.Err()
}

func (s *store) getLocked(playerID int64) (Player, error) {
	var (
		player Player
		hash   string
	)
	row := s.db.QueryRow(`
		SELECT id, username, password, name, position, jersey_number, is_admin, created_at, updated_at
		FROM players WHERE id = ?
	`, playerID)
	if err := scanPlayerWithHash(row, &player, &hash); err != nil {
		if err == sql.ErrNoRows {
			return Player{}, ErrNotFound
		}
		return Player{}, err
	}
	return player, nil
}

func (s *store) usernameTaken(username string) (bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM players WHERE username = ?`, username).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *store) jerseyTaken(jersey int64, excludePlayerID int64) (bool, error) {
	var id int64
	err := s.db.QueryRow(`
		SELECT id FROM players WHERE jersey_number = ? AND id != ?
	`, jersey, excludePlayerID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanPlayerWithHash(row *sql.Row, p *Player, hash *string) error {
	var (
		jersey  sql.NullInt64
		created int64
		updated int64
	)
	err := row.Scan(&p.ID, &p.Username, hash, &p.Name, &p.Position, &jersey, &p.IsAdmin, &created, &updated)
	if err != nil {
		return err
	}
	if jersey.Valid {
		p.JerseyNumber = &jersey.Int64
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return nil
}

func scanActivities(rows *sql.Rows, activities []Activity) ([]Activity, error) {
	defer rows.Close()
	for rows.Next() {
		var (
			a  Activity
			ts int64
		)
		if err := rows.Scan(&a.Type, &a.Description, &ts); err != nil {
			log.Error("Failed to scan activity row", "error", err)
			continue
		}
		a.CreatedAt = time.Unix(ts, 0)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func validateRegistration(input NewPlayer) error {
	if input.Username == "" || input.Name == "" {
		return fmt.Errorf("%w: username and name are required", ErrValidation)
	}
	if len(input.Password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func normalizePosition(position string) (string, error) {
	if position == "" {
		return PositionMidfielder, nil
	}
	switch strings.ToUpper(position) {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return strings.ToUpper(position), nil
	}
	return "", fmt.Errorf("%w: unknown position %q", ErrValidation, position)
}

func nullableInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// percentage rounds in/total to one decimal, 0 when total is zero.
func percentage(in, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(in)/float64(total)*1000) / 10
}
