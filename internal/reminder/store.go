package reminder

import (
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewStore creates a notification Store backed by the given database.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) DueMatches(notificationType string, windowStart, windowEnd time.Time) ([]DueMatch, error) {
	rows, err := s.db.Query(`
		SELECT
			m.id, m.title, m.match_date,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id AND ma.status = 'in') AS players_in,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id AND ma.status = 'out') AS players_out,
			(SELECT COUNT(*) FROM match_attendance ma WHERE ma.match_id = m.id) AS total_responses
		FROM matches m
		LEFT JOIN notifications n ON m.id = n.match_id AND n.type = ?
		WHERE m.match_date BETWEEN ? AND ?
		  AND n.id IS NULL
	`, notificationType, windowStart.Unix(), windowEnd.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []DueMatch
	for rows.Next() {
		var (
			m         DueMatch
			matchDate int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &matchDate, &m.PlayersIn, &m.PlayersOut, &m.TotalResponses); err != nil {
			log.Error("Failed to scan due match row", "error", err)
			continue
		}
		m.MatchDate = time.Unix(matchDate, 0)
		due = append(due, m)
	}
	return due, rows.Err()
}

// RecordNotification inserts the sent-marker. The unique constraint on
// (match_id, type) arbitrates concurrent schedulers: a violation means
// another run already sent this notification.
func (s *store) RecordNotification(matchID int64, notificationType, message string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO notifications (match_id, type, message)
		VALUES (?, ?, ?)
	`, matchID, notificationType, message)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
