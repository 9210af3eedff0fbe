package reminder

import "time"

// Store defines the persistence operations the scheduler needs.
type Store interface {
	// DueMatches returns matches whose kickoff falls inside the window and
	// which have no notification record of the given type yet.
	DueMatches(notificationType string, windowStart, windowEnd time.Time) ([]DueMatch, error)
	// RecordNotification writes the sent-marker for a (match, type) pair.
	// It returns false when a record already exists, which is not an error.
	RecordNotification(matchID int64, notificationType, message string) (bool, error)
}
