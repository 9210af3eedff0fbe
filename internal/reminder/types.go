package reminder

import (
	"database/sql"
	"sync"
	"time"
)

// Notification threshold types. At most one notification per (match, type)
// pair is ever recorded; the unique constraint on the notifications table
// is the de-duplication mechanism.
const (
	TypeImminent = "pre_match_30min"
	TypeAdvance  = "pre_match_24h"
)

// Threshold windows relative to the check instant. A match is "imminent"
// when kickoff falls within the next 30 minutes, and due for the advance
// reminder when kickoff is between 23 and 24 hours out.
const (
	imminentWindow     = 30 * time.Minute
	advanceWindowStart = 23 * time.Hour
	advanceWindowEnd   = 24 * time.Hour
)

// DueMatch is a match that crossed a threshold without a recorded
// notification, with its current attendance counts.
type DueMatch struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	MatchDate      time.Time `json:"match_date"`
	PlayersIn      int       `json:"players_in"`
	PlayersOut     int       `json:"players_out"`
	TotalResponses int       `json:"total_responses"`
}

// Notification is the payload broadcast with a match-notification event.
type Notification struct {
	Type            string   `json:"type"`
	Match           DueMatch `json:"match"`
	Message         string   `json:"message"`
	AttendanceCount struct {
		In    int `json:"in"`
		Out   int `json:"out"`
		Total int `json:"total"`
	} `json:"attendanceCount"`
}

// store handles notification queries against the shared database.
type store struct {
	db *sql.DB
	mu sync.Mutex
}
