package matches

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// store handles all database operations for matches and attendance.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	ErrNotFound   = errors.New("match not found")
	ErrValidation = errors.New("invalid input")
)

// Attendance statuses. Players with no mark are treated as "out" wherever
// attendance is displayed.
const (
	StatusIn    = "in"
	StatusOut   = "out"
	StatusMaybe = "maybe"
)

// Match lifecycle statuses.
const (
	MatchScheduled = "scheduled"
	MatchCompleted = "completed"
)

// ValidAttendanceStatus reports whether status is one of in/out/maybe.
func ValidAttendanceStatus(status string) bool {
	return status == StatusIn || status == StatusOut || status == StatusMaybe
}

// Match is a scheduled or completed team match.
type Match struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	MatchDate     time.Time `json:"match_date"`
	Location      *string   `json:"location,omitempty"`
	CreatedBy     *int64    `json:"created_by,omitempty"`
	CreatedByName *string   `json:"created_by_name,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AttendanceCounts are the aggregate marks for one match. Maybe-marks are
// counted in neither the in nor the out bucket.
type AttendanceCounts struct {
	In    int `json:"in"`
	Out   int `json:"out"`
	Maybe int `json:"maybe"`
	Total int `json:"total"`
}

// Summary is a match with aggregate attendance counts. UserStatus carries
// the calling player's own mark in upcoming listings.
type Summary struct {
	Match
	Counts     AttendanceCounts `json:"attendance"`
	UserStatus *string          `json:"user_status,omitempty"`
}

// AttendanceEntry is one player's mark on a match detail view.
// Non-responders appear with status "out" and no marked-at time.
type AttendanceEntry struct {
	PlayerID     int64      `json:"player_id"`
	Name         string     `json:"name"`
	Position     string     `json:"position"`
	JerseyNumber *int64     `json:"jersey_number,omitempty"`
	Status       string     `json:"status"`
	MarkedAt     *time.Time `json:"marked_at,omitempty"`
}

// StatLine is one player's recorded statistics for a match.
type StatLine struct {
	PlayerID      int64  `json:"player_id"`
	Name          string `json:"name"`
	JerseyNumber  *int64 `json:"jersey_number,omitempty"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
	MinutesPlayed int    `json:"minutes_played"`
}

// Detail is the full match view. Stats is nil unless the match date is in
// the past.
type Detail struct {
	Match      Match             `json:"match"`
	Attendance []AttendanceEntry `json:"attendance"`
	Stats      []StatLine        `json:"stats,omitempty"`
}

// RosterPlayer is a name/jersey pair on the in/out roster view.
type RosterPlayer struct {
	Name         string `json:"name"`
	JerseyNumber *int64 `json:"jersey_number,omitempty"`
}

// Roster splits players into confirmed-in and everyone else; players who
// never responded are folded into the out list.
type Roster struct {
	PlayersIn  []RosterPlayer `json:"players_in"`
	PlayersOut []RosterPlayer `json:"players_out"`
}

// NewMatch holds match creation input.
type NewMatch struct {
	Title       string
	Description *string
	MatchDate   time.Time
	Location    *string
}

// MatchUpdate holds a partial match update; nil fields are left unchanged.
type MatchUpdate struct {
	Title       *string
	Description *string
	MatchDate   *time.Time
	Location    *string
	Status      *string
}

// StatsInput holds one player's statistics for a match; omitted fields
// default to zero.
type StatsInput struct {
	PlayerID      int64 `json:"player_id"`
	Goals         int   `json:"goals"`
	Assists       int   `json:"assists"`
	YellowCards   int   `json:"yellow_cards"`
	RedCards      int   `json:"red_cards"`
	MinutesPlayed int   `json:"minutes_played"`
}

// ActivityEntry is one row of the admin dashboard's recent activity feed.
type ActivityEntry struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"player_name"`
	MatchTitle string    `json:"match_title"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// DashboardStats are the admin dashboard aggregates. AverageAttendance is
// the mean per-match "in" count over past matches.
type DashboardStats struct {
	TotalPlayers      int             `json:"total_players"`
	UpcomingMatches   int             `json:"upcoming_matches"`
	ThisMonthMatches  int             `json:"this_month_matches"`
	AverageAttendance float64         `json:"average_attendance"`
	RecentActivity    []ActivityEntry `json:"recent_activity"`
}
