package players

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Sentinel errors surfaced by the registry. The HTTP layer maps each to a
// machine-readable error kind.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateJersey    = errors.New("jersey number already taken")
	ErrAdminExists        = errors.New("admin account already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 4 characters long")
	ErrNotFound           = errors.New("player not found")
	ErrValidation         = errors.New("invalid input")
)

// Player positions. ADMIN marks the self-provisioned admin account.
const (
	PositionGoalkeeper = "GK"
	PositionDefender   = "DEF"
	PositionMidfielder = "MID"
	PositionForward    = "FWD"
	PositionAdmin      = "ADMIN"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 4

// Player is a registered team member. The password hash never leaves the
// store.
type Player struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Position     string    `json:"position"`
	JerseyNumber *int64    `json:"jersey_number,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Listing is a player with roster-wide aggregates for the team and admin
// views.
type Listing struct {
	Player
	TotalResponses       int     `json:"total_responses"`
	MatchesAttended      int     `json:"matches_attended"`
	TotalGoals           int     `json:"total_goals"`
	TotalAssists         int     `json:"total_assists"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// Summary is a player's own dashboard numbers, scoped to past matches.
type Summary struct {
	TotalMatches    int     `json:"total_matches"`
	AttendedMatches int     `json:"attended_matches"`
	AttendanceRate  float64 `json:"attendance_rate"`
	TotalGoals      int     `json:"total_goals"`
}

// CareerStats aggregates a player's recorded statistics across all matches.
type CareerStats struct {
	TotalResponses  int `json:"total_responses"`
	MatchesAttended int `json:"matches_attended"`
	TotalGoals      int `json:"total_goals"`
	TotalAssists    int `json:"total_assists"`
	TotalYellow     int `json:"total_yellow_cards"`
	TotalRed        int `json:"total_red_cards"`
	TotalMinutes    int `json:"total_minutes"`
}

// RecentMatch is one past match on a player's profile, with their mark and
// recorded statistics if any.
type RecentMatch struct {
	MatchID          int64     `json:"match_id"`
	Title            string    `json:"title"`
	MatchDate        time.Time `json:"match_date"`
	AttendanceStatus *string   `json:"attendance_status,omitempty"`
	Goals            *int      `json:"goals,omitempty"`
	Assists          *int      `json:"assists,omitempty"`
	MinutesPlayed    *int      `json:"minutes_played,omitempty"`
}

// Profile is the detailed player view.
type Profile struct {
	Player        Player        `json:"player"`
	Stats         CareerStats   `json:"stats"`
	RecentMatches []RecentMatch `json:"recent_matches"`
}

// Activity is one row of a player's recent activity feed.
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPlayer holds registration input.
type NewPlayer struct {
	Username     string
	Password     string
	Name         string
	Position     string
	JerseyNumber *int64
}

// ProfileUpdate holds profile mutation input.
type ProfileUpdate struct {
	Name         string
	Position     string
	JerseyNumber *int64
}
