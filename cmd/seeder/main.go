package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/ijlaln/footycount-app/internal/database"
	"github.com/ijlaln/footycount-app/internal/matches"
	"github.com/ijlaln/footycount-app/internal/players"
)

// Simplified config loading for the script
func loadConfig() string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatal("Error: Required environment variable DB_NAME is not set.")
	}
	return dbName
}

type seedPlayer struct {
	username string
	name     string
	position string
	jersey   int64
}

func main() {
	log.Info("Starting database seeder...")
	dbName := loadConfig()

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.")

	// Demo players all share the same password to keep local testing simple.
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %s", err)
	}

	seedPlayers := []seedPlayer{
		{"keeper", "Sam Keeper", players.PositionGoalkeeper, 1},
		{"stone", "Charlie Stone", players.PositionDefender, 4},
		{"runner", "Alex Runner", players.PositionMidfielder, 8},
		{"striker", "Jo Striker", players.PositionForward, 9},
		{"winger", "Max Winger", players.PositionForward, 11},
	}

	playerIDs := make([]int64, 0, len(seedPlayers))
	for _, p := range seedPlayers {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO players (username, password, name, position, jersey_number)
			VALUES (?, ?, ?, ?, ?)
		`, p.username, string(hash), p.name, p.position, p.jersey)
		if err != nil {
			log.Fatalf("Failed to insert demo player %s: %s", p.username, err)
		}
		// On re-runs the insert is a no-op, so look the id up by username.
		var id int64
		if err := db.QueryRow(`SELECT id FROM players WHERE username = ?`, p.username).Scan(&id); err != nil {
			log.Fatalf("Failed to look up demo player id for %s: %s", p.username, err)
		}
		playerIDs = append(playerIDs, id)
	}
	log.Info("Ensured demo players exist.", "count", len(seedPlayers))

	_, err = db.Exec(`
		INSERT OR IGNORE INTO players (username, password, name, position, is_admin)
		VALUES ('coach', ?, 'Pat Coach', ?, 1)
	`, string(hash), players.PositionAdmin)
	if err != nil {
		log.Fatalf("Failed to insert demo admin: %s", err)
	}

	// A spread of past and upcoming matches with randomized attendance.
	statuses := []string{matches.StatusIn, matches.StatusOut, matches.StatusMaybe}
	now := time.Now()
	offsets := []time.Duration{
		-21 * 24 * time.Hour,
		-14 * 24 * time.Hour,
		-7 * 24 * time.Hour,
		48 * time.Hour,
		7 * 24 * time.Hour,
	}

	for i, offset := range offsets {
		matchDate := now.Add(offset)
		status := matches.MatchScheduled
		if offset < 0 {
			status = matches.MatchCompleted
		}
		res, err := db.Exec(`
			INSERT INTO matches (title, description, match_date, location, status)
			VALUES (?, 'Seeded demo match', ?, 'Local pitch', ?)
		`, seedTitle(i, offset), matchDate.Unix(), status)
		if err != nil {
			log.Fatalf("Failed to insert demo match: %s", err)
		}
		matchID, err := res.LastInsertId()
		if err != nil {
			log.Fatalf("Failed to read inserted match id: %s", err)
		}

		for _, playerID := range playerIDs {
			mark := statuses[rand.Intn(len(statuses))]
			_, err := db.Exec(`
				INSERT OR IGNORE INTO match_attendance (match_id, player_id, status)
				VALUES (?, ?, ?)
			`, matchID, playerID, mark)
			if err != nil {
				log.Fatalf("Failed to insert attendance mark: %s", err)
			}

			if offset < 0 && mark == matches.StatusIn {
				_, err := db.Exec(`
					INSERT OR IGNORE INTO player_stats (player_id, match_id, goals, assists, minutes_played)
					VALUES (?, ?, ?, ?, 90)
				`, playerID, matchID, rand.Intn(3), rand.Intn(2))
				if err != nil {
					log.Fatalf("Failed to insert demo stats: %s", err)
				}
			}
		}
	}

	log.Info("Successfully seeded demo data.", "matches", len(offsets))
}

func seedTitle(i int, offset time.Duration) string {
	titles := []string{
		"League round vs Rovers",
		"Friendly vs Old Boys",
		"Cup tie vs Wanderers",
		"Training match",
		"Derby vs United",
	}
	if i < len(titles) {
		return titles[i]
	}
	if offset < 0 {
		return "Past match"
	}
	return "Upcoming match"
}
