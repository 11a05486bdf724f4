package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/database"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "padel.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
		"SEED_MATCHES":      "200",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var playerNames = []string{
	"Ana", "Bea", "Carla", "Dani", "Elena", "Fran", "Gus", "Hugo",
	"Iker", "Julia", "Kike", "Lola",
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	numMatches, err := strconv.Atoi(cfg["SEED_MATCHES"])
	if err != nil || numMatches <= 0 {
		log.Fatalf("SEED_MATCHES must be a positive integer, got %q", cfg["SEED_MATCHES"])
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := club.New(db)

	for i, name := range playerNames {
		if err := store.AddPlayer(ctx, int64(i+1), name); err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
	}
	players, err := store.GetAllPlayers(ctx)
	if err != nil {
		log.Fatalf("Failed to list players: %s", err)
	}
	log.Info("Ensured players exist.", "seeded", len(playerNames), "total", len(players))

	leagueID, err := store.CreateLeague(ctx, "Seeder League")
	if err != nil {
		log.Fatalf("Failed to create league: %s", err)
	}
	var seasons []int64
	for _, name := range []string{"Spring", "Autumn"} {
		seasonID, err := store.CreateSeason(ctx, leagueID, fmt.Sprintf("%s %d", name, time.Now().Year()))
		if err != nil {
			log.Fatalf("Failed to create season: %s", err)
		}
		seasons = append(seasons, seasonID)
	}

	// One session per 20 matches. Every third one stays a friendly outside the league,
	// and the last session is left ACTIVE so its matches stay out of the ratings.
	const matchesPerSession = 20
	startTime := time.Now()
	sessionCount := (numMatches + matchesPerSession - 1) / matchesPerSession
	day := startTime.AddDate(0, 0, -sessionCount).Truncate(24 * time.Hour)
	inserted := 0

	for s := 0; s < sessionCount; s++ {
		var seasonID *int64
		if s%3 != 2 {
			seasonID = &seasons[s%len(seasons)]
		}
		status := club.SessionSubmitted
		if s == sessionCount-1 {
			status = club.SessionActive
		}
		sessionID, err := store.CreateSession(ctx, seasonID, fmt.Sprintf("Session %d", s+1), status)
		if err != nil {
			log.Fatalf("Failed to create session: %s", err)
		}

		for m := 0; m < matchesPerSession && inserted < numMatches; m++ {
			match := randomMatch(sessionID, day.Add(time.Duration(18*60+m*5)*time.Minute))
			if _, err := store.InsertMatch(ctx, &match); err != nil {
				log.Fatalf("Failed to insert match: %s", err)
			}
			inserted++
		}
		day = day.AddDate(0, 0, 1)
		log.Info("Inserted session", "session", sessionID, "status", status, "completed", inserted, "total", numMatches)
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded the club.", "league", leagueID, "seasons", seasons, "matches", inserted, "duration", duration)
}

// randomMatch draws four distinct players and a best-of-games score.
func randomMatch(sessionID int64, playedAt time.Time) club.Match {
	picks := rand.Perm(len(playerNames))[:4]
	winner := 6 + rand.Intn(2)
	loser := rand.Intn(winner - 1)
	score1, score2 := winner, loser
	if rand.Intn(2) == 0 {
		score1, score2 = loser, winner
	}
	return club.Match{
		SessionID:  &sessionID,
		Date:       playedAt,
		Team1P1:    int64(picks[0] + 1),
		Team1P2:    int64(picks[1] + 1),
		Team2P1:    int64(picks[2] + 1),
		Team2P2:    int64(picks[3] + 1),
		Team1Score: score1,
		Team2Score: score2,
		IsRanked:   rand.Intn(10) != 0,
	}
}
