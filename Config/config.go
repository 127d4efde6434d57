package Config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultReadingRate is the weekly words-read target applied when a student
// has never had an explicit rate recorded.
const DefaultReadingRate = 35000

type Settings struct {
	DatabasePath string
	ListenAddr   string
	JWTSecret    string
	// ReadingRate is the fallback weekly reading rate for students with no
	// recorded rate anywhere in their history.
	ReadingRate int
}

// Load reads settings from .env (if present) and the process environment.
func Load() Settings {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	settings := Settings{
		DatabasePath: getEnv("TRACKER_DB", "homeschool_tracker.db"),
		ListenAddr:   getEnv("TRACKER_ADDR", ":8080"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		ReadingRate:  DefaultReadingRate,
	}

	if raw := os.Getenv("DEFAULT_READING_RATE"); raw != "" {
		if rate, err := strconv.Atoi(raw); err == nil && rate > 0 {
			settings.ReadingRate = rate
		} else {
			log.Printf("Ignoring invalid DEFAULT_READING_RATE %q", raw)
		}
	}

	return settings
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
