package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the application configuration
type Config struct {
	TelegramToken  string
	WarnsFile      string
	OffersFile     string
	UsersDBPath    string
	StaffIDs       map[int64]bool
	SelfUpdate     bool
	UpdateInterval time.Duration
	UpdateBranch   string
}

// NewConfig creates a new configuration from environment variables
func NewConfig() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using default values")
	}

	return &Config{
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", "YOUR_TELEGRAM_BOT_TOKEN"),
		WarnsFile:      getEnv("WARNS_FILE", "warns.json"),
		OffersFile:     getEnv("OFFERS_FILE", "offers.json"),
		UsersDBPath:    getEnv("USERS_DB_PATH", "./users.db"),
		StaffIDs:       parseStaffIDs(getEnv("STAFF_IDS", "")),
		SelfUpdate:     getEnv("SELF_UPDATE", "false") == "true",
		UpdateInterval: getDuration("UPDATE_INTERVAL", 10*time.Minute),
		UpdateBranch:   getEnv("UPDATE_BRANCH", "main"),
	}
}

// IsStaff reports whether a user id belongs to the configured staff list
func (c *Config) IsStaff(userID int64) bool {
	return c.StaffIDs[userID]
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration parses a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// parseStaffIDs parses a comma-separated list of Telegram user ids
func parseStaffIDs(value string) map[int64]bool {
	ids := map[int64]bool{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Warning: ignoring invalid staff id %q", part)
			continue
		}
		ids[id] = true
	}
	return ids
}
