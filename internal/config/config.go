package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	MySQLDSN  string // empty selects the in-memory store
	AMQPURL   string // empty disables event publishing
	JWTSecret string

	// Categories seeded at startup when the store is empty
	Categories []string

	// AllowOwnerBid preserves the historical behavior of owners bidding
	// on their own listings; set to false to reject such bids.
	AllowOwnerBid bool

	// OpenCommentDelete preserves the historical behavior of any
	// authenticated user deleting any comment; set to false to restrict
	// deletion to the comment's author.
	OpenCommentDelete bool
}

// NewConfig loads configuration from the environment, reading a .env
// file first when one is present.
func NewConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MySQLDSN:          getEnv("MYSQL_DSN", ""),
		AMQPURL:           getEnv("AMQP_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", "auction-board-dev-secret"),
		Categories:        splitList(getEnv("CATEGORIES", "Electronics,Fashion,Furniture,Toys,Other")),
		AllowOwnerBid:     getBoolEnv("ALLOW_OWNER_BID", true),
		OpenCommentDelete: getBoolEnv("OPEN_COMMENT_DELETE", true),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
