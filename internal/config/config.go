package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the console's runtime settings. The backend API stays
// remote; the only local state is the session database.
type Config struct {
	APIURL     string
	ListenAddr string
	StateDB    string
	LogLevel   string
	PageSize   int
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		APIURL:     EnvDefault("API_URL", "http://localhost:3000"),
		ListenAddr: EnvDefault("LISTEN_ADDR", ":8080"),
		StateDB:    EnvDefault("STATE_DB", "invadmin.db"),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),
		PageSize:   EnvIntDefault("PAGE_SIZE", 5),
	}
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
