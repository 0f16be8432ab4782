package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://discord.com/api/v10"

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	Token         string
	ApplicationID string
	APIURL        string
	LogLevel      string
}

// Load reads the given .env files, when they exist, and then the process
// environment. Values already in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("config: could not load %s: %w", f, err)
		}
	}

	cfg := Config{
		Token:         os.Getenv("DISCORD_TOKEN"),
		ApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
		APIURL:        getenv("DISCORD_API_URL", DefaultAPIURL),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
	if cfg.Token == "" {
		return cfg, ErrMissingToken
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
