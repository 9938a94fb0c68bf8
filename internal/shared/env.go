package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override values from config.toml.
const (
	EnvBackendURL          = "GRAND_BACKEND_URL"
	EnvAIKey               = "GRAND_AI_API_KEY"
	EnvOpenAIKey           = "OPENAI_API_KEY"
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// LoadEnv loads variables from the given dotenv files into the process environment.
// Missing files are ignored; already set variables win.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, p, err)
		}
	}
	return nil
}

// ApplyEnv overlays secrets and endpoints from the environment onto c.
func ApplyEnv(c *Config) {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.BaseURL = v
	}

	if v := os.Getenv(EnvAIKey); v != "" {
		c.AI.APIKey = v
	} else if v := os.Getenv(EnvOpenAIKey); v != "" {
		c.AI.APIKey = v
	}

	if v := os.Getenv(EnvSpotifyClientID); v != "" {
		c.Credentials.Spotify.ClientID = v
	}

	if v := os.Getenv(EnvSpotifyClientSecret); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
}
