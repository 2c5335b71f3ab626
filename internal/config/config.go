// Package config holds the settings of the command line client.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

const DefaultServer = "http://localhost:8080"

type Config struct {
	ServerURL string
	Locale    string
}

// Load reads PEWARNAAN_SERVER and PEWARNAAN_LOCALE, with .env files applied
// first when present.
func Load() Config {
	// Baca file env (jika ada). Tidak error kalau file tidak ada.
	_ = godotenv.Load(".env", ".env.local")

	return Config{
		ServerURL: getenv("PEWARNAAN_SERVER", DefaultServer),
		Locale:    getenv("PEWARNAAN_LOCALE", "id"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
