package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotEnvCandidates lists .env files from highest to lowest priority
func dotEnvCandidates(env string) []string {
	if env == "" {
		return []string{".env.local", ".env"}
	}
	return []string{".env." + env + ".local", ".env.local", ".env." + env, ".env"}
}

// LoadDotEnv loads the .env files that exist for APP_ENV. godotenv never
// overwrites a set variable, so OS env wins and earlier files win over later ones.
// Returns the files actually loaded.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range dotEnvCandidates(os.Getenv("APP_ENV")) {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
