package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Everything has a sensible
// default so the player runs out of the box against a ./music tree.
type Config struct {
	MusicDir      string // Root of the media tree: MusicDir/singles, MusicDir/albums
	SinglesDir    string // MusicDir/singles
	AlbumsDir     string // MusicDir/albums
	DefaultArtist string // Artist label used when a file carries no artist tag
	DataDir       string // Directory for the preference database and logs
	DBFileName    string // Preference database file name
	DBPath        string // Full path to the preference database
	LogPath       string // Log file path; empty logs to stderr
	LogLevel      string // debug, info, warn or error
	WatchLibrary  bool   // Rescan the media tree when files change
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	musicDir := getEnv("MUSIC_DIR", "music")
	dataDir := getEnv("DATA_DIR", "data")
	dbFileName := getEnv("DB_FILE_NAME", "player.db")

	return &Config{
		MusicDir:      musicDir,
		SinglesDir:    filepath.Join(musicDir, "singles"),
		AlbumsDir:     filepath.Join(musicDir, "albums"),
		DefaultArtist: getEnv("DEFAULT_ARTIST", "Rose Kestrelle"),
		DataDir:       dataDir,
		DBFileName:    dbFileName,
		DBPath:        filepath.Join(dataDir, dbFileName),
		LogPath:       getEnv("LOG_PATH", filepath.Join(dataDir, "kestrelfm.log")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		WatchLibrary:  getEnvBool("WATCH_LIBRARY", true),
	}
}
