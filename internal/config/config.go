package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// StorageMode selects which portfolio backend the server runs with.
type StorageMode string

const (
	// StorageModeLocal keeps portfolio state in blob files on the local disk.
	StorageModeLocal StorageMode = "local"
	// StorageModeCloud keeps portfolio state in Postgres, keyed by user identity.
	StorageModeCloud StorageMode = "cloud"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Storage backend selection
	StorageMode  StorageMode
	LocalDataDir string

	// Database (cloud mode)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity token verification. Tokens are minted by the external
	// authentication collaborator; the API only verifies and reads them.
	JWTSecret string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Storage
		StorageMode:  StorageMode(getEnv("STORAGE_MODE", string(StorageModeCloud))),
		LocalDataDir: getEnv("LOCAL_DATA_DIR", "./data"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "nestegg"),
		DBPassword: getEnv("DB_PASSWORD", "nestegg"),
		DBName:     getEnv("DB_NAME", "nestegg"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	if config.StorageMode != StorageModeLocal && config.StorageMode != StorageModeCloud {
		log.Printf("Warning: unknown STORAGE_MODE %q, falling back to cloud\n", config.StorageMode)
		config.StorageMode = StorageModeCloud
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
