package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/fin-parser/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the current or parent
// directory. Variables already present in the environment are not overridden.
func LoadEnv() {
	once.Do(func() {
		loadEnvFrom(".env", filepath.Join("..", ".env"))
	})
}

func loadEnvFrom(candidates ...string) string {
	logger := logging.GetLogger()
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.Warn("Error loading .env file",
				logging.Field{Key: logging.FieldFile, Value: envFile},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
			return ""
		}
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
