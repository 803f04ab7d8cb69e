package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string
	LogDir   string

	// Forecast artifacts (pre-trained model + paired value scaler).
	ModelPath  string
	ScalerPath string

	// Analytical parameters.
	ForecastHorizon int
	ClusterCount    int
	ClusterSeed     int64
	TopProducts     int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first, so a deployed
	// binary picks up its sibling .env regardless of the caller's cwd.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("ADASH_DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	seed, _ := strconv.ParseInt(getEnv("ADASH_CLUSTER_SEED", "42"), 10, 64)

	cfg := &AppConfig{
		DataPath:        dataPath,
		LogDir:          logDir,
		ModelPath:       getEnv("ADASH_MODEL_PATH", filepath.Join(dataPath, "artifacts", "model.json")),
		ScalerPath:      getEnv("ADASH_SCALER_PATH", filepath.Join(dataPath, "artifacts", "scaler.json")),
		ForecastHorizon: getEnvInt("ADASH_FORECAST_HORIZON", 7),
		ClusterCount:    getEnvInt("ADASH_CLUSTER_COUNT", 4),
		ClusterSeed:     seed,
		TopProducts:     getEnvInt("ADASH_TOP_PRODUCTS", 8),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
