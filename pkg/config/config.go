package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseHost        string
	DatabasePort        string
	DatabaseUser        string
	DatabasePassword    string
	DatabaseName        string
	GoogleClientID      string
	GoogleClientSecret  string
	GmailAccessToken    string
	GmailRefreshToken   string
	GoogleProjectID     string
	GooglePubSubTopic   string
	GoogleCredentials   string
	FirebaseCredentials string
	AIProvider          string
	GeminiAPIKey        string
	OllamaBaseURL       string
	OllamaModel         string
	WorkerConcurrency   int
	FetchMaxResults     int
	FetchDaysBack       int
	SyncInterval        time.Duration
	RetryMaxAttempts    int
	RetryInitialDelay   time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	syncInterval := 10 * time.Minute
	if v := os.Getenv("SYNC_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			syncInterval = parsed
		}
	}

	retryDelay := 2 * time.Second
	if v := os.Getenv("RETRY_INITIAL_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			retryDelay = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseHost:        getEnv("DB_HOST", "localhost"),
		DatabasePort:        getEnv("DB_PORT", "5432"),
		DatabaseUser:        getEnv("DB_USER", "postgres"),
		DatabasePassword:    getEnv("DB_PASSWORD", "postgres"),
		DatabaseName:        getEnv("DB_NAME", "jobtrack"),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GmailAccessToken:    getEnv("GMAIL_ACCESS_TOKEN", ""),
		GmailRefreshToken:   getEnv("GMAIL_REFRESH_TOKEN", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic:   getEnv("GOOGLE_PUBSUB_TOPIC", "jobtrack-messages"),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		AIProvider:          getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3"),
		WorkerConcurrency:   getEnvInt("WORKER_CONCURRENCY", 2),
		FetchMaxResults:     getEnvInt("FETCH_MAX_RESULTS", 50),
		FetchDaysBack:       getEnvInt("FETCH_DAYS_BACK", 7),
		SyncInterval:        syncInterval,
		RetryMaxAttempts:    getEnvInt("RETRY_MAX_ATTEMPTS", 2),
		RetryInitialDelay:   retryDelay,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
