package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject    string
	ServiceAccountJSON string
	ServiceAccountPath string
	StoreDriver        string
	StorageBucket      string
	RedisURL           string
	ResubscribeDelay   time.Duration
	CORSOrigins        []string

	JWTSecret     string
	JWTExpiry     int64
	AdminUsername string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", "./firebase-service-account.json"),
		StoreDriver:        getEnv("STORE_DRIVER", "firestore"),
		StorageBucket:      getEnv("STORAGE_BUCKET", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		ResubscribeDelay:   time.Duration(getEnvAsInt64("RESUBSCRIBE_DELAY_SECONDS", 3)) * time.Second,
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:          getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		AdminUsername:      getEnv("ADMIN_USERNAME", "fezeaix"),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
