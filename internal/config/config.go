package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultDatabaseName is used when MONGO_DB_NAME is not provided.
const DefaultDatabaseName = "Scene"

// Config captures the runtime configuration for the SceneFrames backend service.
type Config struct {
	MongoURI       string
	MongoDBName    string
	MongoTimeout   time.Duration
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	LoginRateLimit int
	LoginRateBurst int
	FrameStore     ObjectStoreConfig
}

// ObjectStoreConfig describes the S3-compatible bucket used for frame blobs.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Load reads configuration from environment variables, applying sensible defaults
// for local development while allowing overrides through environment variables.
// JWT_SECRET, MONGO_URI and MONGO_DB_NAME keep their historical names; the
// remaining knobs are prefixed with SCENE_.
func Load() (Config, error) {
	cfg := Config{
		MongoURI:       getString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:    getString("MONGO_DB_NAME", DefaultDatabaseName),
		MongoTimeout:   getDuration("SCENE_MONGO_TIMEOUT", 5*time.Second),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       getDuration("SCENE_TOKEN_TTL", 7*24*time.Hour),
		LogLevel:       getString("SCENE_LOG_LEVEL", "info"),
		LoginRateLimit: getInt("SCENE_LOGIN_RATE_LIMIT", 10),
		LoginRateBurst: getInt("SCENE_LOGIN_RATE_BURST", 5),
		FrameStore: ObjectStoreConfig{
			Bucket:        getString("SCENE_FRAMES_BUCKET", ""),
			Region:        getString("SCENE_FRAMES_REGION", "us-east-1"),
			Endpoint:      getString("SCENE_FRAMES_ENDPOINT", ""),
			PublicBaseURL: getString("SCENE_FRAMES_PUBLIC_URL", ""),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
