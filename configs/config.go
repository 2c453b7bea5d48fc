package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Gemini struct {
	APIKey string
	Model  string
}

type Bulk struct {
	MaxUploadBytes   int64
	AutosaveDebounce time.Duration
	DraftRetention   time.Duration
	UploadWorkers    int
}

type Config struct {
	PostgresURI string
	RedisURI    string
	FrontendURL string
	ListenAddr  string
	APIBaseURL  string
	R2          R2
	Gemini      Gemini
	Bulk        Bulk
	SecretKey   string
	CookieName  string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		ListenAddr:  getEnv("LISTEN_ADDR", ":3000"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:3000"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Gemini: Gemini{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Bulk: Bulk{
			MaxUploadBytes:   getEnvInt64("MAX_UPLOAD_BYTES", 100*1024*1024),
			AutosaveDebounce: getEnvDuration("AUTOSAVE_DEBOUNCE", 2*time.Second),
			DraftRetention:   getEnvDuration("DRAFT_RETENTION", 30*24*time.Hour),
			UploadWorkers:    int(getEnvInt64("UPLOAD_WORKERS", 4)),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
