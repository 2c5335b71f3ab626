package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	DBMaxConns  int

	StorageDriver  string
	StoragePath    string
	StorageBaseURL string
	MinioEndpoint  string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	GeoIPDBPath   string
	DefaultLocale string

	RecommenderAPIKey  string
	RecommenderBaseURL string
	RecommenderModel   string

	NSDEGenerations int
	JobPollInterval time.Duration
	JobTTL          time.Duration
	WorkerEmbedded  bool

	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// A .env file in the working directory is read first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 10),
		StorageDriver:      getEnv("STORAGE_DRIVER", "filesystem"),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		MinioEndpoint:      os.Getenv("MINIO_ENDPOINT"),
		MinioBucket:        getEnv("MINIO_BUCKET", "pewarnaan"),
		MinioAccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:        getEnvBool("MINIO_USE_SSL", false),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "id"),
		RecommenderAPIKey:  os.Getenv("RECOMMENDER_API_KEY"),
		RecommenderBaseURL: getEnv("RECOMMENDER_BASE_URL", "https://api.deepseek.com"),
		RecommenderModel:   getEnv("RECOMMENDER_MODEL", "deepseek-chat"),
		NSDEGenerations:    getEnvInt("NSDE_GENERATIONS", 1),
		JobPollInterval:    time.Millisecond * time.Duration(getEnvInt("JOB_POLL_INTERVAL_MS", 2000)),
		JobTTL:             time.Minute * time.Duration(getEnvInt("JOB_TTL_MINUTES", 60)),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	// Tanpa database, API memakai repository in-memory sehingga worker harus
	// berjalan di proses yang sama.
	cfg.WorkerEmbedded = getEnvBool("WORKER_EMBEDDED", cfg.DatabaseURL == "")

	if cfg.NSDEGenerations < 1 {
		return nil, fmt.Errorf("NSDE_GENERATIONS must be at least 1")
	}
	if cfg.JobPollInterval <= 0 {
		return nil, fmt.Errorf("JOB_POLL_INTERVAL_MS must be positive")
	}
	if cfg.DBMaxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if cfg.StorageDriver == "minio" && cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT is required when STORAGE_DRIVER=minio")
	}

	return cfg, nil
}

// UsesDatabase reports whether a Postgres connection is configured.
func (c *Config) UsesDatabase() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
