package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     string

	// CORSAllowedOrigins: comma-separated list, "*" when unset.
	CORSAllowedOrigins []string

	Storage StorageConfig
}

// StorageConfig describes the S3-compatible bucket that receives schedule and
// standings snapshots. Snapshots are disabled when BucketName is empty.
type StorageConfig struct {
	// AccountID selects the Cloudflare R2 endpoint; Endpoint overrides it.
	AccountID       string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
	UsePathStyle    bool
}

func (s StorageConfig) Enabled() bool {
	return s.BucketName != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	storage, err := loadStorage()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		Storage:            storage,
	}

	return cfg, nil
}

func loadStorage() (StorageConfig, error) {
	s := StorageConfig{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		Region:          getEnvOrDefault("S3_REGION", "auto"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("S3_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
	}

	if v := os.Getenv("S3_USE_PATH_STYLE"); v != "" {
		usePathStyle, err := strconv.ParseBool(v)
		if err != nil {
			return StorageConfig{}, fmt.Errorf("invalid S3_USE_PATH_STYLE environment variable: %w", err)
		}
		s.UsePathStyle = usePathStyle
	}

	if !s.Enabled() {
		return s, nil
	}
	if s.AccessKeyID == "" || s.SecretAccessKey == "" {
		return StorageConfig{}, fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_BUCKET_NAME is set")
	}
	if s.AccountID == "" && s.Endpoint == "" {
		return StorageConfig{}, fmt.Errorf("either R2_ACCOUNT_ID or S3_ENDPOINT is required when S3_BUCKET_NAME is set")
	}
	return s, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
