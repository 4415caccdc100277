package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment   string
	Name          string
	Version       string
	LogLevel      string
	HTTP          HTTPConfig
	Backend       BackendConfig
	Auth          AuthConfig
	Media         MediaConfig
	S3            S3Config
	Notifications NotificationsConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
}

// BackendConfig points at the remote REST API that owns specialists and secretaries.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// AuthConfig holds the HMAC secret shared with the identity provider. When it
// is empty tokens are forwarded unverified and callers are keyed by token.
type AuthConfig struct {
	JWTSecret string
}

type MediaConfig struct {
	Backend          string
	MaxUploadBytes   int
	AllowedMimeTypes []string
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicBaseURL   string
}

type NotificationsConfig struct {
	AllowedOrigins []string
}

const (
	MediaBackendRemote = "remote"
	MediaBackendS3     = "s3"
)

func NewConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	httpReadTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return nil, err
	}

	httpWriteTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}

	backendTimeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "20s"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Name:        getEnv("APP_NAME", "cosecdesk"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port:         getEnv("HTTP_PORT", "8080"),
			ReadTimeout:  httpReadTimeout,
			WriteTimeout: httpWriteTimeout,
			MaxHeaderMB:  getEnvAsInt("HTTP_MAX_HEADER_MB", 1),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_API_URL", "http://localhost:8000"), "/") + "/api/v1",
			Timeout: backendTimeout,
			Debug:   getEnvAsBool("BACKEND_DEBUG", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Media: MediaConfig{
			Backend:          getEnv("MEDIA_BACKEND", MediaBackendRemote),
			MaxUploadBytes:   getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 4*1024*1024),
			AllowedMimeTypes: getEnvAsList("MEDIA_ALLOWED_MIME_TYPES", []string{"image/jpeg", "image/png", "image/webp"}),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "cosecdesk"),
			UseSSL:          getEnvAsBool("S3_USE_SSL", true),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Notifications: NotificationsConfig{
			AllowedOrigins: getEnvAsList("WS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		},
	}

	if cfg.Media.Backend != MediaBackendRemote && cfg.Media.Backend != MediaBackendS3 {
		return nil, fmt.Errorf("неизвестный MEDIA_BACKEND: %s", cfg.Media.Backend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value := 0
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
