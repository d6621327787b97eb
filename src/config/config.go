package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config アプリケーション設定
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	Log    LogConfig
	S3     S3Config
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port string
}

// StoreConfig ホスト型ストアへの接続設定（両方とも必須）
type StoreConfig struct {
	Endpoint  string // PostgreSQL DSN
	PublicKey string // クライアントが提示する公開APIキー
}

// AuthConfig 認証設定
type AuthConfig struct {
	JWTSecret          string
	JWTExpiresIn       time.Duration
	RefreshExpiresIn   time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// LogConfig ログ設定
type LogConfig struct {
	Level          string
	Directory      string
	UploadEnabled  bool
	UploadMaxAge   time.Duration
	UploadInterval time.Duration
}

// S3Config S3設定
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// LoadConfig 環境変数から設定を読み込み
// ストアのエンドポイントと公開キーが欠けている場合はエラーを返し、起動を中止させる
func LoadConfig() (*Config, error) {
	storeEndpoint := os.Getenv("STORE_ENDPOINT")
	storePublicKey := os.Getenv("STORE_PUBLIC_KEY")
	if storeEndpoint == "" || storePublicKey == "" {
		return nil, fmt.Errorf("missing store environment variables: STORE_ENDPOINT and STORE_PUBLIC_KEY are required")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Store: StoreConfig{
			Endpoint:  storeEndpoint,
			PublicKey: storePublicKey,
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "thoughtstream-dev-secret"),
			JWTExpiresIn:       getDurationEnv("JWT_EXPIRES_IN", 1*time.Hour),
			RefreshExpiresIn:   getDurationEnv("REFRESH_EXPIRES_IN", 720*time.Hour),
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
		Log: LogConfig{
			Level:          getEnv("LOG_LEVEL", "info"),
			Directory:      getEnv("LOG_DIRECTORY", "logs"),
			UploadEnabled:  getBoolEnv("LOG_UPLOAD_ENABLED", false),
			UploadMaxAge:   getDurationEnv("LOG_UPLOAD_MAX_AGE", 24*time.Hour),
			UploadInterval: getDurationEnv("LOG_UPLOAD_INTERVAL", 1*time.Hour),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", "http://localhost:9000"), // MinIO用のデフォルト
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "thoughtstream-logs"),
			UseSSL:          getBoolEnv("S3_USE_SSL", false),
		},
	}, nil
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv 環境変数をboolで取得
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv 環境変数をtime.Durationで取得
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
