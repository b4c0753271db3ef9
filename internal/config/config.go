package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Host        string `mapstructure:"HOST"`
	Port        string `mapstructure:"PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	Environment string `mapstructure:"ENVIRONMENT"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// JWT
	JWTSecret              string `mapstructure:"JWT_SECRET"`
	AccessTokenExpireMin   int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTokenExpireDays int    `mapstructure:"REFRESH_TOKEN_EXPIRE_DAYS"`

	// Embedding service (OpenAI compatible)
	EmbeddingAPIKey     string `mapstructure:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `mapstructure:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `mapstructure:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `mapstructure:"EMBEDDING_DIMENSIONS"`

	// LLM provider
	LLMProvider string `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey   string `mapstructure:"LLM_API_KEY"`
	LLMModel    string `mapstructure:"LLM_MODEL"`
	LLMBaseURL  string `mapstructure:"LLM_BASE_URL"`

	// Object storage
	StorageBackend string `mapstructure:"STORAGE_BACKEND"` // local | s3
	StoragePath    string `mapstructure:"STORAGE_PATH"`
	S3Endpoint     string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey    string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey    string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket       string `mapstructure:"S3_BUCKET"`
	S3UseSSL       bool   `mapstructure:"S3_USE_SSL"`

	// Pipeline
	AnswerConcurrency    int     `mapstructure:"ANSWER_CONCURRENCY"`
	AnswerRPS            float64 `mapstructure:"ANSWER_RPS"`
	AnswerUnitTimeoutSec int     `mapstructure:"ANSWER_UNIT_TIMEOUT_SECONDS"`
	RetrieveTopK         int     `mapstructure:"RETRIEVE_TOP_K"`
	ChunkSize            int     `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap         int     `mapstructure:"CHUNK_OVERLAP"`
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("GIN_MODE", "release")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	viper.SetDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/rfpserver?sslmode=disable")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379")
	viper.SetDefault("EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("EMBEDDING_MODEL", "text-embedding-3-small")
	viper.SetDefault("EMBEDDING_DIMENSIONS", 1536)
	viper.SetDefault("LLM_PROVIDER", "openai")
	viper.SetDefault("LLM_MODEL", "gpt-4o-mini")
	viper.SetDefault("STORAGE_BACKEND", "local")
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("S3_BUCKET", "rfp-artifacts")
	viper.SetDefault("ANSWER_CONCURRENCY", 2)
	viper.SetDefault("ANSWER_RPS", 0.5)
	viper.SetDefault("ANSWER_UNIT_TIMEOUT_SECONDS", 30)
	viper.SetDefault("RETRIEVE_TOP_K", 5)
	viper.SetDefault("CHUNK_SIZE", 1000)
	viper.SetDefault("CHUNK_OVERLAP", 200)

	_ = viper.ReadInConfig()

	cfg := &Config{}
	for _, key := range []string{
		"HOST", "PORT", "GIN_MODE", "ENVIRONMENT", "DATABASE_URL", "REDIS_URL",
		"JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MINUTES", "REFRESH_TOKEN_EXPIRE_DAYS",
		"EMBEDDING_API_KEY", "EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS",
		"LLM_PROVIDER", "LLM_API_KEY", "LLM_MODEL", "LLM_BASE_URL",
		"STORAGE_BACKEND", "STORAGE_PATH", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
		"ANSWER_CONCURRENCY", "ANSWER_RPS", "ANSWER_UNIT_TIMEOUT_SECONDS",
		"RETRIEVE_TOP_K", "CHUNK_SIZE", "CHUNK_OVERLAP",
	} {
		if val := os.Getenv(key); val != "" {
			viper.Set(key, val)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) AnswerUnitTimeout() time.Duration {
	return time.Duration(c.AnswerUnitTimeoutSec) * time.Second
}
