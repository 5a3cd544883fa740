package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Cache      CacheConfig
	Store      StoreConfig
	Scraper    ScraperConfig
	Summary    SummaryConfig
	Pagination PaginationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"pageinsights-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"300s"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sqlite or mongodb

	// SQLite settings
	Path string `envconfig:"STORE_SQLITE_PATH" default:"./data/insights.db"`

	// MongoDB settings
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"page_insights"`
}

// ScraperConfig holds source acquisition settings.
type ScraperConfig struct {
	BaseURL   string        `envconfig:"SCRAPER_BASE_URL" default:"https://www.linkedin.com/company"`
	Timeout   time.Duration `envconfig:"SCRAPER_TIMEOUT" default:"60s"`
	UserAgent string        `envconfig:"SCRAPER_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
}

// SummaryConfig holds AI summary generation settings.
type SummaryConfig struct {
	OpenAIKey     string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model         string        `envconfig:"SUMMARY_MODEL" default:"gpt-4o-mini"`
	Timeout       time.Duration `envconfig:"SUMMARY_TIMEOUT" default:"30s"`
}

// PaginationConfig holds page-size bounds per listing kind.
type PaginationConfig struct {
	SearchDefaultLimit    int `envconfig:"SEARCH_DEFAULT_LIMIT" default:"10"`
	SearchMaxLimit        int `envconfig:"SEARCH_MAX_LIMIT" default:"100"`
	PostsDefaultLimit     int `envconfig:"POSTS_DEFAULT_LIMIT" default:"15"`
	PostsMaxLimit         int `envconfig:"POSTS_MAX_LIMIT" default:"50"`
	FollowersDefaultLimit int `envconfig:"FOLLOWERS_DEFAULT_LIMIT" default:"10"`
	FollowersMaxLimit     int `envconfig:"FOLLOWERS_MAX_LIMIT" default:"50"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Enabled reports whether summary generation is configured.
func (s *SummaryConfig) Enabled() bool {
	return s.OpenAIKey != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
