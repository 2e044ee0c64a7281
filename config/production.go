// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	Inference  InferenceConfig  `json:"inference"`
	Email      EmailConfig      `json:"email"`
	Storage    StorageConfig    `json:"storage"`
	Twitter    TwitterConfig    `json:"twitter"`
	Instagram  InstagramConfig  `json:"instagram"`
	WhatsApp   WhatsAppConfig   `json:"whatsapp"`
	Workflow   WorkflowConfig   `json:"workflow"`
	Events     EventsConfig     `json:"events"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
	AutoMigrate     bool          `json:"auto_migrate"`
}

type ServerConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	BodyLimit         int           `json:"body_limit"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	ProxyHeader       string        `json:"proxy_header"`
	EnableCompression bool          `json:"enable_compression"`
}

type SecurityConfig struct {
	// CORS
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	CORSMaxAge       int      `json:"cors_max_age"`

	// Rate Limiting
	GlobalRateLimit     int           `json:"global_rate_limit"`     // requests per window
	GenerationRateLimit int           `json:"generation_rate_limit"` // model-backed endpoints per window
	RateLimitWindow     time.Duration `json:"rate_limit_window"`

	// Content Security
	CSPPolicy      string   `json:"csp_policy"`
	XFrameOptions  string   `json:"x_frame_options"`
	ReferrerPolicy string   `json:"referrer_policy"`
	IPBlacklist    []string `json:"ip_blacklist"`
}

type LoggingConfig struct {
	Level            string `json:"level"`  // debug, info, warn, error
	Format           string `json:"format"` // json, console
	Output           string `json:"output"` // stdout, file, both
	FilePath         string `json:"file_path"`
	MaxSize          int    `json:"max_size"` // MB
	MaxBackups       int    `json:"max_backups"`
	MaxAge           int    `json:"max_age"` // days
	Compress         bool   `json:"compress"`
	EnableCaller     bool   `json:"enable_caller"`
	EnableStacktrace bool   `json:"enable_stacktrace"`
	EnableAccessLog  bool   `json:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Provider        string        `json:"provider"` // redis, memory
	RedisURL        string        `json:"redis_url"`
	RedisDB         int           `json:"redis_db"`
	RedisPrefix     string        `json:"redis_prefix"`
	DefaultTTL      time.Duration `json:"default_ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// InferenceConfig configures the hosted text and image models
type InferenceConfig struct {
	TextProvider      string        `json:"text_provider"` // huggingface, anthropic
	HuggingFaceAPIKey string        `json:"-"`
	TextModelURL      string        `json:"text_model_url"`
	ImageModelURL     string        `json:"image_model_url"`
	ImageModelName    string        `json:"image_model_name"`
	AnthropicAPIKey   string        `json:"-"`
	AnthropicModel    string        `json:"anthropic_model"`
	MaxTokens         int           `json:"max_tokens"`
	LogoMaxDimension  int           `json:"logo_max_dimension"`
	Timeout           time.Duration `json:"timeout"`
}

// EmailConfig configures campaign delivery and open tracking
type EmailConfig struct {
	Provider          string        `json:"provider"` // ses, mock
	AWSRegion         string        `json:"aws_region"`
	FromEmail         string        `json:"from_email"`
	FromName          string        `json:"from_name"`
	AllowedRecipients []string      `json:"allowed_recipients"`
	TrackingBaseURL   string        `json:"tracking_base_url"`
	Timeout           time.Duration `json:"timeout"`
}

// StorageConfig configures where saved images are uploaded
type StorageConfig struct {
	Provider      string `json:"provider"` // s3, mock
	S3Region      string `json:"s3_region"`
	S3Bucket      string `json:"s3_bucket"`
	PublicBaseURL string `json:"public_base_url"`
	KeyPrefix     string `json:"key_prefix"`
}

type TwitterConfig struct {
	Enabled          bool          `json:"enabled"`
	APIBaseURL       string        `json:"api_base_url"`
	AccessToken      string        `json:"-"` // OAuth 2.0 user-context token
	RateLimitBackoff time.Duration `json:"rate_limit_backoff"`
	Timeout          time.Duration `json:"timeout"`
}

type InstagramConfig struct {
	RapidAPIKey  string        `json:"-"`
	RapidAPIHost string        `json:"rapidapi_host"`
	CacheTTL     time.Duration `json:"cache_ttl"`
	Timeout      time.Duration `json:"timeout"`
}

type WhatsAppConfig struct {
	Provider   string        `json:"provider"` // twilio, mock
	APIBaseURL string        `json:"api_base_url"`
	AccountSID string        `json:"account_sid"`
	AuthToken  string        `json:"-"`
	FromNumber string        `json:"from_number"`
	Timeout    time.Duration `json:"timeout"`
}

type WorkflowConfig struct {
	AdVideoFormURL string `json:"ad_video_form_url"`
}

// EventsConfig configures the trending events refresher
type EventsConfig struct {
	Enabled            bool          `json:"enabled"`
	RefreshInterval    time.Duration `json:"refresh_interval"`
	Country            string        `json:"country"`
	Location           string        `json:"location"`
	CalendarificURL    string        `json:"calendarific_url"`
	CalendarificAPIKey string        `json:"-"`
	OpenWeatherURL     string        `json:"openweather_url"`
	OpenWeatherAPIKey  string        `json:"-"`
	Timeout            time.Duration `json:"timeout"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	// Load environment variables from .env file
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "reachbee"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			SlowQueryTime:   getEnvDuration("DB_SLOW_QUERY_TIME", 1*time.Second),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Host:              getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:              getEnvInt("SERVER_PORT", 5000),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RequestTimeout:    getEnvDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
			BodyLimit:         getEnvInt("SERVER_BODY_LIMIT", 16*1024*1024), // 16MB, data-URL images
			TrustedProxies:    getEnvStringSlice("SERVER_TRUSTED_PROXIES", []string{"127.0.0.1"}),
			ProxyHeader:       getEnvString("SERVER_PROXY_HEADER", "X-Real-IP"),
			EnableCompression: getEnvBool("SERVER_ENABLE_COMPRESSION", true),
		},
		Security: SecurityConfig{
			AllowedOrigins:      getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowedMethods:      getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:      getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"}),
			AllowCredentials:    getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			CORSMaxAge:          getEnvInt("CORS_MAX_AGE", 86400),
			GlobalRateLimit:     getEnvInt("GLOBAL_RATE_LIMIT", 600),
			GenerationRateLimit: getEnvInt("GENERATION_RATE_LIMIT", 30),
			RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
			CSPPolicy:           getEnvString("CSP_POLICY", "default-src 'self'; img-src 'self' data: https:; frame-ancestors 'none';"),
			XFrameOptions:       getEnvString("X_FRAME_OPTIONS", "DENY"),
			ReferrerPolicy:      getEnvString("REFERRER_POLICY", "strict-origin-when-cross-origin"),
			IPBlacklist:         getEnvStringSlice("IP_BLACKLIST", []string{}),
		},
		Logging: LoggingConfig{
			Level:            getEnvString("LOG_LEVEL", "info"),
			Format:           getEnvString("LOG_FORMAT", "json"),
			Output:           getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:         getEnvString("LOG_FILE_PATH", "/var/log/reachbee/app.log"),
			MaxSize:          getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups:       getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:           getEnvInt("LOG_MAX_AGE", 30),
			Compress:         getEnvBool("LOG_COMPRESS", true),
			EnableCaller:     getEnvBool("LOG_ENABLE_CALLER", true),
			EnableStacktrace: getEnvBool("LOG_ENABLE_STACKTRACE", true),
			EnableAccessLog:  getEnvBool("LOG_ENABLE_ACCESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled:         getEnvBool("CACHE_ENABLED", true),
			Provider:        getEnvString("CACHE_PROVIDER", "redis"),
			RedisURL:        getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:         getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix:     getEnvString("CACHE_REDIS_PREFIX", "reachbee:"),
			DefaultTTL:      getEnvDuration("CACHE_DEFAULT_TTL", 1*time.Hour),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 1*time.Minute),
		},
		Inference: InferenceConfig{
			TextProvider:      getEnvString("INFERENCE_TEXT_PROVIDER", "huggingface"),
			HuggingFaceAPIKey: getEnvString("HUGGINGFACE_API_KEY", ""),
			TextModelURL:      getEnvString("HF_TEXT_MODEL_URL", "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.3"),
			ImageModelURL:     getEnvString("HF_IMAGE_MODEL_URL", "https://api-inference.huggingface.co/models/black-forest-labs/FLUX.1-dev"),
			ImageModelName:    getEnvString("HF_IMAGE_MODEL_NAME", "FLUX.1-dev"),
			AnthropicAPIKey:   getEnvString("ANTHROPIC_API_KEY", ""),
			AnthropicModel:    getEnvString("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
			MaxTokens:         getEnvInt("INFERENCE_MAX_TOKENS", 1024),
			LogoMaxDimension:  getEnvInt("INFERENCE_LOGO_MAX_DIMENSION", 512),
			Timeout:           getEnvDuration("INFERENCE_TIMEOUT", 60*time.Second),
		},
		Email: EmailConfig{
			Provider:          getEnvString("EMAIL_PROVIDER", "ses"),
			AWSRegion:         getEnvString("EMAIL_AWS_REGION", "us-east-1"),
			FromEmail:         getEnvString("EMAIL_FROM_EMAIL", ""),
			FromName:          getEnvString("EMAIL_FROM_NAME", "Reachbee"),
			AllowedRecipients: getEnvStringSlice("EMAIL_ALLOWED_RECIPIENTS", []string{}),
			TrackingBaseURL:   strings.TrimRight(getEnvString("EMAIL_TRACKING_BASE_URL", "http://localhost:5000"), "/"),
			Timeout:           getEnvDuration("EMAIL_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Provider:      getEnvString("STORAGE_PROVIDER", "s3"),
			S3Region:      getEnvString("STORAGE_S3_REGION", "us-east-1"),
			S3Bucket:      getEnvString("STORAGE_S3_BUCKET", ""),
			PublicBaseURL: strings.TrimRight(getEnvString("STORAGE_PUBLIC_BASE_URL", ""), "/"),
			KeyPrefix:     getEnvString("STORAGE_KEY_PREFIX", "images"),
		},
		Twitter: TwitterConfig{
			Enabled:          getEnvBool("TWITTER_ENABLED", true),
			APIBaseURL:       strings.TrimRight(getEnvString("TWITTER_API_BASE_URL", "https://api.x.com"), "/"),
			AccessToken:      getEnvString("TWITTER_ACCESS_TOKEN", ""),
			RateLimitBackoff: getEnvDuration("TWITTER_RATE_LIMIT_BACKOFF", 15*time.Minute),
			Timeout:          getEnvDuration("TWITTER_TIMEOUT", 30*time.Second),
		},
		Instagram: InstagramConfig{
			RapidAPIKey:  getEnvString("INSTAGRAM_RAPIDAPI_KEY", ""),
			RapidAPIHost: getEnvString("INSTAGRAM_RAPIDAPI_HOST", "instagram-scrapper-posts-reels-stories-downloader.p.rapidapi.com"),
			CacheTTL:     getEnvDuration("INSTAGRAM_CACHE_TTL", 30*time.Minute),
			Timeout:      getEnvDuration("INSTAGRAM_TIMEOUT", 30*time.Second),
		},
		WhatsApp: WhatsAppConfig{
			Provider:   getEnvString("WHATSAPP_PROVIDER", "twilio"),
			APIBaseURL: strings.TrimRight(getEnvString("TWILIO_API_BASE_URL", "https://api.twilio.com"), "/"),
			AccountSID: getEnvString("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnvString("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnvString("TWILIO_PHONE_NUMBER", ""),
			Timeout:    getEnvDuration("WHATSAPP_TIMEOUT", 30*time.Second),
		},
		Workflow: WorkflowConfig{
			AdVideoFormURL: getEnvString("N8N_AD_VIDEO_FORM_URL", "https://jivansh.app.n8n.cloud/form/0020f266-854f-4e74-9658-71156538a583"),
		},
		Events: EventsConfig{
			Enabled:            getEnvBool("EVENTS_ENABLED", false),
			RefreshInterval:    getEnvDuration("EVENTS_REFRESH_INTERVAL", 6*time.Hour),
			Country:            getEnvString("EVENTS_COUNTRY", "IN"),
			Location:           getEnvString("EVENTS_LOCATION", "India"),
			CalendarificURL:    getEnvString("CALENDARIFIC_URL", "https://calendarific.com/api/v2/holidays"),
			CalendarificAPIKey: getEnvString("CALENDARIFIC_API_KEY", ""),
			OpenWeatherURL:     getEnvString("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
			OpenWeatherAPIKey:  getEnvString("OPENWEATHER_API_KEY", ""),
			Timeout:            getEnvDuration("EVENTS_TIMEOUT", 20*time.Second),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "production"),
			Version:     getEnvString("VERSION", "1.0.0"),
			CommitHash:  getEnvString("COMMIT_HASH", "unknown"),
		},
	}

	// Validate the loaded configuration
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads environment variables from .env file if it exists.
// Variables already present in the environment win.
func loadEnvFile() error {
	envFile := getEnvString("ENV_FILE", ".env")

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("error reading %s: %w", envFile, err)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	// Validate database configuration
	if cfg.Database.Host == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		errors = append(errors, "DB_PORT must be between 1 and 65535")
	}
	if cfg.Database.Name == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.Database.User == "" {
		errors = append(errors, "DB_USER is required")
	}
	if cfg.Database.Password == "" {
		errors = append(errors, "DB_PASSWORD is required")
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Server.RequestTimeout <= 0 {
		errors = append(errors, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Validate inference configuration
	if cfg.Inference.HuggingFaceAPIKey == "" {
		errors = append(errors, "HUGGINGFACE_API_KEY is required")
	}
	switch cfg.Inference.TextProvider {
	case "huggingface":
	case "anthropic":
		if cfg.Inference.AnthropicAPIKey == "" {
			errors = append(errors, "ANTHROPIC_API_KEY is required when INFERENCE_TEXT_PROVIDER is anthropic")
		}
	default:
		errors = append(errors, "INFERENCE_TEXT_PROVIDER must be one of: [huggingface anthropic]")
	}

	// Validate email configuration
	if len(cfg.Email.AllowedRecipients) == 0 {
		errors = append(errors, "EMAIL_ALLOWED_RECIPIENTS must list at least one address")
	}
	if cfg.Email.TrackingBaseURL == "" {
		errors = append(errors, "EMAIL_TRACKING_BASE_URL is required")
	}
	if cfg.Email.Provider == "ses" {
		if cfg.Email.AWSRegion == "" {
			errors = append(errors, "EMAIL_AWS_REGION is required for the ses provider")
		}
		if cfg.Email.FromEmail == "" {
			errors = append(errors, "EMAIL_FROM_EMAIL is required for the ses provider")
		}
	}

	// Validate storage configuration
	if cfg.Storage.Provider == "s3" {
		if cfg.Storage.S3Bucket == "" {
			errors = append(errors, "STORAGE_S3_BUCKET is required for the s3 provider")
		}
		if cfg.Storage.PublicBaseURL == "" {
			errors = append(errors, "STORAGE_PUBLIC_BASE_URL is required for the s3 provider")
		}
	}

	// Validate social integrations
	if cfg.Twitter.Enabled && cfg.Twitter.AccessToken == "" {
		errors = append(errors, "TWITTER_ACCESS_TOKEN is required when Twitter is enabled")
	}
	if cfg.WhatsApp.Provider == "twilio" {
		if cfg.WhatsApp.AccountSID == "" || cfg.WhatsApp.AuthToken == "" {
			errors = append(errors, "TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required for the twilio provider")
		}
		if cfg.WhatsApp.FromNumber == "" {
			errors = append(errors, "TWILIO_PHONE_NUMBER is required for the twilio provider")
		}
	}

	// Validate events configuration if enabled
	if cfg.Events.Enabled {
		if cfg.Events.CalendarificAPIKey == "" && cfg.Events.OpenWeatherAPIKey == "" {
			errors = append(errors, "CALENDARIFIC_API_KEY or OPENWEATHER_API_KEY is required when events are enabled")
		}
		if cfg.Events.RefreshInterval <= 0 {
			errors = append(errors, "EVENTS_REFRESH_INTERVAL must be positive")
		}
	}

	// Validate logging configuration
	if cfg.Logging.Level != "" {
		validLevels := []string{"debug", "info", "warn", "error"}
		valid := false
		for _, level := range validLevels {
			if cfg.Logging.Level == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
		}
	}
	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		errors = append(errors, "LOG_FILE_PATH is required when LOG_OUTPUT writes to a file")
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled {
		if cfg.Cache.Provider == "redis" && cfg.Cache.RedisURL == "" {
			errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled with redis provider")
		}
	}

	// Return validation errors if any
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
