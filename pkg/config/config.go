package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Upload      UploadConfig
	Transcriber TranscriberConfig
	Summarizer  SummarizerConfig
	Export      ExportConfig
	Worker      WorkerConfig
	Watcher     WatcherConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"5000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"APP_ENV" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"password"`
	Name        string `envconfig:"DB_NAME" default:"meetings"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration; Redis is optional and the service
// degrades to Postgres-only reads when it is unreachable.
type RedisConfig struct {
	Host        string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port        string        `envconfig:"REDIS_PORT" default:"6379"`
	Password    string        `envconfig:"REDIS_PASSWORD" default:""`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	ProgressTTL time.Duration `envconfig:"REDIS_PROGRESS_TTL" default:"1h"`
	StatsTTL    time.Duration `envconfig:"REDIS_STATS_TTL" default:"2m"`
}

// StorageConfig holds file storage configuration. The default backend is the
// local filesystem with uploads/ for media in and outputs/ for documents out.
type StorageConfig struct {
	Backend         string `envconfig:"STORAGE_BACKEND" default:"local"` // "local" or "minio"
	UploadDir       string `envconfig:"UPLOAD_DIR" default:"uploads"`
	OutputDir       string `envconfig:"OUTPUT_DIR" default:"outputs"`
	TempDir         string `envconfig:"TEMP_DIR" default:"uploads/temp"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meetings"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicRead      bool   `envconfig:"STORAGE_PUBLIC_READ" default:"false"`
}

// UploadConfig holds upload validation configuration
type UploadConfig struct {
	MaxFileSize     int64    `envconfig:"MAX_FILE_SIZE" default:"524288000"` // 500MB
	AudioExtensions []string `envconfig:"AUDIO_EXTENSIONS" default:"mp3,wav,flac,aac,m4a,ogg,wma"`
	VideoExtensions []string `envconfig:"VIDEO_EXTENSIONS" default:"mp4,avi,mov,mkv,webm,flv,wmv"`
}

// TranscriberConfig selects and configures the speech-to-text backend
type TranscriberConfig struct {
	Provider   string        `envconfig:"TRANSCRIBER_PROVIDER" default:"whisper-http"` // whisper-http | whisper-cli | assemblyai
	BaseURL    string        `envconfig:"WHISPER_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey     string        `envconfig:"TRANSCRIBER_API_KEY" default:""`
	Model      string        `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	BinaryPath string        `envconfig:"WHISPER_BINARY" default:""`
	ModelPath  string        `envconfig:"WHISPER_MODEL_PATH" default:""`
	Language   string        `envconfig:"TRANSCRIBER_LANGUAGE" default:""`
	Timeout    time.Duration `envconfig:"TRANSCRIBER_TIMEOUT" default:"10m"`
}

// SummarizerConfig selects and configures the LLM used for minutes generation
type SummarizerConfig struct {
	Provider    string        `envconfig:"SUMMARIZER_PROVIDER" default:"openai"` // openai | gemini
	BaseURL     string        `envconfig:"SUMMARIZER_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey      string        `envconfig:"SUMMARIZER_API_KEY" default:""`
	Model       string        `envconfig:"SUMMARIZER_MODEL" default:"gpt-3.5-turbo"`
	Temperature float64       `envconfig:"SUMMARIZER_TEMPERATURE" default:"0.3"`
	MaxTokens   int           `envconfig:"SUMMARIZER_MAX_TOKENS" default:"1500"`
	Timeout     time.Duration `envconfig:"SUMMARIZER_TIMEOUT" default:"2m"`
}

// ExportConfig holds document rendering configuration
type ExportConfig struct {
	FontFamily        string `envconfig:"EXPORT_FONT" default:"Times New Roman"`
	FontSize          int    `envconfig:"EXPORT_FONT_SIZE" default:"13"`
	IncludeTranscript bool   `envconfig:"EXPORT_INCLUDE_TRANSCRIPT" default:"true"`
}

// WorkerConfig holds pipeline worker pool configuration
type WorkerConfig struct {
	PoolSize              int           `envconfig:"WORKER_POOL_SIZE" default:"3"`
	PollInterval          time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	ZombieInterval        time.Duration `envconfig:"WORKER_ZOMBIE_INTERVAL" default:"2m"`
	FailedLogInterval     time.Duration `envconfig:"WORKER_FAILED_LOG_INTERVAL" default:"10m"`
	CleanupInterval       time.Duration `envconfig:"WORKER_CLEANUP_INTERVAL" default:"1h"`
	MaxRetries            int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	JobTimeout            time.Duration `envconfig:"WORKER_JOB_TIMEOUT" default:"30m"`
	ZombieThreshold       time.Duration `envconfig:"WORKER_ZOMBIE_THRESHOLD" default:"15m"`
	TranscribeConcurrency int           `envconfig:"WORKER_TRANSCRIBE_CONCURRENCY" default:"2"`
	TempMaxAge            time.Duration `envconfig:"WORKER_TEMP_MAX_AGE" default:"24h"`
}

// WatcherConfig holds drop-folder ingestion configuration
type WatcherConfig struct {
	Enabled     bool          `envconfig:"WATCHER_ENABLED" default:"false"`
	Dir         string        `envconfig:"WATCHER_DIR" default:"uploads/inbox"`
	SettleDelay time.Duration `envconfig:"WATCHER_SETTLE_DELAY" default:"2s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Transcriber.Provider {
	case "whisper-http":
		if c.Transcriber.BaseURL == "" {
			return fmt.Errorf("WHISPER_BASE_URL is required for the whisper-http transcriber")
		}
	case "whisper-cli":
		if c.Transcriber.BinaryPath == "" {
			return fmt.Errorf("WHISPER_BINARY is required for the whisper-cli transcriber")
		}
		if c.Transcriber.ModelPath == "" {
			return fmt.Errorf("WHISPER_MODEL_PATH is required for the whisper-cli transcriber")
		}
	case "assemblyai":
		if c.Transcriber.APIKey == "" {
			return fmt.Errorf("TRANSCRIBER_API_KEY is required for the assemblyai transcriber")
		}
	default:
		return fmt.Errorf("unknown transcriber provider %q", c.Transcriber.Provider)
	}

	switch c.Summarizer.Provider {
	case "openai", "gemini":
		if c.Summarizer.APIKey == "" {
			return fmt.Errorf("SUMMARIZER_API_KEY is required for the %s summarizer", c.Summarizer.Provider)
		}
	default:
		return fmt.Errorf("unknown summarizer provider %q", c.Summarizer.Provider)
	}

	switch c.Storage.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
