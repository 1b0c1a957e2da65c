package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUMMARIZER_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "5000")
	}
	if cfg.Database.Name != "meetings" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "meetings")
	}
	if cfg.Database.User != "postgres" || cfg.Database.Password != "password" {
		t.Errorf("Database credentials = %q/%q, want postgres/password", cfg.Database.User, cfg.Database.Password)
	}
	if cfg.Upload.MaxFileSize != 524288000 {
		t.Errorf("Upload.MaxFileSize = %d, want 524288000", cfg.Upload.MaxFileSize)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "local")
	}
	if cfg.Storage.UploadDir != "uploads" || cfg.Storage.OutputDir != "outputs" {
		t.Errorf("Storage dirs = %q/%q, want uploads/outputs", cfg.Storage.UploadDir, cfg.Storage.OutputDir)
	}
	if cfg.Transcriber.Provider != "whisper-http" {
		t.Errorf("Transcriber.Provider = %q, want whisper-http", cfg.Transcriber.Provider)
	}
	if cfg.Worker.PoolSize != 3 {
		t.Errorf("Worker.PoolSize = %d, want 3", cfg.Worker.PoolSize)
	}
	if cfg.Worker.JobTimeout != 30*time.Minute {
		t.Errorf("Worker.JobTimeout = %v, want 30m", cfg.Worker.JobTimeout)
	}
	if len(cfg.Upload.AudioExtensions) != 7 {
		t.Errorf("Upload.AudioExtensions = %v, want 7 entries", cfg.Upload.AudioExtensions)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUMMARIZER_API_KEY", "test-key")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_NAME", "meetings_test")
	t.Setenv("WORKER_POOL_SIZE", "7")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "meetings_test" {
		t.Errorf("Database.Name = %q, want meetings_test", cfg.Database.Name)
	}
	if cfg.Worker.PoolSize != 7 {
		t.Errorf("Worker.PoolSize = %d, want 7", cfg.Worker.PoolSize)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("Server.AllowedOrigins = %v, want 2 entries", cfg.Server.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Transcriber: TranscriberConfig{Provider: "whisper-http", BaseURL: "http://localhost:9090"},
			Summarizer:  SummarizerConfig{Provider: "openai", APIKey: "k"},
			Storage:     StorageConfig{Backend: "local"},
			Upload:      UploadConfig{MaxFileSize: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown transcriber provider",
			mutate:  func(c *Config) { c.Transcriber.Provider = "siri" },
			wantErr: "unknown transcriber provider",
		},
		{
			name:    "assemblyai without key",
			mutate:  func(c *Config) { c.Transcriber.Provider = "assemblyai"; c.Transcriber.APIKey = "" },
			wantErr: "TRANSCRIBER_API_KEY",
		},
		{
			name: "whisper-cli without binary",
			mutate: func(c *Config) {
				c.Transcriber.Provider = "whisper-cli"
				c.Transcriber.ModelPath = "m.bin"
			},
			wantErr: "WHISPER_BINARY",
		},
		{
			name: "whisper-cli without model",
			mutate: func(c *Config) {
				c.Transcriber.Provider = "whisper-cli"
				c.Transcriber.BinaryPath = "/usr/bin/whisper"
			},
			wantErr: "WHISPER_MODEL_PATH",
		},
		{
			name:    "summarizer without key",
			mutate:  func(c *Config) { c.Summarizer.APIKey = "" },
			wantErr: "SUMMARIZER_API_KEY",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "ftp" },
			wantErr: "unknown storage backend",
		},
		{
			name:    "non-positive max file size",
			mutate:  func(c *Config) { c.Upload.MaxFileSize = 0 },
			wantErr: "MAX_FILE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "db", Port: "5432", User: "postgres", Password: "password",
			Name: "meetings", SSLMode: "disable",
		},
	}
	want := "host=db port=5432 user=postgres password=password dbname=meetings sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}
