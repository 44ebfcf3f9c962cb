package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL           string `yaml:"url"`
	MigrationsURL string `yaml:"migrations_url"` // file:// source for schema migrations
	AutoMigrate   bool   `yaml:"auto_migrate"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // cache entry TTL
}

type APIConfig struct {
	Port       int           `yaml:"port"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
	HistoryLimit    int    `yaml:"history_limit"`    // assistant messages kept per user
	RatePerMinute   int    `yaml:"rate_per_minute"`  // assistant calls per user per minute
	MaxPromptTokens int    `yaml:"max_prompt_tokens"`
}

type PushConfig struct {
	FCMServerKey string `yaml:"fcm_server_key"`
	FCMEndpoint  string `yaml:"fcm_endpoint"`
}

type SchedConfig struct {
	AwardRepairInterval  time.Duration `yaml:"award_repair_interval"`
	PushDispatchInterval time.Duration `yaml:"push_dispatch_interval"`
	PushDispatchBatch    int           `yaml:"push_dispatch_batch"`
}

type WorkerConfig struct {
	FanoutWorkers int `yaml:"fanout_workers"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	API      APIConfig      `yaml:"api"`
	AI       AIConfig       `yaml:"ai"`
	Push     PushConfig     `yaml:"push"`
	Sched    SchedConfig    `yaml:"sched"`
	Worker   WorkerConfig   `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, overlays secrets from the
// environment (a .env file is honored when present) and applies defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev

	// Environment overrides for secrets, so the YAML file can stay committed.
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("API_JWT_SECRET"); v != "" {
		cfg.API.JWTSecret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.GeminiKey = v
	}
	if v := os.Getenv("FCM_SERVER_KEY"); v != "" {
		cfg.Push.FCMServerKey = v
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MigrationsURL == "" {
		cfg.Database.MigrationsURL = "file://migrations"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.SessionTTL <= 0 {
		cfg.API.SessionTTL = 24 * time.Hour
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 2 * time.Minute
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.HistoryLimit <= 0 {
		cfg.AI.HistoryLimit = 20
	}
	if cfg.AI.RatePerMinute <= 0 {
		cfg.AI.RatePerMinute = 10
	}
	if cfg.AI.MaxPromptTokens <= 0 {
		cfg.AI.MaxPromptTokens = 4096
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.Push.FCMEndpoint == "" {
		cfg.Push.FCMEndpoint = "https://fcm.googleapis.com/fcm/send"
	}
	if cfg.Sched.AwardRepairInterval <= 0 {
		cfg.Sched.AwardRepairInterval = 5 * time.Minute
	}
	if cfg.Sched.PushDispatchInterval <= 0 {
		cfg.Sched.PushDispatchInterval = 30 * time.Second
	}
	if cfg.Sched.PushDispatchBatch <= 0 {
		cfg.Sched.PushDispatchBatch = 100
	}
	if cfg.Worker.FanoutWorkers <= 0 {
		cfg.Worker.FanoutWorkers = 4
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.API.JWTSecret == "" && !dev {
		return nil, errors.New("api.jwt_secret is required outside dev mode")
	}

	return &cfg, nil
}
