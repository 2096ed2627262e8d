package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Push         PushConfig         `yaml:"push"`
	WorkerPool   WorkerPoolConfig   `yaml:"worker_pool"`
	Verification VerificationConfig `yaml:"verification"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// VerificationConfig holds the tunables of the verification engine.
type VerificationConfig struct {
	AutoApproveThreshold  float64       `yaml:"auto_approve_threshold"`
	ExceptionWindowMin    int           `yaml:"exception_window_minutes"`
	ExceptionWindow       time.Duration `yaml:"-"`
	SweepIntervalSeconds  int           `yaml:"sweep_interval_seconds"`
	SweepInterval         time.Duration `yaml:"-"`
	ShiftCacheTTLSeconds  int           `yaml:"shift_cache_ttl_seconds"`
	ShiftCacheTTL         time.Duration `yaml:"-"`
	CameraCacheTTLSeconds int           `yaml:"camera_cache_ttl_seconds"`
	CameraCacheTTL        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Verification.AutoApproveThreshold <= 0 {
		cfg.Verification.AutoApproveThreshold = 0.9
	}
	if cfg.Verification.ExceptionWindowMin <= 0 {
		cfg.Verification.ExceptionWindowMin = 120
	}
	cfg.Verification.ExceptionWindow = time.Duration(cfg.Verification.ExceptionWindowMin) * time.Minute

	if cfg.Verification.SweepIntervalSeconds <= 0 {
		cfg.Verification.SweepIntervalSeconds = 300
	}
	cfg.Verification.SweepInterval = time.Duration(cfg.Verification.SweepIntervalSeconds) * time.Second

	if cfg.Verification.ShiftCacheTTLSeconds <= 0 {
		cfg.Verification.ShiftCacheTTLSeconds = 60
	}
	cfg.Verification.ShiftCacheTTL = time.Duration(cfg.Verification.ShiftCacheTTLSeconds) * time.Second

	if cfg.Verification.CameraCacheTTLSeconds <= 0 {
		cfg.Verification.CameraCacheTTLSeconds = 300
	}
	cfg.Verification.CameraCacheTTL = time.Duration(cfg.Verification.CameraCacheTTLSeconds) * time.Second

	return &cfg, nil
}
