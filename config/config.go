package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Seed       SeedConfig       `yaml:"seed"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Todo       TodoConfig       `yaml:"todo"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
// Push is disabled when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	StaticDir       string  `yaml:"static_dir"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// SeedConfig lists the items loaded into an empty catalog at startup.
// Availability and Available mirror the two representations found in
// older catalog dumps; at most one is expected per item.
type SeedConfig struct {
	Items     []SeedItem `yaml:"items"`
	ImportURL string     `yaml:"import_url"`
}

// SeedItem is a single catalog entry as written in the config file.
type SeedItem struct {
	ID           int64   `yaml:"id"`
	Name         string  `yaml:"name"`
	Availability *string `yaml:"availability"`
	Available    *bool   `yaml:"available"`
	ThumbnailURL string  `yaml:"thumbnail_url"`
}

// TodoConfig controls the to-do list.
type TodoConfig struct {
	StorageKey         string        `yaml:"storage_key"`
	UndoTimeoutSeconds float64       `yaml:"undo_timeout_seconds"`
	UndoTimeout        time.Duration `yaml:"-"`
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

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds < 0 {
		cfg.Server.CacheTTLSeconds = 0
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:shareit.db?_foreign_keys=on"
	}

	if len(cfg.Seed.Items) == 0 && cfg.Seed.ImportURL == "" {
		cfg.Seed.Items = DefaultSeedItems()
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Todo.StorageKey == "" {
		cfg.Todo.StorageKey = "todos"
	}
	if cfg.Todo.UndoTimeoutSeconds <= 0 {
		cfg.Todo.UndoTimeoutSeconds = 3
	}
	cfg.Todo.UndoTimeout = time.Duration(cfg.Todo.UndoTimeoutSeconds * float64(time.Second))
}

// DefaultSeedItems is the demo catalog used when the config names none.
func DefaultSeedItems() []SeedItem {
	available := "available"
	borrowed := "borrowed"
	yes := true
	return []SeedItem{
		{ID: 1, Name: "Cordless Drill", Availability: &available},
		{ID: 2, Name: "Ladder", Availability: &borrowed},
		{ID: 3, Name: "Camping Stove", Available: &yes},
	}
}
