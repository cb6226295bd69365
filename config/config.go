package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Auth       AuthConfig       `yaml:"auth"`
	Cache      CacheConfig      `yaml:"cache"`
	Redis      RedisConfig      `yaml:"redis"`
	Query      QueryConfig      `yaml:"query"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the push alert worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push alerts.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port               int      `yaml:"port"`
	RateLimitPerSec    float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	SecureCookies      bool     `yaml:"secure_cookies"`
	ToastTTLSeconds    int      `yaml:"toast_ttl_seconds"`
	// ExportFontPath is a UTF-8 TrueType font used for PDF exports.
	ExportFontPath string `yaml:"export_font_path"`
}

// UpstreamConfig describes the kiosk backend REST API.
type UpstreamConfig struct {
	BaseURL        string            `yaml:"base_url"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Timeout        time.Duration     `yaml:"-"`
	HTTPProxy      string            `yaml:"http_proxy"`
	Headers        map[string]string `yaml:"headers"`
	// Endpoints overrides the default path of a resource, keyed by resource name.
	Endpoints map[string]string `yaml:"endpoints"`
}

// AuthConfig holds the key backend access tokens are signed with.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// CacheConfig controls the in-process response cache.
type CacheConfig struct {
	TTLSeconds     int           `yaml:"ttl_seconds"`
	CleanupSeconds int           `yaml:"cleanup_seconds"`
	TTL            time.Duration `yaml:"-"`
	Cleanup        time.Duration `yaml:"-"`
}

// RedisConfig enables the shared cache tier when Addr is set.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	Channel   string `yaml:"channel"`
}

// QueryConfig holds list screen defaults.
type QueryConfig struct {
	DefaultPageSize  int           `yaml:"default_page_size"`
	PageSizeOptions  []int         `yaml:"page_size_options"`
	SearchDebounceMs int           `yaml:"search_debounce_ms"`
	SearchDebounce   time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
// A .env file in the working directory is loaded first; a fixed set of
// environment variables then override values from the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("VAPID_PUBLIC_KEY"); v != "" {
		cfg.Push.PublicKey = v
	}
	if v := os.Getenv("VAPID_PRIVATE_KEY"); v != "" {
		cfg.Push.PrivateKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("ignoring invalid PORT %q: %v", v, err)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.ToastTTLSeconds <= 0 {
		cfg.Server.ToastTTLSeconds = 60
	}

	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 30
	}
	cfg.Upstream.Timeout = time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second

	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Cache.CleanupSeconds <= 0 {
		cfg.Cache.CleanupSeconds = 600
	}
	cfg.Cache.TTL = time.Duration(cfg.Cache.TTLSeconds) * time.Second
	cfg.Cache.Cleanup = time.Duration(cfg.Cache.CleanupSeconds) * time.Second

	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "kioskadmin"
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = cfg.Redis.KeyPrefix + ":revalidate"
	}

	if cfg.Query.DefaultPageSize <= 0 {
		cfg.Query.DefaultPageSize = 10
	}
	if len(cfg.Query.PageSizeOptions) == 0 {
		cfg.Query.PageSizeOptions = []int{10, 20, 50, 100}
	}
	if cfg.Query.SearchDebounceMs <= 0 {
		cfg.Query.SearchDebounceMs = 500
	}
	cfg.Query.SearchDebounce = time.Duration(cfg.Query.SearchDebounceMs) * time.Millisecond

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
