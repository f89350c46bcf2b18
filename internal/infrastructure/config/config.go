package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers selected from the DATABASE_URL scheme.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Version  string `env:"APP_VERSION, default=1.0.0"`

	DatabaseURL string `env:"DATABASE_URL, default=mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB,     default=sweet_shop"`

	Auth    AuthConfig
	Catalog CatalogConfig
	Redis   RedisConfig

	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"`
}

type AuthConfig struct {
	JWTSecret             string `env:"JWT_SECRET_KEY, required"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=1440"`
	AdminBootstrapEnabled bool   `env:"ADMIN_BOOTSTRAP_ENABLED, default=true"`
}

// AccessTokenTTL converts the configured minutes into a duration.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

type CatalogConfig struct {
	MaxSweetPrice    float64       `env:"MAX_SWEET_PRICE,    default=1000"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL, default=5m"`
}

// RedisConfig leaves Addr empty to run without the category cache.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads a .env file when present, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.AccessTokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if _, err := cfg.Driver(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Driver picks the storage backend from the DATABASE_URL scheme.
func (c *Config) Driver() (string, error) {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("config: invalid DATABASE_URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("config: unsupported DATABASE_URL scheme %q", u.Scheme)
	}
}
