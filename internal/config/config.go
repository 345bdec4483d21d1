// Package config reads the server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds runtime settings for the API server.
type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	LogDevelopment  bool
	ShutdownTimeout time.Duration
	CORSAllowOrigin string

	StoreDriver string
	Postgres    PostgresConfig

	Redis         RedisConfig
	EntryCacheTTL time.Duration
	StatsCacheTTL time.Duration

	// StatsRefreshSchedule is a cron spec; empty disables the job.
	StatsRefreshSchedule string
}

type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var p parser
	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "9091"),
		GinMode:              getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogDevelopment:       p.bool("LOG_DEVELOPMENT", false),
		ShutdownTimeout:      p.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		CORSAllowOrigin:      getEnvOrDefault("CORS_ALLOW_ORIGIN", "*"),
		StoreDriver:          strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreDriverPostgres)),
		EntryCacheTTL:        p.duration("CACHE_TTL", 24*time.Hour),
		StatsCacheTTL:        p.duration("STATS_CACHE_TTL", 10*time.Minute),
		StatsRefreshSchedule: os.Getenv("STATS_REFRESH_SCHEDULE"),
	}
	if _, set := os.LookupEnv("STATS_REFRESH_SCHEDULE"); !set {
		cfg.StatsRefreshSchedule = "@every 10m"
	}

	cfg.Postgres = PostgresConfig{
		URL:             databaseURL(),
		MaxConns:        int32(p.int("POSTGRES_MAX_CONNS", 25)),
		MinConns:        int32(p.int("POSTGRES_MIN_CONNS", 5)),
		MaxConnLifetime: p.duration("POSTGRES_MAX_CONN_LIFETIME", time.Hour),
		MaxConnIdleTime: p.duration("POSTGRES_MAX_CONN_IDLE_TIME", 30*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Enabled:  p.bool("REDIS_ENABLED", true),
		Addr:     fmt.Sprintf("%s:%s", getEnvOrDefault("REDIS_HOST", "localhost"), getEnvOrDefault("REDIS_PORT", "6379")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       p.int("REDIS_DB", 0),
		PoolSize: p.int("REDIS_POOL_SIZE", 10),
	}

	if p.err != nil {
		return nil, p.err
	}
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %q or %q", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

// databaseURL prefers DATABASE_URL and otherwise assembles one from parts.
func databaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	host := getEnvOrDefault("POSTGRES_HOST", "localhost")
	port := getEnvOrDefault("POSTGRES_PORT", "5432")
	user := getEnvOrDefault("POSTGRES_USER", "jotly")
	password := getEnvOrDefault("POSTGRES_PASSWORD", "")
	dbname := getEnvOrDefault("POSTGRES_DB", "jotly")
	sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser keeps the first conversion error so Load can report it once.
type parser struct{ err error }

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
}

func (p *parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}
