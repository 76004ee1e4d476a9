package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CartStoreRedis = "redis"
	CartStoreFile  = "file"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr        string
	GRPCAddr        string
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CartStore string
	CartFile  string

	// MySQLDSN empty means the built-in product listing is served.
	MySQLDSN string

	WorkerCount int
	QueueSize   int

	SearchDebounce      time.Duration
	SuggestionHideDelay time.Duration
	NotificationDisplay time.Duration
	NotificationExit    time.Duration
	NewsletterDelay     time.Duration
	ContactDelay        time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil
	cfg, err := FromLookup(os.LookupEnv)
	return cfg, dotenv, err
}

// FromLookup builds the configuration from a variable lookup. Every invalid
// value is reported, not only the first.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		AppEnv:          r.str("APP_ENV", "development"),
		LogLevel:        r.str("LOG_LEVEL", "info"),
		HTTPAddr:        r.str("HTTP_ADDR", ":8080"),
		GRPCAddr:        r.str("GRPC_ADDR", ":50051"),
		ShutdownTimeout: r.duration("SHUTDOWN_TIMEOUT", 5*time.Second),

		RedisAddr:     r.str("REDIS_ADDR", "localhost:6379"),
		RedisPassword: r.str("REDIS_PASSWORD", ""),
		RedisDB:       r.integer("REDIS_DB", 0),

		CartStore: strings.ToLower(r.str("CART_STORE", CartStoreRedis)),
		CartFile:  r.str("CART_FILE", "data/techmart.json"),
		MySQLDSN:  r.str("MYSQL_DSN", ""),

		WorkerCount: r.integer("WORKER_COUNT", 4),
		QueueSize:   r.integer("QUEUE_SIZE", 1000),

		SearchDebounce:      r.duration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		SuggestionHideDelay: r.duration("SUGGESTION_HIDE_DELAY", 200*time.Millisecond),
		NotificationDisplay: r.duration("NOTIFICATION_DISPLAY", 4*time.Second),
		NotificationExit:    r.duration("NOTIFICATION_EXIT", 300*time.Millisecond),
		NewsletterDelay:     r.duration("NEWSLETTER_DELAY", time.Second),
		ContactDelay:        r.duration("CONTACT_DELAY", 2*time.Second),
	}

	errs := r.errs
	if cfg.CartStore != CartStoreRedis && cfg.CartStore != CartStoreFile {
		errs = append(errs, fmt.Errorf("CART_STORE: unsupported store %q", cfg.CartStore))
	}
	if cfg.CartStore == CartStoreFile && cfg.CartFile == "" {
		errs = append(errs, errors.New("CART_FILE: required for the file store"))
	}
	if cfg.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT: must be at least 1, got %d", cfg.WorkerCount))
	}
	if cfg.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE: must be at least 1, got %d", cfg.QueueSize))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	if d < 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: must not be negative", key))
		return def
	}
	return d
}
