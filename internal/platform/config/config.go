package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

// DefaultEnvFiles are loaded when present; real environment variables win.
var DefaultEnvFiles = []string{".env", ".env.local"}

type DatabaseOptions struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"5m"`
	Migrate         bool          `env:"DATABASE_MIGRATE" envDefault:"true"`
}

type RedisOptions struct {
	URL              string        `env:"REDIS_URL"`
	PoolSize         int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	StatsInterval    time.Duration `env:"REDIS_STATS_INTERVAL" envDefault:"15s"`
	OperationTimeout time.Duration `env:"REDIS_OPERATION_TIMEOUT" envDefault:"3s"`
}

type KafkaOptions struct {
	Brokers      []string `env:"KAFKA_BROKERS" envSeparator:","`
	RecordsTopic string   `env:"KAFKA_RECORDS_TOPIC" envDefault:"precinct.records"`
	ClientID     string   `env:"KAFKA_CLIENT_ID" envDefault:"precinct-server"`
}

type LockoutOptions struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES" envDefault:"5"`
	Window      time.Duration `env:"LOGIN_FAILURE_WINDOW" envDefault:"15m"`
}

// Validate rejects thresholds that would lock officers out permanently or never.
func (l LockoutOptions) Validate() error {
	if l.MaxFailures < 0 {
		return fmt.Errorf("LOGIN_MAX_FAILURES must be non-negative, got %d", l.MaxFailures)
	}
	if l.MaxFailures > 0 && l.Window <= 0 {
		return errors.New("LOGIN_FAILURE_WINDOW must be positive when lockout is enabled")
	}
	return nil
}

// Server captures the records backend configuration.
type Server struct {
	Addr            string        `env:"PRECINCT_ADDR" envDefault:":5000"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Database DatabaseOptions
	Redis    RedisOptions
	Kafka    KafkaOptions
	Lockout  LockoutOptions
}

func (s Server) IsProduction() bool {
	return s.Environment == Production
}

// Console captures the operator console configuration.
type Console struct {
	APIURL      string        `env:"PRECINCT_API_URL" envDefault:"http://127.0.0.1:5000"`
	HTTPTimeout time.Duration `env:"PRECINCT_HTTP_TIMEOUT" envDefault:"10s"`
	LogFile     string        `env:"PRECINCT_LOG_FILE"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadEnv loads the env files that exist and reports how many were found.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// LoadServer reads env files and the process environment into a Server.
func LoadServer(files ...string) (Server, error) {
	if _, err := LoadEnv(files); err != nil {
		return Server{}, fmt.Errorf("load env files: %w", err)
	}
	return ParseServer(env.Options{})
}

// ParseServer parses a Server with explicit env options; tests pass an Environment map.
func ParseServer(opts env.Options) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Server{}, fmt.Errorf("parse server config: %w", err)
	}
	if err := cfg.Lockout.Validate(); err != nil {
		return Server{}, fmt.Errorf("lockout configuration error: %w", err)
	}
	return cfg, nil
}

// LoadConsole reads env files and the process environment into a Console.
func LoadConsole(files ...string) (Console, error) {
	if _, err := LoadEnv(files); err != nil {
		return Console{}, fmt.Errorf("load env files: %w", err)
	}
	return ParseConsole(env.Options{})
}

func ParseConsole(opts env.Options) (Console, error) {
	var cfg Console
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Console{}, fmt.Errorf("parse console config: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return Console{}, errors.New("PRECINCT_HTTP_TIMEOUT must be positive")
	}
	return cfg, nil
}
