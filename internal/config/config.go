package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Oracle   OracleConfig   `envPrefix:"ORACLE_"`
	Matcher  MatcherConfig  `envPrefix:"MATCHER_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Import   ImportConfig   `envPrefix:"IMPORT_"`
}

type AppConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"job-matcher"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8000"`
	LogJSON     bool   `env:"LOG_JSON" envDefault:"false"`
	LogDebug    bool   `env:"LOG_DEBUG" envDefault:"false"`
	SeedJobs    bool   `env:"SEED_JOBS" envDefault:"true"`
	// MigrationsOnStart applies embedded migrations before the server starts listening.
	MigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

type DatabaseConfig struct {
	DBHost     string `env:"HOST" envDefault:"localhost"`
	DBPort     string `env:"PORT" envDefault:"5432"`
	DBName     string `env:"NAME" envDefault:"job_matcher"`
	DBUser     string `env:"USER" envDefault:"postgres"`
	DBPassword string `env:"PASSWORD"`
	DBSSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	ConnectTimeout        time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	PoolMaxConns          int32         `env:"POOL_MAX_CONNS" envDefault:"10"`
	PoolMinConns          int32         `env:"POOL_MIN_CONNS"`
	PoolMaxConnLifetime   time.Duration `env:"POOL_MAX_CONN_LIFETIME"`
	PoolMaxConnIdleTime   time.Duration `env:"POOL_MAX_CONN_IDLE_TIME"`
	PoolHealthCheckPeriod time.Duration `env:"POOL_HEALTH_CHECK_PERIOD"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(d.DBHost),
		strings.TrimSpace(d.DBPort),
		strings.TrimSpace(d.DBUser),
		d.DBPassword,
		strings.TrimSpace(d.DBName),
		strings.TrimSpace(d.DBSSLMode),
	)
}

// RedisConfig configures the oracle score cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	ScoreTTL time.Duration `env:"SCORE_TTL" envDefault:"24h"`
}

type OracleConfig struct {
	Provider string `env:"PROVIDER" envDefault:"gemini"`
	APIKey   string `env:"API_KEY"`
	Model    string `env:"MODEL"`
	// BaseURL overrides the provider endpoint, e.g. a self-hosted OpenAI-compatible gateway.
	BaseURL        string        `env:"BASE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"20s"`
	MaxTextRunes   int           `env:"MAX_TEXT_RUNES" envDefault:"1500"`
	MaxLogLength   int           `env:"MAX_LOG_LENGTH" envDefault:"200"`
}

type MatcherConfig struct {
	Workers      int           `env:"WORKERS" envDefault:"4"`
	TopK         int           `env:"TOP_K" envDefault:"5"`
	PairDeadline time.Duration `env:"PAIR_DEADLINE" envDefault:"60s"`
	// OracleRPS caps oracle call starts per second across workers; 0 means unlimited.
	OracleRPS int `env:"ORACLE_RPS" envDefault:"0"`

	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialBackoff time.Duration `env:"INITIAL_BACKOFF" envDefault:"500ms"`
	MaxBackoff     time.Duration `env:"MAX_BACKOFF" envDefault:"8s"`

	// BreakerThreshold of 0 disables the oracle circuit breaker.
	BreakerThreshold int           `env:"BREAKER_THRESHOLD" envDefault:"10"`
	BreakerReset     time.Duration `env:"BREAKER_RESET" envDefault:"30s"`
}

// JWTConfig enables bearer-token verification when AccessSecret is set.
// Tokens are issued by the identity service, never by this one.
type JWTConfig struct {
	AccessSecret string `env:"ACCESS_SECRET"`
}

type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"MATCH_TOPIC" envDefault:"matches.completed"`
}

// ImportConfig tunes the catalog importer's crawler. Selectors come from the command line.
type ImportConfig struct {
	UserAgent      string        `env:"USER_AGENT" envDefault:"job-matcher-importer/1.0"`
	Workers        int           `env:"WORKERS" envDefault:"2"`
	Delay          time.Duration `env:"DELAY" envDefault:"500ms"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"20s"`
	MaxJobs        int           `env:"MAX_JOBS" envDefault:"100"`
}

var (
	errInvalidConfig = errors.New("invalid configuration")
	knownProviders   = map[string]struct{}{"gemini": {}, "openai": {}}
)

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Sanitize() {
	c.Oracle.Provider = strings.ToLower(strings.TrimSpace(c.Oracle.Provider))
	if c.Oracle.MaxTextRunes <= 0 {
		c.Oracle.MaxTextRunes = 1500
	}
	if c.Matcher.Workers <= 0 {
		c.Matcher.Workers = 1
	}
	if c.Matcher.TopK <= 0 {
		c.Matcher.TopK = 5
	}
	if c.Matcher.MaxAttempts <= 0 {
		c.Matcher.MaxAttempts = 1
	}
	if c.Import.Workers <= 0 {
		c.Import.Workers = 1
	}
}

func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.App.HTTPPort) == "" {
		problems = append(problems, "HTTP_PORT is empty")
	}
	if _, ok := knownProviders[c.Oracle.Provider]; !ok {
		problems = append(problems, fmt.Sprintf("ORACLE_PROVIDER %q is not supported", c.Oracle.Provider))
	}
	if c.Matcher.MaxBackoff > 0 && c.Matcher.MaxBackoff < c.Matcher.InitialBackoff {
		problems = append(problems, "MATCHER_MAX_BACKOFF is shorter than MATCHER_INITIAL_BACKOFF")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, ", "))
	}
	return nil
}
