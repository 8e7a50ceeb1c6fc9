package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/playperu/scoreboard/internal/storage"
)

// DefaultAdminPin is the fallback admin secret. Real deployments must set
// ADMIN_PIN.
const DefaultAdminPin = "1234"

type Config struct {
	Port         int        `env:"PORT" envDefault:"3000"`
	HTTPAddr     string     `env:"HTTP_ADDR"`
	AdminPin     string     `env:"ADMIN_PIN" envDefault:"1234"`
	DataDir      string     `env:"DATA_DIR" envDefault:"data"`
	StateBackend string     `env:"STATE_BACKEND" envDefault:"file"`
	RedisURL     string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKey     string     `env:"REDIS_KEY" envDefault:"pubquiz:state"`
	PublicDir    string     `env:"PUBLIC_DIR" envDefault:"public"`
	Locale       string     `env:"LOCALE" envDefault:"und"`
	CORSOrigins  []string   `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Collation is Locale parsed.
	Collation language.Tag `env:"-"`
}

// Load reads .env from the working directory, if present, and then the
// process environment. Variables already set in the environment win over
// .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	switch cfg.StateBackend {
	case storage.KindFile, storage.KindSQLite, storage.KindRedis:
	default:
		return nil, fmt.Errorf("STATE_BACKEND must be file, sqlite or redis, got %q", cfg.StateBackend)
	}

	cfg.Collation, err = language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("parsing LOCALE %q: %w", cfg.Locale, err)
	}
	return &cfg, nil
}

// Addr is the listen address: HTTP_ADDR when set, otherwise :PORT.
func (c *Config) Addr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	return ":" + strconv.Itoa(c.Port)
}
