// internal/config/config.go
//
// Environment-driven configuration for the Queens server.
// Values come from the process environment (optionally seeded from .env by
// godotenv in main) and are parsed into Config by cleanenv.

package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every tunable of the server.
type Config struct {
	// Environment is "development" or "production"; production enables Secure cookies.
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	// LogLevel is parsed by zerolog.ParseLevel.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	HTTP struct {
		Port           string        `env:"PORT" env-default:"5175"`
		ClientOrigin   string        `env:"CLIENT_ORIGIN" env-default:"http://localhost:5173"`
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s"`
		MetricsPath    string        `env:"HTTP_METRICS_PATH" env-default:"/metrics"`
	}

	Sessions struct {
		// IdleTTL drops in-memory game sessions nobody touched for this long.
		IdleTTL time.Duration `env:"SESSION_IDLE_TTL" env-default:"2h"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" env-default:"./data/queens.db"`
	}

	Auth struct {
		JWTSecret  string        `env:"JWT_SECRET" env-default:"dev_secret_change_me"`
		TokenTTL   time.Duration `env:"JWT_TTL" env-default:"336h"`
		CookieName string        `env:"COOKIE_NAME" env-default:"queens_token"`
	}

	Daily struct {
		Salt    string `env:"DAILY_SALT" env-default:"local_dev_salt"`
		MinSize int    `env:"DAILY_MIN_SIZE" env-default:"5"`
		MaxSize int    `env:"DAILY_MAX_SIZE" env-default:"12"`
	}
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool { return c.Environment == "production" }

// Load reads Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	if cfg.Daily.MinSize > cfg.Daily.MaxSize {
		return nil, fmt.Errorf("daily size range [%d, %d] is empty", cfg.Daily.MinSize, cfg.Daily.MaxSize)
	}
	return &cfg, nil
}
