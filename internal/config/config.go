package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the ppms command.
type Config struct {
	DBPath string `env:"DB_PATH" envDefault:"ppms.db"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// Simulated round trips of the original remote calls.
	LoginLatency time.Duration `env:"LOGIN_LATENCY" envDefault:"800ms"`
	WriteLatency time.Duration `env:"WRITE_LATENCY" envDefault:"500ms"`
	ReadLatency  time.Duration `env:"READ_LATENCY" envDefault:"400ms"`

	// Zero selects bcrypt.DefaultCost.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"0"`
}

// Prefix is prepended to every environment key, e.g. PPMS_DB_PATH.
const Prefix = "PPMS_"

// Load reads dotenv files (missing files are ignored) and then parses the
// environment. Variables already set in the environment win over dotenv.
func Load(dotenv ...string) (*Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.LoginLatency < 0 || c.WriteLatency < 0 || c.ReadLatency < 0 {
		return nil, fmt.Errorf("latencies must not be negative")
	}
	return &c, nil
}
