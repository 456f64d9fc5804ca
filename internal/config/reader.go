package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads the process environment, after loading any of the given
// dotenv files that exist. Variables already set are not overridden.
type EnvReader struct {
	dotenvFiles []string
}

func NewEnvReader(dotenvFiles ...string) EnvReader {
	return EnvReader{dotenvFiles: dotenvFiles}
}

func (r EnvReader) Read() (*Config, error) {
	for _, f := range r.dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	switch c.Store.Driver {
	case StoreDriverSQLite, StoreDriverRedis:
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}
	if c.Reminder.Interval < 0 {
		return fmt.Errorf("reminder interval must not be negative: %s", c.Reminder.Interval)
	}
	return nil
}
