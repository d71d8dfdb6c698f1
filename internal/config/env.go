package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runtime holds the command-line tools' non-tuning settings. Flags override
// these values when set.
type Runtime struct {
	OutDir   string `env:"STEPODOM_OUT_DIR" envDefault:"out"`
	DBPath   string `env:"STEPODOM_DB_PATH"`
	Timezone string `env:"STEPODOM_TZ" envDefault:"Local"`
	Config   string `env:"STEPODOM_CONFIG"`
	Verbose  bool   `env:"STEPODOM_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadRuntime reads Runtime from the environment.
func LoadRuntime() (Runtime, error) {
	var rt Runtime
	err := ParseEnv(&rt)
	return rt, err
}
