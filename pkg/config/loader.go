// Package config reads application settings from the process
// environment. Settings structs declare their variables through `env`
// struct tags, so every knob a deployment can turn is visible in one
// place.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from environment variables according to its `env`
// tags. Missing variables fall back to the tag's envDefault, and
// unparseable values fail loudly at startup rather than at first use.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
