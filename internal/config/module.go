package config

import "go.uber.org/fx"

// Module provides *Config built from .env, the environment and command line flags.
var Module = fx.Provide(Load)
