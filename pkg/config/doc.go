// Package config loads configuration from the environment and from YAML files.
//
// Environment loading wraps `github.com/joho/godotenv` and
// `github.com/caarlos0/env/v11`:
//
//   - The default `.env` in the working directory is read once, if present.
//     LoadEnv reads additional files.
//   - Load parses the environment into any struct using `env` and
//     `envDefault` field tags.
//   - Each configuration type is parsed once per process and cached by type.
//     Reset clears the cache, which tests use after changing the environment.
//
// YAML loading wraps `gopkg.in/yaml.v3` with strict field checking and is
// used for small structured files such as per-model cache timeouts.
//
// # Usage
//
//	type Config struct {
//	    DefaultTimeout time.Duration `env:"RESCACHE_DEFAULT_TIMEOUT" envDefault:"150s"`
//	    TimeoutsFile   string        `env:"RESCACHE_TIMEOUTS_FILE"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
//	var timeouts map[string]time.Duration
//	if err := config.LoadYAMLFile(cfg.TimeoutsFile, &timeouts); err != nil {
//	    log.Fatalf("parsing timeouts: %v", err)
//	}
//
// # Error Handling
//
// Errors wrap one of the sentinels in errors.go (ErrParsingConfig,
// ErrInvalidConfigType, ErrNilPointer, ErrLoadingEnvFile, ErrParsingYAML,
// ErrLoadingYAMLFile) and can be compared with errors.Is.
package config
