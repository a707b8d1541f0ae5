package rescache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrymomot/rescache/pkg/config"
)

// Config holds the environment-driven settings of a Cache.
type Config struct {
	// DefaultTimeout is the grace period for entries without a model or value timeout.
	DefaultTimeout time.Duration `env:"RESCACHE_DEFAULT_TIMEOUT" envDefault:"150s"`
	// FetchTimeout bounds every fetch. Zero disables the bound.
	FetchTimeout time.Duration `env:"RESCACHE_FETCH_TIMEOUT" envDefault:"0s"`
	// EventBuffer is the per-subscriber event channel capacity.
	EventBuffer int `env:"RESCACHE_EVENT_BUFFER" envDefault:"64"`
	// TimeoutsFile is an optional YAML file mapping model names to grace periods.
	TimeoutsFile string `env:"RESCACHE_TIMEOUTS_FILE"`
}

// Validate reports whether c can be used to build a Cache.
func (c Config) Validate() error {
	switch {
	case c.DefaultTimeout < 0:
		return fmt.Errorf("%w: negative default timeout %s", ErrInvalidConfig, c.DefaultTimeout)
	case c.FetchTimeout < 0:
		return fmt.Errorf("%w: negative fetch timeout %s", ErrInvalidConfig, c.FetchTimeout)
	case c.EventBuffer < 0:
		return fmt.Errorf("%w: negative event buffer %d", ErrInvalidConfig, c.EventBuffer)
	}
	return nil
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseTimeouts decodes a YAML mapping of model name to duration string:
//
//	user: 30s
//	planets: 10m
//
// An empty document yields an empty map.
func ParseTimeouts(r io.Reader) (map[string]time.Duration, error) {
	raw := make(map[string]string)
	if err := config.LoadYAML(r, &raw); err != nil {
		return nil, err
	}

	timeouts := make(map[string]time.Duration, len(raw))
	for name, value := range raw {
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("%w: %s", ErrInvalidTimeout, name), err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidTimeout, name, d)
		}
		timeouts[name] = d
	}
	return timeouts, nil
}

// LoadTimeouts reads and parses the timeouts file at path.
func LoadTimeouts(path string) (map[string]time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrLoadingTimeouts, err)
	}
	defer f.Close()

	timeouts, err := ParseTimeouts(f)
	if err != nil {
		return nil, errors.Join(ErrLoadingTimeouts, err)
	}
	return timeouts, nil
}
