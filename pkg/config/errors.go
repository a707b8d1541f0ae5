package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfigType is returned when Load is given a pointer to something other than a struct
	ErrInvalidConfigType = errors.New("invalid config type")

	// ErrNilPointer is returned when a nil pointer is provided to Load
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrLoadingEnvFile is returned when a requested .env file cannot be read
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrParsingYAML is returned when a YAML document cannot be decoded
	ErrParsingYAML = errors.New("failed to parse yaml config")

	// ErrLoadingYAMLFile is returned when a YAML file cannot be opened
	ErrLoadingYAMLFile = errors.New("failed to open yaml config file")
)
