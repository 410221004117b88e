package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrEnvFile is returned when a dotenv file exists but cannot be read.
	ErrEnvFile = errors.New("config: failed to read env file")
)
