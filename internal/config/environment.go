package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the configured credentials
const (
	EnvUsername = "TACACS_USER"
	EnvPassword = "TACACS_PASS"
	EnvSecret   = "TACACS_SECRET"
)

// DotEnvFile is read from the working directory before the environment is applied
const DotEnvFile = ".env"

// LoadDotEnv loads variables from a .env file. Variables already set in the
// process environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvironment overrides credentials with every TACACS_* variable that is
// present, even when it is set to an empty value
func (c *Config) ApplyEnvironment() {
	if v, ok := os.LookupEnv(EnvUsername); ok {
		c.Credentials.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		c.Credentials.Password = v
	}
	if v, ok := os.LookupEnv(EnvSecret); ok {
		c.Credentials.Secret = v
	}
}
