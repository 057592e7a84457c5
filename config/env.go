// Package config provides environment based configuration loading for
// agentchain applications: .env file support plus typed getters with
// defaults. Provider adapters read their API keys from the process
// environment, so examples call LoadEnv before constructing models.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads the given .env files into the process environment, defaulting
// to ".env" in the working directory. Missing files are ignored; malformed
// files return an error. Existing environment variables are not overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}
	return nil
}

// GetString returns the environment variable's value or def when unset/empty.
func GetString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetBool parses the environment variable as a boolean, returning def when
// unset or unparsable. Accepts the forms strconv.ParseBool accepts.
func GetBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetInt parses the environment variable as an integer, returning def when
// unset or unparsable.
func GetInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Require returns the environment variable's value or an error naming the
// missing key. Use for secrets the application cannot run without.
func Require(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}
