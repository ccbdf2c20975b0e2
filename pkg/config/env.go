package config

import (
	"errors"

	"github.com/joho/godotenv"
)

// LoadEnv loads the given .env files into the process environment, later
// files overriding earlier ones. With no arguments it loads the default .env
// from the working directory. Unlike the implicit load performed by Load, a
// missing file here is an error.
func LoadEnv(paths ...string) error {
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}
