// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 behind a
// small API:
//
//   - LoadEnv loads one or more .env files into the process environment,
//     later files overriding earlier ones.
//   - Load parses the environment into any struct using env field tags and
//     caches the result per type, so each configuration is parsed at most
//     once for the lifetime of the process.
//   - MustLoad and MustLoadEnv panic on failure, for configuration the
//     process cannot start without.
//   - ResetCache and ForceReloadConfig exist for tests that mutate the
//     environment between loads.
//
// # Usage
//
// Describe the configuration as a struct with env tags:
//
//	type UploadConfig struct {
//	    TempDir       string `env:"UPLOAD_TMP_DIR"`
//	    MaxFieldBytes int64  `env:"UPLOAD_MAX_FIELD_BYTES" envDefault:"1048576"`
//	    MaxFileBytes  int64  `env:"UPLOAD_MAX_FILE_BYTES" envDefault:"0"`
//	}
//
// Then populate it:
//
//	var cfg UploadConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// The default .env file in the working directory is loaded automatically
// before the first parse; a missing file is ignored. Call LoadEnv explicitly
// to load files from other paths.
//
// # Error Handling
//
// Failures wrap sentinel errors comparable with errors.Is: ErrParsingConfig,
// ErrConfigNotLoaded, ErrNilPointer and ErrLoadingEnvFile.
package config
