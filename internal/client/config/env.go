package config

import (
	"errors"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
)

// EnvPrefix prefixes every client environment variable.
const EnvPrefix = "STUDYDECK_"

// parseEnv loads the dotenv file (-env, or ./.env when present) and overlays
// Config with STUDYDECK_* variables. It panics on unreadable files and
// malformed values.
func parseEnv(cfg *Config) {
	if err := flagx.LoadDotenv(flagx.DotenvFlags()); err != nil {
		panic(err)
	}

	env := flagx.NewEnv(EnvPrefix)
	env.String("SERVER_ADDR", &cfg.ServerEndpointAddr)
	env.String("GENERATION_URL", &cfg.GenerationBaseURL)
	env.String("DATA_DIR", &cfg.DataDir)
	env.String("REFRESH_SCHEDULE", &cfg.RefreshSchedule)
	env.String("LANGUAGE_CODE", &cfg.LanguageCode)
	env.String("LOG_LEVEL", &cfg.LogLevel)

	err := errors.Join(
		env.Duration("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval),
		env.Duration("FLUSH_INTERVAL", &cfg.FlushInterval),
		env.Int("FAILURE_THRESHOLD", &cfg.FailureThreshold),
		env.Duration("REQUEST_TIMEOUT", &cfg.RequestTimeout),
	)
	if err != nil {
		panic(err)
	}
}
