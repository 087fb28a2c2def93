package config

import (
	"errors"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
)

// EnvPrefix prefixes every server environment variable.
const EnvPrefix = "STUDYDECK_SERVER_"

// parseEnv loads the dotenv file (-env, or ./.env when present) and overlays
// Config with STUDYDECK_SERVER_* variables. It panics on unreadable files and
// malformed values.
func parseEnv(cfg *Config) {
	if err := flagx.LoadDotenv(flagx.DotenvFlags()); err != nil {
		panic(err)
	}

	env := flagx.NewEnv(EnvPrefix)
	env.String("GRPC_ADDR", &cfg.EndpointAddrGRPC)
	env.String("DATABASE_DSN", &cfg.DatabaseDSN)
	env.String("SECRET_KEY", &cfg.SecretKey)
	env.String("S3_ROOT_USER", &cfg.S3RootUser)
	env.String("S3_ROOT_PASSWORD", &cfg.S3RootPassword)
	env.String("S3_BUCKET", &cfg.S3Bucket)
	env.String("S3_REGION", &cfg.S3Region)
	env.String("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	env.String("LOG_LEVEL", &cfg.LogLevel)

	err := errors.Join(
		env.Duration("ACCESS_TOKEN_VALIDITY", &cfg.AccessTokenValidityDuration),
		env.Duration("REFRESH_TOKEN_VALIDITY", &cfg.RefreshTokenValidityDuration),
		env.Duration("SOURCE_URL_EXPIRY", &cfg.SourceURLExpiry),
	)
	if err != nil {
		panic(err)
	}
}
