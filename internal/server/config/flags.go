package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a  gRPC bind address            -u  S3 root user
//	-d  PostgreSQL DSN               -p  S3 root password
//	-s  JWT HMAC secret              -b  S3 bucket
//	-t  access token TTL, minutes    -g  S3 region
//	-r  refresh token TTL, minutes   -e  S3 base endpoint
//	-x  source upload URL expiry, minutes
//
// Flags owned by other layers are skipped. A malformed value panics.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "gRPC bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT secret key")
	flagx.DurationVar(fs, &cfg.AccessTokenValidityDuration, "t", time.Minute, "access token validity in minutes")
	flagx.DurationVar(fs, &cfg.RefreshTokenValidityDuration, "r", time.Minute, "refresh token validity in minutes")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for source documents")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	flagx.DurationVar(fs, &cfg.SourceURLExpiry, "x", time.Minute, "source upload URL expiry in minutes")

	if err := flagx.Parse(fs, os.Args[1:]); err != nil {
		panic(err)
	}
}
