package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
	"github.com/dmitrijs2005/studydeck/internal/timex"
)

// fileConfig is the JSON form of Config. Keys left out of the file decode
// to nil and keep whatever the earlier layers set.
type fileConfig struct {
	GRPCAddr        *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SecretKey       *string         `json:"secret_key"`
	AccessTTL       *timex.Duration `json:"access_token_validity_duration"`
	RefreshTTL      *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
	SourceURLExpiry *timex.Duration `json:"source_url_expiry"`
	LogLevel        *string         `json:"log_level"`
}

func (f *fileConfig) apply(c *Config) {
	flagx.Overlay(&c.EndpointAddrGRPC, f.GRPCAddr)
	flagx.Overlay(&c.DatabaseDSN, f.DatabaseDSN)
	flagx.Overlay(&c.SecretKey, f.SecretKey)
	overlayDuration(&c.AccessTokenValidityDuration, f.AccessTTL)
	overlayDuration(&c.RefreshTokenValidityDuration, f.RefreshTTL)
	flagx.Overlay(&c.S3RootUser, f.S3RootUser)
	flagx.Overlay(&c.S3RootPassword, f.S3RootPassword)
	flagx.Overlay(&c.S3Bucket, f.S3Bucket)
	flagx.Overlay(&c.S3Region, f.S3Region)
	flagx.Overlay(&c.S3BaseEndpoint, f.S3BaseEndpoint)
	overlayDuration(&c.SourceURLExpiry, f.SourceURLExpiry)
	flagx.Overlay(&c.LogLevel, f.LogLevel)
}

// parseJson applies the file named by -c/-config, if any. An unreadable or
// malformed file panics.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	var f fileConfig
	if err := flagx.ReadJSON(path, &f); err != nil {
		panic(err)
	}
	f.apply(cfg)
}

func overlayDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
