package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"studydeck-server"}, args...)
}

func TestParseFlags_AllFlags(t *testing.T) {
	withArgs(t,
		"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
		"-t", "1", "-r", "3", "-u", "user", "-p", "password",
		"-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-x", "5",
	)

	var got Config
	parseFlags(&got)

	want := Config{
		EndpointAddrGRPC:             "127.0.0.1:9090",
		DatabaseDSN:                  "db",
		SecretKey:                    "secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: 3 * time.Minute,
		S3RootUser:                   "user",
		S3RootPassword:               "password",
		S3Bucket:                     "bucket",
		S3Region:                     "us-west-1",
		S3BaseEndpoint:               "http://endpoint",
		SourceURLExpiry:              5 * time.Minute,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlags_KeepsUnsetValues(t *testing.T) {
	withArgs(t, "-z", "1", "-a", ":7000", "-env", "x.env")

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, ":7000", cfg.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestParseFlags_BadDurationPanics(t *testing.T) {
	withArgs(t, "-t", "soon")

	var cfg Config
	require.Panics(t, func() { parseFlags(&cfg) })
}
