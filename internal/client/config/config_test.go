package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults_ReplacesEverything(t *testing.T) {
	c := Config{DataDir: "/elsewhere", FailureThreshold: 99, LogLevel: "debug"}
	c.LoadDefaults()

	want := Config{
		ServerEndpointAddr:  "127.0.0.1:50051",
		GenerationBaseURL:   "http://localhost:8000/api",
		DataDir:             ".studydeck",
		LanguageCode:        "en-US",
		LogLevel:            "info",
		OnlineCheckInterval: 3 * time.Second,
		RequestTimeout:      time.Minute,
		FlushInterval:       time.Second,
		FailureThreshold:    3,
		RefreshSchedule:     "@every 1m",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_NothingSet(t *testing.T) {
	t.Chdir(t.TempDir())
	withArgs(t)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, LoadConfig())
}

func TestLoadConfig_FlagsBeatFileBeatsEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STUDYDECK_SERVER_ADDR", "env-host:1")
	t.Setenv("STUDYDECK_GENERATION_URL", "http://env-gen/api")
	t.Setenv("STUDYDECK_LANGUAGE_CODE", "de-DE")
	path := writeConfig(t, `{"server_endpoint_addr": "file-host:3", "generation_base_url": "http://file-gen/api"}`)
	withArgs(t, "-c", path, "-a", "flag-host:2")

	cfg := LoadConfig()
	assert.Equal(t, "flag-host:2", cfg.ServerEndpointAddr)
	assert.Equal(t, "http://file-gen/api", cfg.GenerationBaseURL)
	assert.Equal(t, "de-DE", cfg.LanguageCode)
}
