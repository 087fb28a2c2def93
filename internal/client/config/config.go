package config

import "time"

// Config holds runtime settings for the studydeck CLI.
type Config struct {
	ServerEndpointAddr string // host:port of the deck server
	GenerationBaseURL  string
	DataDir            string // resolved against the working directory when relative
	LanguageCode       string // BCP-47 code sent with every recording
	LogLevel           string

	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration // per generation request

	// Transcript persistence: quiet period before a flush, and the number
	// of consecutive failed flushes reported as degraded.
	FlushInterval    time.Duration
	FailureThreshold int

	// Cron spec for re-listing decks from the server.
	RefreshSchedule string
}

// LoadDefaults resets c to settings that work against a local server.
func (c *Config) LoadDefaults() {
	*c = Config{
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
}

// LoadConfig returns the effective configuration. See the package
// documentation for the order of sources.
func LoadConfig() *Config {
	c := new(Config)
	c.LoadDefaults()
	parseEnv(c)
	parseJson(c)
	parseFlags(c)
	return c
}
