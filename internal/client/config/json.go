package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
	"github.com/dmitrijs2005/studydeck/internal/timex"
)

// fileConfig is the JSON form of Config; see the package doc for an example.
type fileConfig struct {
	ServerAddr       *string         `json:"server_endpoint_addr"`
	GenerationURL    *string         `json:"generation_base_url"`
	DataDir          *string         `json:"data_dir"`
	OnlineCheck      *timex.Duration `json:"online_check_interval"`
	FlushInterval    *timex.Duration `json:"flush_interval"`
	FailureThreshold *int            `json:"failure_threshold"`
	RefreshSchedule  *string         `json:"refresh_schedule"`
	LanguageCode     *string         `json:"language_code"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	LogLevel         *string         `json:"log_level"`
}

func (f *fileConfig) apply(c *Config) {
	flagx.Overlay(&c.ServerEndpointAddr, f.ServerAddr)
	flagx.Overlay(&c.GenerationBaseURL, f.GenerationURL)
	flagx.Overlay(&c.DataDir, f.DataDir)
	overlayDuration(&c.OnlineCheckInterval, f.OnlineCheck)
	overlayDuration(&c.FlushInterval, f.FlushInterval)
	if f.FailureThreshold != nil && *f.FailureThreshold > 0 {
		c.FailureThreshold = *f.FailureThreshold
	}
	flagx.Overlay(&c.RefreshSchedule, f.RefreshSchedule)
	flagx.Overlay(&c.LanguageCode, f.LanguageCode)
	overlayDuration(&c.RequestTimeout, f.RequestTimeout)
	flagx.Overlay(&c.LogLevel, f.LogLevel)
}

// parseJson applies the file named by -c/-config (flagx.ConfigPath). Keys
// missing from the file keep their current values; a bad file panics.
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
