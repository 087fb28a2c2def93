package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
)

// parseFlags overlays cfg with the flags listed in the package doc. Other
// arguments are left for the command dispatcher.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("studydeck", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "backend gRPC address")
	fs.StringVar(&cfg.GenerationBaseURL, "g", cfg.GenerationBaseURL, "generation API base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	flagx.DurationVar(fs, &cfg.OnlineCheckInterval, "i", time.Second, "online check interval in seconds")
	flagx.DurationVar(fs, &cfg.FlushInterval, "f", time.Millisecond, "transcript flush interval in milliseconds")

	if err := flagx.Parse(fs, os.Args[1:]); err != nil {
		panic(err)
	}
}
