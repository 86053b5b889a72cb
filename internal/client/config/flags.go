package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/ele/internal/flagx"
)

func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-D", "-i", "-o", "-s", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DataDir, "D", cfg.DataDir, "local data directory")
	pingTimeout := fs.Int("i", int(cfg.PingTimeout.Seconds()), "ping timeout (in seconds)")
	checkInterval := fs.Int("o", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.ImageSize, "s", cfg.ImageSize, "profile image edge (pixels)")
	fs.IntVar(&cfg.ImageQuality, "q", cfg.ImageQuality, "profile image JPEG quality (1-100)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.PingTimeout = time.Duration(*pingTimeout) * time.Second
		case "o":
			cfg.OnlineCheckInterval = time.Duration(*checkInterval) * time.Second
		}
	})
}
