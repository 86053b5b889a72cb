package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/ele/internal/flagx"
)

// parseFlags overlays cfg with short command-line flags:
//
//	-a  gRPC bind address          -d  PostgreSQL DSN
//	-s  JWT secret                 -t  access token TTL, minutes
//	-r  refresh token TTL, minutes -u  S3 user
//	-p  S3 password                -b  S3 bucket
//	-g  S3 region                  -e  S3 endpoint
//	-l  download URL TTL, hours    -G  Google client ID
//	-A  Apple client ID
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-l", "-G", "-A"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	access := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (minutes)")
	refresh := fs.Int("r", int(cfg.RefreshTokenValidityDuration.Minutes()), "refresh token validity (minutes)")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	download := fs.Int("l", int(cfg.DownloadURLValidityDuration.Hours()), "download URL validity (hours)")

	fs.StringVar(&cfg.GoogleClientID, "G", cfg.GoogleClientID, "Google OAuth client ID")
	fs.StringVar(&cfg.AppleClientID, "A", cfg.AppleClientID, "Apple services ID")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// whole-unit flags only replace durations that were given explicitly
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			cfg.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		case "l":
			cfg.DownloadURLValidityDuration = time.Duration(*download) * time.Hour
		}
	})
}
