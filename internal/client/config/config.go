// Package config loads runtime configuration for the terminal client.
//
// Sources, later ones winning:
//
//  1. built-in defaults (LoadDefaults)
//  2. an optional JSON file given with -c or -config
//  3. ELE_* environment variables
//  4. short flags: -a server address, -D data directory, -i ping timeout
//     in seconds, -o online check interval in seconds, -s avatar edge in
//     pixels, -q JPEG quality (1-100)
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "data_dir": ".ele",
//	  "ping_timeout": "3s",
//	  "online_check_interval": "30s",
//	  "image_size": 300,
//	  "image_quality": 60
//	}
package config

import (
	"os"
	"time"
)

type Config struct {
	ServerEndpointAddr  string        `env:"ELE_SERVER_ADDR"`
	DataDir             string        `env:"ELE_DATA_DIR"`
	PingTimeout         time.Duration `env:"ELE_PING_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ELE_ONLINE_CHECK_INTERVAL"`
	ImageSize           int           `env:"ELE_IMAGE_SIZE"`
	ImageQuality        int           `env:"ELE_IMAGE_QUALITY"`
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = ".ele"
	c.PingTimeout = 3 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.ImageSize = 300
	c.ImageQuality = 60
}

func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
