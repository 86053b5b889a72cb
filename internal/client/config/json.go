package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ele/internal/flagx"
	"github.com/dmitrijs2005/ele/internal/timex"
)

type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DataDir             string         `json:"data_dir"`
	PingTimeout         timex.Duration `json:"ping_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ImageSize           int            `json:"image_size"`
	ImageQuality        int            `json:"image_quality"`
}

// parseJson overlays cfg with the non-empty values of the -c/-config file.
// Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.PingTimeout.Duration != 0 {
		cfg.PingTimeout = jc.PingTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ImageSize > 0 {
		cfg.ImageSize = jc.ImageSize
	}
	if jc.ImageQuality > 0 {
		cfg.ImageQuality = jc.ImageQuality
	}
}
