package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/ele/internal/flagx"
	"github.com/dmitrijs2005/ele/internal/timex"
)

// JsonConfig mirrors Config for file loading. Durations accept "15m" or
// integer nanoseconds. Absent keys leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   timex.Duration `json:"reset_token_validity_duration"`
	ResetLinkBaseURL             string         `json:"reset_link_base_url"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	DownloadURLValidityDuration  timex.Duration `json:"download_url_validity_duration"`
	GoogleClientID               string         `json:"google_client_id"`
	AppleClientID                string         `json:"apple_client_id"`
	AuthRatePerSecond            float64        `json:"auth_rate_per_second"`
	AuthRateBurst                int            `json:"auth_rate_burst"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays cfg with the file named by -c/-config, if any.
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

	setString(&cfg.EndpointAddrGRPC, jc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SecretKey, jc.SecretKey)
	setDuration(&cfg.AccessTokenValidityDuration, jc.AccessTokenValidityDuration)
	setDuration(&cfg.RefreshTokenValidityDuration, jc.RefreshTokenValidityDuration)
	setDuration(&cfg.ResetTokenValidityDuration, jc.ResetTokenValidityDuration)
	setString(&cfg.ResetLinkBaseURL, jc.ResetLinkBaseURL)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setDuration(&cfg.DownloadURLValidityDuration, jc.DownloadURLValidityDuration)
	setString(&cfg.GoogleClientID, jc.GoogleClientID)
	setString(&cfg.AppleClientID, jc.AppleClientID)
	if jc.AuthRatePerSecond > 0 {
		cfg.AuthRatePerSecond = jc.AuthRatePerSecond
	}
	if jc.AuthRateBurst > 0 {
		cfg.AuthRateBurst = jc.AuthRateBurst
	}
}
