package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, ".ele", c.DataDir)
	assert.Equal(t, 3*time.Second, c.PingTimeout)
	assert.Equal(t, 30*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 300, c.ImageSize)
	assert.Equal(t, 60, c.ImageQuality)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_endpoint_addr": "json:1",
		"data_dir":             "/json",
		"image_size":           128,
	})
	t.Setenv("ELE_DATA_DIR", "/env")
	t.Setenv("ELE_IMAGE_QUALITY", "75")

	os.Args = []string{"client", "-config", path, "-q", "90"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "json:1", cfg.ServerEndpointAddr)
	assert.Equal(t, "/env", cfg.DataDir)
	assert.Equal(t, 128, cfg.ImageSize)
	assert.Equal(t, 90, cfg.ImageQuality)
	assert.Equal(t, 3*time.Second, cfg.PingTimeout)
}
