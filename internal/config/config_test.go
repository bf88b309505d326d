package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "go8010.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4000000, cfg.Bus.Baud)
	assert.Equal(t, 20, cfg.Bus.TimeoutMs)
	assert.Equal(t, uint8(14), cfg.Scan.LastID)
	assert.Equal(t, 50, cfg.Scan.DelayMs)
	assert.Equal(t, 0.01, cfg.Control.Kd)
	assert.Equal(t, 90, cfg.Control.TempLimit)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FullProfile(t *testing.T) {
	path := writeProfile(t, `
bus:
  port: /dev/ttyUSB0
  baud: 921600
  timeout_ms: 50
scan:
  first_id: 2
  last_id: 6
  delay_ms: 10
control:
  kp: 0.2
  kd: 0.05
  temp_limit: 80
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Bus.Port)
	assert.Equal(t, 921600, cfg.Bus.Baud)
	assert.Equal(t, 50, cfg.Bus.TimeoutMs)
	assert.Equal(t, uint8(2), cfg.Scan.FirstID)
	assert.Equal(t, uint8(6), cfg.Scan.LastID)
	assert.Equal(t, 0.2, cfg.Control.Kp)
	assert.Equal(t, 80, cfg.Control.TempLimit)
}

func TestLoad_PartialProfileKeepsDefaults(t *testing.T) {
	path := writeProfile(t, `
bus:
  port: /dev/ttyUSB1
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Bus.Port)
	assert.Equal(t, 4000000, cfg.Bus.Baud)
	assert.Equal(t, 20, cfg.Bus.TimeoutMs)
	assert.Equal(t, uint8(14), cfg.Scan.LastID)
	assert.Equal(t, 0.01, cfg.Control.Kd)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		profile string
	}{
		{"scan window beyond bus", "scan:\n  first_id: 0\n  last_id: 15\n"},
		{"empty scan window", "scan:\n  first_id: 9\n  last_id: 3\n"},
		{"kp above one", "control:\n  kp: 1.5\n"},
		{"negative kd", "control:\n  kd: -0.1\n"},
		{"bad yaml", "bus: [not, a, map\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeProfile(t, tt.profile))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
