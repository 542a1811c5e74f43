package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 480, cfg.TargetWidth)
	assert.Equal(t, 363.76489, cfg.DefaultFx)
	assert.Equal(t, 173.14810, cfg.DefaultCy)
	assert.Equal(t, 1000, cfg.ORBNFeatures)
	assert.Equal(t, 1.2, cfg.ORBScaleFactor)
	assert.Equal(t, "9x6", cfg.BoardSize)
	assert.Equal(t, 30, cfg.MaxFrames)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TARGET_WIDTH", "640")
	t.Setenv("CAMERA_FX", "500.5")
	t.Setenv("CALIB_MAX_FRAMES", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.TargetWidth)
	assert.Equal(t, 500.5, cfg.DefaultFx)
	assert.Equal(t, 10, cfg.MaxFrames)
}
