package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ih4temyself/cyberkit-v1/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "http://localhost:9000/api", cfg.APIBaseURL)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 800*time.Millisecond, cfg.FeedbackDelay)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CYBERKIT_API", "http://example.test/api")
	t.Setenv("CYBERKIT_FEEDBACK_DELAY", "250ms")

	cfg := config.Load()
	assert.Equal(t, "http://example.test/api", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.FeedbackDelay)
}

func TestLoad_FeedbackDelayMilliseconds(t *testing.T) {
	t.Setenv("CYBERKIT_FEEDBACK_DELAY", "500")
	cfg := config.Load()
	assert.Equal(t, 500*time.Millisecond, cfg.FeedbackDelay)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("CYBERKIT_FEEDBACK_DELAY", "soon")
	cfg := config.Load()
	assert.Equal(t, 800*time.Millisecond, cfg.FeedbackDelay)
}

func TestValidate_EmptyAPIBase(t *testing.T) {
	cfg := config.Load()
	cfg.APIBaseURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CYBERKIT_API")
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := config.Load()
	cfg.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CYBERKIT_ADDR")
}

func TestValidate_DelayOutOfRange(t *testing.T) {
	cfg := config.Load()
	cfg.FeedbackDelay = time.Minute
	require.Error(t, cfg.Validate())
}
