package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GTSRB_MODEL_PATH", "")
	t.Setenv("GTSRB_CONFIDENCE_THRESHOLD", "")
	t.Setenv("GTSRB_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultModelPath, cfg.ModelPath)
	require.Equal(t, DefaultThreshold, cfg.ConfidenceThreshold)
	require.Equal(t, 1, cfg.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GTSRB_MODEL_PATH", "/opt/models/signs.onnx")
	t.Setenv("GTSRB_CONFIDENCE_THRESHOLD", "0.55")
	t.Setenv("GTSRB_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/opt/models/signs.onnx", cfg.ModelPath)
	require.Equal(t, 0.55, cfg.ConfidenceThreshold)
	require.Equal(t, 4, cfg.Workers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"threshold above range", "GTSRB_CONFIDENCE_THRESHOLD", "1.5"},
		{"threshold below range", "GTSRB_CONFIDENCE_THRESHOLD", "-0.2"},
		{"threshold not a number", "GTSRB_CONFIDENCE_THRESHOLD", "high"},
		{"workers zero", "GTSRB_WORKERS", "0"},
		{"workers not a number", "GTSRB_WORKERS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GTSRB_MODEL_PATH", "")
			t.Setenv("GTSRB_CONFIDENCE_THRESHOLD", "")
			t.Setenv("GTSRB_WORKERS", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidateBounds(t *testing.T) {
	cfg := &Config{ModelPath: "m.onnx", ConfidenceThreshold: 0, Workers: 1}
	require.NoError(t, cfg.Validate())

	cfg.ConfidenceThreshold = 1
	require.NoError(t, cfg.Validate())
}
