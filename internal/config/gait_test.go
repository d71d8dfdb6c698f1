package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestEmptyGaitConfig_Defaults(t *testing.T) {
	cfg := EmptyGaitConfig()

	assert.Equal(t, -1.0, cfg.GetThresholdLow())
	assert.Equal(t, 1.0, cfg.GetThresholdHigh())
	assert.Equal(t, 0.7, cfg.GetStepSizeM())
	assert.Equal(t, int64(300), cfg.GetStepTimeMs())
	assert.Equal(t, 7.0, cfg.GetCutoffHz())
	assert.Equal(t, 9.81, cfg.GetGravityG0())
	assert.Equal(t, StepSourceDetector, cfg.GetStepSource())
	assert.NoError(t, cfg.Validate())
}

func TestDefaultGaitConfig_PopulatesPointers(t *testing.T) {
	cfg := DefaultGaitConfig()

	require.NotNil(t, cfg.ThresholdLow)
	require.NotNil(t, cfg.StepSource)
	assert.Equal(t, -1.0, *cfg.ThresholdLow)
	assert.Equal(t, StepSourceDetector, *cfg.StepSource)
}

func TestMustLoadDefaultConfig_MatchesBuiltins(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	assert.Equal(t, DefaultGaitConfig(), cfg)
}

func TestLoadGaitConfig(t *testing.T) {
	path := writeConfig(t, "walk.json", `{
  "threshold_low": -0.8,
  "step_size_m": 0.75,
  "step_source": "counter"
}`)

	cfg, err := LoadGaitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, -0.8, cfg.GetThresholdLow())
	assert.Equal(t, 0.75, cfg.GetStepSizeM())
	assert.Equal(t, StepSourceCounter, cfg.GetStepSource())
	// Omitted fields fall back.
	assert.Equal(t, 1.0, cfg.GetThresholdHigh())
	assert.Equal(t, int64(300), cfg.GetStepTimeMs())
}

func TestLoadGaitConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "walk.yaml", `{}`, ".json extension"},
		{"bad json", "walk.json", `{"threshold_low": `, "failed to parse config JSON"},
		{"inverted thresholds", "walk.json", `{"threshold_low": 2, "threshold_high": 1}`, "must be below"},
		{"thresholds on one side", "walk.json", `{"threshold_low": 0.5, "threshold_high": 1}`, "straddle zero"},
		{"negative step size", "walk.json", `{"step_size_m": -0.7}`, "step_size_m"},
		{"zero step time", "walk.json", `{"step_time_ms": 0}`, "step_time_ms"},
		{"zero cutoff", "walk.json", `{"cutoff_hz": 0}`, "cutoff_hz"},
		{"unknown source", "walk.json", `{"step_source": "gps"}`, "step_source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadGaitConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadGaitConfig_Missing(t *testing.T) {
	_, err := LoadGaitConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat config file")
}

func TestLoadGaitConfig_TooLarge(t *testing.T) {
	body := `{"step_source": "detector", "pad": "` + strings.Repeat("x", 1024*1024) + `"}`
	path := writeConfig(t, "big.json", body)

	_, err := LoadGaitConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
