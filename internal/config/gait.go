package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical gait defaults file.
const DefaultConfigPath = "config/gait.defaults.json"

// Step sources accepted by step_source.
const (
	StepSourceDetector = "detector"
	StepSourceCounter  = "counter"
)

// GaitConfig holds the tuning parameters of the step pipeline. Fields omitted
// from the JSON file stay nil and the Get* accessors supply defaults.
type GaitConfig struct {
	// Step detector thresholds, m/s² in the filtered vertical signal.
	ThresholdLow  *float64 `json:"threshold_low,omitempty"`
	ThresholdHigh *float64 `json:"threshold_high,omitempty"`

	// Integrator
	StepSizeM  *float64 `json:"step_size_m,omitempty"`
	StepTimeMs *int64   `json:"step_time_ms,omitempty"`

	// Low-pass cutoff numerator: Wn = cutoff_hz / sampleRate.
	CutoffHz *float64 `json:"cutoff_hz,omitempty"`

	// Subtracted from |accel| for the accSum diagnostic.
	GravityG0 *float64 `json:"gravity_g0,omitempty"`

	StepSource *string `json:"step_source,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt64(v int64) *int64       { return &v }
func ptrString(v string) *string    { return &v }

// EmptyGaitConfig returns a GaitConfig with all fields set to nil.
func EmptyGaitConfig() *GaitConfig {
	return &GaitConfig{}
}

// DefaultGaitConfig returns a GaitConfig with every field populated from
// the built-in defaults.
func DefaultGaitConfig() *GaitConfig {
	c := EmptyGaitConfig()
	return &GaitConfig{
		ThresholdLow:  ptrFloat64(c.GetThresholdLow()),
		ThresholdHigh: ptrFloat64(c.GetThresholdHigh()),
		StepSizeM:     ptrFloat64(c.GetStepSizeM()),
		StepTimeMs:    ptrInt64(c.GetStepTimeMs()),
		CutoffHz:      ptrFloat64(c.GetCutoffHz()),
		GravityG0:     ptrFloat64(c.GetGravityG0()),
		StepSource:    ptrString(c.GetStepSource()),
	}
}

// LoadGaitConfig loads a GaitConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadGaitConfig(path string) (*GaitConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyGaitConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *GaitConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadGaitConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *GaitConfig) Validate() error {
	if c.GetThresholdLow() >= c.GetThresholdHigh() {
		return fmt.Errorf("threshold_low (%g) must be below threshold_high (%g)", c.GetThresholdLow(), c.GetThresholdHigh())
	}
	if c.GetThresholdLow() >= 0 || c.GetThresholdHigh() <= 0 {
		return fmt.Errorf("thresholds must straddle zero, got [%g, %g]", c.GetThresholdLow(), c.GetThresholdHigh())
	}
	if c.StepSizeM != nil && *c.StepSizeM <= 0 {
		return fmt.Errorf("step_size_m must be positive, got %f", *c.StepSizeM)
	}
	if c.StepTimeMs != nil && *c.StepTimeMs <= 0 {
		return fmt.Errorf("step_time_ms must be positive, got %d", *c.StepTimeMs)
	}
	if c.CutoffHz != nil && *c.CutoffHz <= 0 {
		return fmt.Errorf("cutoff_hz must be positive, got %f", *c.CutoffHz)
	}
	if c.StepSource != nil {
		switch *c.StepSource {
		case StepSourceDetector, StepSourceCounter:
		default:
			return fmt.Errorf("step_source must be %q or %q, got %q", StepSourceDetector, StepSourceCounter, *c.StepSource)
		}
	}
	return nil
}

// GetThresholdLow returns the threshold_low value or the default.
func (c *GaitConfig) GetThresholdLow() float64 {
	if c.ThresholdLow == nil {
		return -1.0
	}
	return *c.ThresholdLow
}

// GetThresholdHigh returns the threshold_high value or the default.
func (c *GaitConfig) GetThresholdHigh() float64 {
	if c.ThresholdHigh == nil {
		return 1.0
	}
	return *c.ThresholdHigh
}

// GetStepSizeM returns the step_size_m value or the default.
func (c *GaitConfig) GetStepSizeM() float64 {
	if c.StepSizeM == nil {
		return 0.7
	}
	return *c.StepSizeM
}

// GetStepTimeMs returns the nominal inter-step period in milliseconds.
func (c *GaitConfig) GetStepTimeMs() int64 {
	if c.StepTimeMs == nil {
		return 300
	}
	return *c.StepTimeMs
}

func (c *GaitConfig) GetCutoffHz() float64 {
	if c.CutoffHz == nil {
		return 7.0
	}
	return *c.CutoffHz
}

func (c *GaitConfig) GetGravityG0() float64 {
	if c.GravityG0 == nil {
		return 9.81
	}
	return *c.GravityG0
}

// GetStepSource returns the step_source value or "detector".
func (c *GaitConfig) GetStepSource() string {
	if c.StepSource == nil || *c.StepSource == "" {
		return StepSourceDetector
	}
	return *c.StepSource
}
