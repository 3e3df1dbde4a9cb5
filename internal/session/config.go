package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcolliat/clashvision/internal/preprocess"
	"github.com/mcolliat/clashvision/internal/render"
)

// Config is the immutable per-run session configuration. It may be
// replaced wholesale between runs but is never partially mutated
// mid-pipeline.
type Config struct {
	// InputWidth and InputHeight are the model input dimensions.
	InputWidth  int `yaml:"input_width"`
	InputHeight int `yaml:"input_height"`

	// ConfidenceThreshold filters decoder candidates.
	ConfidenceThreshold float32 `yaml:"confidence_threshold"`

	// IoUThreshold drives duplicate suppression.
	IoUThreshold float32 `yaml:"iou_threshold"`

	// UseNMS enables the suppression stage.
	UseNMS bool `yaml:"use_nms"`

	// PerClassNMS restricts suppression to same-class boxes.
	PerClassNMS bool `yaml:"per_class_nms"`

	// MaxDetections caps surviving boxes after suppression. 0 = no cap.
	MaxDetections int `yaml:"max_detections"`

	// Normalization is the per-channel mean/std profile applied before
	// inference.
	Normalization preprocess.NormProfile `yaml:"normalization"`

	Draw   render.DrawConfig   `yaml:"draw"`
	Export render.ExportConfig `yaml:"export"`

	// OutputFormat selects the detection record format: "txt" or "json".
	OutputFormat string `yaml:"output_format"`

	// OutputDir receives annotated images and detection records. Created
	// if absent.
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns the standard configuration: 640x640 input,
// confidence 0.25, IoU 0.45, class-agnostic NMS enabled, text records in
// the "output" directory.
func DefaultConfig() Config {
	return Config{
		InputWidth:          640,
		InputHeight:         640,
		ConfidenceThreshold: 0.25,
		IoUThreshold:        0.45,
		UseNMS:              true,
		PerClassNMS:         false,
		MaxDetections:       0,
		Normalization:       preprocess.NoNormalization(),
		Draw:                render.DefaultDrawConfig(),
		Export:              render.DefaultExportConfig(),
		OutputFormat:        "txt",
		OutputDir:           "output",
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults:
// keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c Config) Validate() error {
	if c.InputWidth <= 0 || c.InputHeight <= 0 {
		return fmt.Errorf("input size %dx%d: dimensions must be positive", c.InputWidth, c.InputHeight)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %g outside [0,1]", c.ConfidenceThreshold)
	}
	if c.IoUThreshold < 0 || c.IoUThreshold > 1 {
		return fmt.Errorf("iou threshold %g outside [0,1]", c.IoUThreshold)
	}
	if c.MaxDetections < 0 {
		return fmt.Errorf("max detections %d must not be negative", c.MaxDetections)
	}
	for i, std := range c.Normalization.Std {
		if std == 0 {
			return fmt.Errorf("normalization std for channel %d is zero", i)
		}
	}
	if _, err := render.ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	return nil
}
