package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.InputWidth != 640 || cfg.InputHeight != 640 {
		t.Errorf("input size: got %dx%d, want 640x640", cfg.InputWidth, cfg.InputHeight)
	}
	if cfg.ConfidenceThreshold != 0.25 {
		t.Errorf("confidence threshold: got %g, want 0.25", cfg.ConfidenceThreshold)
	}
	if cfg.IoUThreshold != 0.45 {
		t.Errorf("iou threshold: got %g, want 0.45", cfg.IoUThreshold)
	}
	if !cfg.UseNMS || cfg.PerClassNMS {
		t.Errorf("NMS flags: got use=%v perClass=%v, want true/false", cfg.UseNMS, cfg.PerClassNMS)
	}
	if cfg.MaxDetections != 0 {
		t.Errorf("max detections: got %d, want 0 (uncapped)", cfg.MaxDetections)
	}
	if cfg.OutputFormat != "txt" || cfg.OutputDir != "output" {
		t.Errorf("output: got %q/%q, want txt/output", cfg.OutputFormat, cfg.OutputDir)
	}
	if cfg.Draw.LineWidth != 4 || !cfg.Draw.AlphaBlend {
		t.Errorf("draw defaults: got %+v", cfg.Draw)
	}
	for i, std := range cfg.Normalization.Std {
		if std != 1 {
			t.Errorf("default std for channel %d: got %g, want 1", i, std)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
confidence_threshold: 0.5
output_format: json
draw:
  line_width: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ConfidenceThreshold != 0.5 {
		t.Errorf("overridden threshold: got %g, want 0.5", cfg.ConfidenceThreshold)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("overridden format: got %q, want json", cfg.OutputFormat)
	}
	if cfg.Draw.LineWidth != 2 {
		t.Errorf("overridden line width: got %d, want 2", cfg.Draw.LineWidth)
	}

	// Keys absent from the file keep their defaults.
	if cfg.InputWidth != 640 || cfg.InputHeight != 640 {
		t.Errorf("input size should default to 640x640, got %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
	if cfg.IoUThreshold != 0.45 {
		t.Errorf("iou threshold should default to 0.45, got %g", cfg.IoUThreshold)
	}
	if !cfg.UseNMS {
		t.Error("use_nms should default to true")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfig should fail for a missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("input_width: [not a number"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig should fail for malformed YAML")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.InputWidth = 0 }, "dimensions"},
		{"negative height", func(c *Config) { c.InputHeight = -1 }, "dimensions"},
		{"confidence above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }, "confidence"},
		{"negative confidence", func(c *Config) { c.ConfidenceThreshold = -0.1 }, "confidence"},
		{"iou above one", func(c *Config) { c.IoUThreshold = 2 }, "iou"},
		{"negative max detections", func(c *Config) { c.MaxDetections = -1 }, "max detections"},
		{"zero std", func(c *Config) { c.Normalization.Std[1] = 0 }, "std"},
		{"unknown format", func(c *Config) { c.OutputFormat = "csv" }, "format"},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "output directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate should reject this config")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
