package session

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/mcolliat/clashvision/internal/decode"
	"github.com/mcolliat/clashvision/internal/geometry"
	"github.com/mcolliat/clashvision/internal/preprocess"
	"github.com/mcolliat/clashvision/internal/render"
	"github.com/mcolliat/clashvision/internal/suppress"
)

// Session sequences the detection pipeline for one model. It exclusively
// owns its inference runtime and configuration for its lifetime.
type Session struct {
	cfg     Config
	variant string
	layout  decode.Layout
	runtime InferenceRuntime
	format  render.Format
	log     *logrus.Logger
}

// Result is the per-image outcome of a batch run.
type Result struct {
	Path  string
	Boxes []geometry.Box
	Err   error
}

// ModelInfo is a descriptive snapshot of the session for introspection.
type ModelInfo struct {
	Variant             string
	InputWidth          int
	InputHeight         int
	ConfidenceThreshold float32
	IoUThreshold        float32
	UseNMS              bool
}

// New creates a session backed by an ONNX Runtime loaded from a model
// file. A construction failure leaves no usable session; there is no
// retry.
func New(modelPath, variant string, cfg Config) (*Session, error) {
	rt, err := newORTRuntime(modelPath, nil)
	if err != nil {
		return nil, err
	}
	s, err := NewWithRuntime(rt, variant, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return s, nil
}

// NewFromBytes creates a session from an in-memory model, typically one
// embedded at build time.
func NewFromBytes(modelBytes []byte, variant string, cfg Config) (*Session, error) {
	rt, err := newORTRuntime("", modelBytes)
	if err != nil {
		return nil, err
	}
	s, err := NewWithRuntime(rt, variant, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return s, nil
}

// NewWithRuntime creates a session over an existing inference runtime.
// The session takes ownership of the runtime and releases it on Close.
func NewWithRuntime(rt InferenceRuntime, variant string, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := decode.ForVariant(variant)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Session{
		cfg:     cfg,
		variant: variant,
		layout:  layout,
		runtime: rt,
		format:  format,
		log:     log,
	}, nil
}

// SetLogOutput redirects the session's progress log.
func (s *Session) SetLogOutput(w io.Writer) {
	s.log.SetOutput(w)
}

// ProcessImage runs the full pipeline for one image and persists an
// annotated JPEG plus a detection record, both named after the input
// file's stem, in the configured output directory. The accepted boxes
// are returned in confidence order.
//
// A failure at any stage aborts the pipeline for this image; nothing is
// written for a failed image.
func (s *Session) ProcessImage(path string) ([]geometry.Box, error) {
	start := time.Now()

	src, err := preprocess.Load(path)
	if err != nil {
		return nil, err
	}

	letterboxed := preprocess.Letterbox(src, s.cfg.InputWidth, s.cfg.InputHeight, preprocess.DefaultPadColor)
	normalized := preprocess.Normalize(letterboxed, s.cfg.Normalization)

	data, dims, err := s.runtime.Run(normalized)
	if err != nil {
		return nil, fmt.Errorf("inference for %s: %w", path, err)
	}

	boxes, err := s.layout.Decode(data, dims, s.cfg.ConfidenceThreshold)
	if err != nil {
		return nil, fmt.Errorf("decode output for %s: %w", path, err)
	}

	if s.cfg.UseNMS {
		boxes = suppress.Suppress(boxes, suppress.Options{
			IoUThreshold:    s.cfg.IoUThreshold,
			ConfidenceFloor: s.cfg.ConfidenceThreshold,
			MaxDetections:   s.cfg.MaxDetections,
			PerClass:        s.cfg.PerClassNMS,
		})
	}

	annotated := render.Draw(letterboxed.Image(), boxes, s.cfg.InputWidth, s.cfg.InputHeight, s.cfg.Draw)

	if err := s.save(path, annotated, boxes); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"image":      path,
		"detections": len(boxes),
		"duration":   time.Since(start).Round(time.Millisecond),
	}).Info("processed image")

	return boxes, nil
}

// ProcessBatch processes images independently, collecting one Result per
// input so a failing image does not abort the rest.
func (s *Session) ProcessBatch(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		boxes, err := s.ProcessImage(path)
		if err != nil {
			s.log.WithField("image", path).WithError(err).Error("image failed")
		}
		results = append(results, Result{Path: path, Boxes: boxes, Err: err})
	}
	return results
}

// save writes the annotated image and the detection record. The record is
// encoded before anything touches the filesystem so an encoding failure
// leaves no partial output.
func (s *Session) save(inputPath string, annotated image.Image, boxes []geometry.Box) error {
	record, err := s.encodeRecord(boxes)
	if err != nil {
		return fmt.Errorf("encode detections for %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", s.cfg.OutputDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	imagePath := filepath.Join(s.cfg.OutputDir, stem+".jpg")
	recordPath := filepath.Join(s.cfg.OutputDir, stem+"."+s.format.Ext())

	if err := imaging.Save(annotated, imagePath); err != nil {
		return fmt.Errorf("save annotated image %s: %w", imagePath, err)
	}
	if err := os.WriteFile(recordPath, record, 0644); err != nil {
		return fmt.Errorf("write detection record %s: %w", recordPath, err)
	}
	return nil
}

func (s *Session) encodeRecord(boxes []geometry.Box) ([]byte, error) {
	switch s.format {
	case render.FormatJSON:
		return render.EncodeJSON(boxes, s.cfg.InputWidth, s.cfg.InputHeight)
	default:
		return render.EncodeText(boxes, s.cfg.InputWidth, s.cfg.InputHeight, s.cfg.Export), nil
	}
}

// ModelInfo returns a descriptive record of the session's model and
// thresholds.
func (s *Session) ModelInfo() ModelInfo {
	return ModelInfo{
		Variant:             s.variant,
		InputWidth:          s.cfg.InputWidth,
		InputHeight:         s.cfg.InputHeight,
		ConfidenceThreshold: s.cfg.ConfidenceThreshold,
		IoUThreshold:        s.cfg.IoUThreshold,
		UseNMS:              s.cfg.UseNMS,
	}
}

// Close releases the inference runtime. The session is unusable
// afterwards. Close is safe to call more than once.
func (s *Session) Close() error {
	if s.runtime == nil {
		return nil
	}
	err := s.runtime.Close()
	s.runtime = nil
	return err
}
