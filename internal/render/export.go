package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mcolliat/clashvision/internal/classes"
	"github.com/mcolliat/clashvision/internal/geometry"
)

// Format selects a detection record serialization.
type Format int

const (
	// FormatText is the normalized YOLO annotation text format.
	FormatText Format = iota
	// FormatJSON is the structured JSON document format.
	FormatJSON
)

// ParseFormat maps a format name ("txt" or "json") to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q (supported: txt, json)", name)
	}
}

// Ext returns the file extension for the format, without a dot.
func (f Format) Ext() string {
	if f == FormatJSON {
		return "json"
	}
	return "txt"
}

// ExportConfig controls text serialization details.
type ExportConfig struct {
	// IncludeConfidence appends the confidence as a trailing column.
	IncludeConfidence bool `yaml:"include_confidence"`

	// Precision is the number of decimal digits for spatial values.
	Precision int `yaml:"precision"`
}

// DefaultExportConfig returns the standard text export parameters:
// no confidence column, six decimal digits.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{IncludeConfidence: false, Precision: 6}
}

// EncodeText serializes boxes to the normalized text format: one
// newline-terminated line per box, "class_id center_x center_y width
// height", spatial values divided by the image dimensions. An empty box
// list produces empty output, not an error.
func EncodeText(boxes []geometry.Box, imageW, imageH int, cfg ExportConfig) []byte {
	var buf bytes.Buffer
	p := cfg.Precision

	for _, b := range boxes {
		cx, cy, w, h := b.Normalized(float32(imageW), float32(imageH))
		if cfg.IncludeConfidence {
			fmt.Fprintf(&buf, "%d %.*f %.*f %.*f %.*f %.*f\n", b.ClassID, p, cx, p, cy, p, w, p, h, p, b.Confidence)
		} else {
			fmt.Fprintf(&buf, "%d %.*f %.*f %.*f %.*f\n", b.ClassID, p, cx, p, cy, p, w, p, h)
		}
	}
	return buf.Bytes()
}

type jsonDetection struct {
	ClassID        int        `json:"class_id"`
	ClassName      string     `json:"class_name"`
	Confidence     float32    `json:"confidence"`
	BBox           [4]float32 `json:"bbox"`
	NormalizedBBox [4]float32 `json:"normalized_bbox"`
}

type jsonDocument struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Detections []jsonDetection `json:"detections"`
}

// EncodeJSON serializes boxes to the structured JSON document: image
// dimensions plus per-box records with absolute corners, normalized
// corners, and confidence.
func EncodeJSON(boxes []geometry.Box, imageW, imageH int) ([]byte, error) {
	doc := jsonDocument{
		Width:      imageW,
		Height:     imageH,
		Detections: make([]jsonDetection, 0, len(boxes)),
	}

	fw := float32(imageW)
	fh := float32(imageH)
	for _, b := range boxes {
		doc.Detections = append(doc.Detections, jsonDetection{
			ClassID:        b.ClassID,
			ClassName:      classes.Class(b.ClassID).String(),
			Confidence:     b.Confidence,
			BBox:           [4]float32{b.X1, b.Y1, b.X2, b.Y2},
			NormalizedBBox: [4]float32{b.X1 / fw, b.Y1 / fh, b.X2 / fw, b.Y2 / fh},
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}
