package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/mcolliat/clashvision/internal/geometry"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"txt", FormatText, false},
		{"json", FormatJSON, false},
		{"xml", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("ParseFormat should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatExt(t *testing.T) {
	if ext := FormatText.Ext(); ext != "txt" {
		t.Errorf("FormatText ext: got %q, want txt", ext)
	}
	if ext := FormatJSON.Ext(); ext != "json" {
		t.Errorf("FormatJSON ext: got %q, want json", ext)
	}
}

func TestEncodeText(t *testing.T) {
	boxes := []geometry.Box{
		{X1: 10, Y1: 20, X2: 50, Y2: 80, ClassID: 0, Confidence: 0.9},
	}

	got := string(EncodeText(boxes, 100, 200, DefaultExportConfig()))
	want := "0 0.300000 0.250000 0.400000 0.300000\n"
	if got != want {
		t.Errorf("line: got %q, want %q", got, want)
	}
}

func TestEncodeText_WithConfidence(t *testing.T) {
	boxes := []geometry.Box{
		{X1: 10, Y1: 20, X2: 50, Y2: 80, ClassID: 1, Confidence: 0.875},
	}
	cfg := ExportConfig{IncludeConfidence: true, Precision: 6}

	got := string(EncodeText(boxes, 100, 200, cfg))
	want := "1 0.300000 0.250000 0.400000 0.300000 0.875000\n"
	if got != want {
		t.Errorf("line: got %q, want %q", got, want)
	}
}

func TestEncodeText_Empty(t *testing.T) {
	got := EncodeText(nil, 100, 100, DefaultExportConfig())
	if len(got) != 0 {
		t.Errorf("empty detection set should serialize to empty bytes, got %q", got)
	}
}

func TestEncodeText_RoundTrip(t *testing.T) {
	boxes := []geometry.Box{
		{X1: 13.7, Y1: 22.1, X2: 57.9, Y2: 83.4, ClassID: 1, Confidence: 0.8},
		{X1: 100, Y1: 150, X2: 300, Y2: 350, ClassID: 0, Confidence: 0.6},
	}
	const imageW, imageH = 640, 640

	out := string(EncodeText(boxes, imageW, imageH, DefaultExportConfig()))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != len(boxes) {
		t.Fatalf("got %d lines, want %d", len(lines), len(boxes))
	}

	for i, line := range lines {
		var classID int
		var cx, cy, w, h float64
		if _, err := fmt.Sscanf(line, "%d %f %f %f %f", &classID, &cx, &cy, &w, &h); err != nil {
			t.Fatalf("parse line %q: %v", line, err)
		}

		wantCx, wantCy, wantW, wantH := boxes[i].Normalized(imageW, imageH)
		if classID != boxes[i].ClassID {
			t.Errorf("line %d class: got %d, want %d", i, classID, boxes[i].ClassID)
		}
		// Six decimal digits: round-trip within 5e-7 plus float32 noise.
		const tol = 1e-6
		for _, pair := range [][2]float64{
			{cx, float64(wantCx)}, {cy, float64(wantCy)}, {w, float64(wantW)}, {h, float64(wantH)},
		} {
			if math.Abs(pair[0]-pair[1]) > tol {
				t.Errorf("line %d: got %g, want %g (tolerance %g)", i, pair[0], pair[1], tol)
			}
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	boxes := []geometry.Box{
		{X1: 10, Y1: 20, X2: 50, Y2: 80, ClassID: 1, Confidence: 0.9},
	}

	data, err := EncodeJSON(boxes, 100, 200)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}

	var doc struct {
		Width      int `json:"width"`
		Height     int `json:"height"`
		Detections []struct {
			ClassID        int        `json:"class_id"`
			ClassName      string     `json:"class_name"`
			Confidence     float32    `json:"confidence"`
			BBox           [4]float32 `json:"bbox"`
			NormalizedBBox [4]float32 `json:"normalized_bbox"`
		} `json:"detections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Width != 100 || doc.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 100x200", doc.Width, doc.Height)
	}
	if len(doc.Detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(doc.Detections))
	}

	d := doc.Detections[0]
	if d.ClassID != 1 || d.ClassName != "Gold Storage" {
		t.Errorf("class: got %d %q, want 1 \"Gold Storage\"", d.ClassID, d.ClassName)
	}
	if d.BBox != [4]float32{10, 20, 50, 80} {
		t.Errorf("bbox: got %v", d.BBox)
	}
	if d.NormalizedBBox != [4]float32{0.1, 0.1, 0.5, 0.4} {
		t.Errorf("normalized bbox: got %v", d.NormalizedBBox)
	}
}

func TestEncodeJSON_Empty(t *testing.T) {
	data, err := EncodeJSON(nil, 64, 64)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}

	var doc struct {
		Detections []json.RawMessage `json:"detections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Detections == nil {
		t.Error("detections should be an empty array, not null")
	}
	if len(doc.Detections) != 0 {
		t.Errorf("got %d detections, want 0", len(doc.Detections))
	}
}
