package preprocess

import (
	"math"
	"testing"
)

func TestNormalize_NoOpProfile(t *testing.T) {
	buf := &ImageBuffer8{
		Data:   []uint8{0, 255, 128, 0, 255, 128, 0, 255, 128, 0, 255, 128},
		Width:  2,
		Height: 2,
	}

	out := Normalize(buf, NoNormalization())

	if len(out.Data) != len(buf.Data) {
		t.Fatalf("length: got %d, want %d", len(out.Data), len(buf.Data))
	}

	want := []float32{0, 1, 128.0 / 255.0, 0}
	for i, w := range want {
		if math.Abs(float64(out.Data[i]-w)) > 1e-6 {
			t.Errorf("Data[%d]: got %g, want %g", i, out.Data[i], w)
		}
	}
}

func TestNormalize_ImageNetProfile(t *testing.T) {
	// One pixel per plane keeps the arithmetic checkable by hand.
	buf := &ImageBuffer8{Data: []uint8{255, 255, 255}, Width: 1, Height: 1}
	p := ImageNet()

	out := Normalize(buf, p)

	for c := 0; c < 3; c++ {
		want := (1.0 - p.Mean[c]) / p.Std[c]
		if math.Abs(float64(out.Data[c]-want)) > 1e-5 {
			t.Errorf("channel %d: got %g, want %g", c, out.Data[c], want)
		}
	}
}

func TestNormalize_SeparateStorage(t *testing.T) {
	buf := &ImageBuffer8{Data: []uint8{100, 100, 100}, Width: 1, Height: 1}
	out := Normalize(buf, NoNormalization())

	before := out.Data[0]
	buf.Data[0] = 200
	if out.Data[0] != before {
		t.Error("normalized buffer must not alias the 8-bit buffer")
	}
}

func TestImageBuffer32_Shape(t *testing.T) {
	out := &ImageBuffer32{Data: make([]float32, 3*640*640), Width: 640, Height: 640}
	shape := out.Shape()
	want := [4]int64{1, 3, 640, 640}
	if shape != want {
		t.Errorf("Shape: got %v, want %v", shape, want)
	}
}
