package geometry

import "fmt"

// Box is an axis-aligned bounding box with an attached class id and
// confidence score. X1,Y1 is the top-left corner and X2,Y2 the
// bottom-right corner.
type Box struct {
	X1, Y1, X2, Y2 float32
	ClassID        int
	Confidence     float32
}

// New creates a validated box.
//
// Returns an error unless x1 < x2 and y1 < y2. Use this constructor at
// trust boundaries (parsing, external input); internal code that builds
// boxes from already-validated geometry may construct Box directly.
func New(x1, y1, x2, y2 float32, classID int, confidence float32) (Box, error) {
	if x1 >= x2 || y1 >= y2 {
		return Box{}, fmt.Errorf("invalid box corners (%g,%g)-(%g,%g): x1 must be < x2 and y1 < y2", x1, y1, x2, y2)
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2, ClassID: classID, Confidence: confidence}, nil
}

// FromCenter builds a box from center coordinates and dimensions, the
// form emitted by dense detector heads.
func FromCenter(cx, cy, width, height float32, classID int, confidence float32) Box {
	halfW := width * 0.5
	halfH := height * 0.5
	return Box{
		X1:         cx - halfW,
		Y1:         cy - halfH,
		X2:         cx + halfW,
		Y2:         cy + halfH,
		ClassID:    classID,
		Confidence: confidence,
	}
}

// Area returns the area of the box.
func (b Box) Area() float32 {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Intersection returns the area shared between b and other, or 0 when
// the boxes do not overlap.
func (b Box) Intersection(other Box) float32 {
	w := min32(b.X2, other.X2) - max32(b.X1, other.X1)
	h := min32(b.Y2, other.Y2) - max32(b.Y1, other.Y1)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Union returns the combined area of b and other, counting the
// overlapping region once.
func (b Box) Union(other Box) float32 {
	return b.Area() + other.Area() - b.Intersection(other)
}

// IoU returns the Intersection-over-Union of the two boxes in [0,1].
// Degenerate boxes (zero intersection) yield 0 rather than NaN.
func (b Box) IoU(other Box) float32 {
	inter := b.Intersection(other)
	if inter == 0 {
		return 0
	}
	return inter / b.Union(other)
}

// Center returns the center point of the box.
func (b Box) Center() (x, y float32) {
	return (b.X1 + b.X2) * 0.5, (b.Y1 + b.Y2) * 0.5
}

// Dimensions returns the width and height of the box.
func (b Box) Dimensions() (w, h float32) {
	return b.X2 - b.X1, b.Y2 - b.Y1
}

// Scaled returns a copy of the box with all coordinates scaled by the
// given per-axis factors. Class id and confidence are unchanged.
func (b Box) Scaled(scaleX, scaleY float32) Box {
	b.X1 *= scaleX
	b.X2 *= scaleX
	b.Y1 *= scaleY
	b.Y2 *= scaleY
	return b
}

// Normalized returns the box in YOLO annotation form: center coordinates
// and dimensions divided by the image width and height respectively.
func (b Box) Normalized(imageW, imageH float32) (cx, cy, w, h float32) {
	cx, cy = b.Center()
	w, h = b.Dimensions()
	return cx / imageW, cy / imageH, w / imageW, h / imageH
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
