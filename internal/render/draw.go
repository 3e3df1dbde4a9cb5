package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mcolliat/clashvision/internal/classes"
	"github.com/mcolliat/clashvision/internal/geometry"
)

// DrawConfig controls how boxes are stroked onto the image.
type DrawConfig struct {
	// LineWidth is the stroke width in pixels.
	LineWidth int `yaml:"line_width"`

	// AlphaBlend composites the strokes through a transparent overlay so
	// partially transparent stroke colors blend with the underlying
	// pixels. When false, strokes are written opaquely in place.
	AlphaBlend bool `yaml:"alpha_blend"`

	// ShowConfidence adds a "<class name> <confidence>" label above each box.
	ShowConfidence bool `yaml:"show_confidence"`

	// FontSize is accepted for configuration compatibility; the label face
	// is a fixed-size bitmap font.
	FontSize float64 `yaml:"font_size"`
}

// DefaultDrawConfig returns the standard drawing parameters.
func DefaultDrawConfig() DrawConfig {
	return DrawConfig{LineWidth: 4, AlphaBlend: true, ShowConfidence: false, FontSize: 12}
}

// Draw strokes each box onto a copy of img and returns the annotated
// image. Boxes are given in the model input coordinate space and mapped
// to image space with scale_x = imageW/inputW, scale_y = imageH/inputH.
// The source image is never modified.
func Draw(img image.Image, boxes []geometry.Box, inputW, inputH int, cfg DrawConfig) *image.NRGBA {
	base := imaging.Clone(img)
	if len(boxes) == 0 {
		return base
	}

	scaleX := float32(base.Bounds().Dx()) / float32(inputW)
	scaleY := float32(base.Bounds().Dy()) / float32(inputH)

	if !cfg.AlphaBlend {
		strokeBoxes(base, boxes, scaleX, scaleY, cfg)
		return base
	}

	overlay := image.NewNRGBA(base.Bounds())
	strokeBoxes(overlay, boxes, scaleX, scaleY, cfg)
	return imaging.Clone(blend.Normal(base, overlay))
}

func strokeBoxes(dst *image.NRGBA, boxes []geometry.Box, scaleX, scaleY float32, cfg DrawConfig) {
	width := cfg.LineWidth
	if width < 1 {
		width = 1
	}

	for _, b := range boxes {
		s := b.Scaled(scaleX, scaleY)
		col := ClassColor(b.ClassID)
		strokeRect(dst, int(s.X1), int(s.Y1), int(s.X2), int(s.Y2), width, col)

		if cfg.ShowConfidence {
			label := fmt.Sprintf("%s %.2f", classes.Class(b.ClassID), b.Confidence)
			drawLabel(dst, label, int(s.X1), int(s.Y1)-width-2, col)
		}
	}
}

// strokeRect draws a rectangle outline of the given stroke width. The
// stroke grows inward from the box edges and is clipped to the image.
func strokeRect(dst *image.NRGBA, x1, y1, x2, y2, width int, c color.NRGBA) {
	fillRect(dst, x1, y1, x2, y1+width, c)        // top
	fillRect(dst, x1, y2-width, x2, y2, c)        // bottom
	fillRect(dst, x1, y1+width, x1+width, y2-width, c) // left
	fillRect(dst, x2-width, y1+width, x2, y2-width, c) // right
}

func fillRect(dst *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	bounds := dst.Bounds()
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			dst.SetNRGBA(x, y, c)
		}
	}
}

func drawLabel(dst *image.NRGBA, text string, x, y int, c color.NRGBA) {
	if y < basicfont.Face7x13.Ascent {
		y = basicfont.Face7x13.Ascent
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
