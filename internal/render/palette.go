package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mcolliat/clashvision/internal/classes"
)

// ClassColor returns the stroke color for a class id: the registry color
// for known classes, the fallback color otherwise. Colors are assigned
// deterministically so repeated runs annotate identically.
func ClassColor(classID int) color.NRGBA {
	if classID < 0 || classID >= classes.Count() {
		return classes.Fallback
	}
	return classes.Class(classID).Color()
}

// DistinctColors generates n visually spread colors by stepping the hue
// around the HSV wheel at fixed saturation and value. Intended for models
// with more classes than the fixed registry covers.
func DistinctColors(n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := 0; i < n; i++ {
		hue := float64(i) * 360.0 / float64(n)
		r, g, b := colorful.Hsv(hue, 0.7, 0.9).RGB255()
		out[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}
