// Package classes defines the fixed class registry for the village
// building detector: two storage building types with stable ids and
// display colors. The registry is immutable and safe for concurrent reads.
package classes

import "image/color"

// Class identifies one detectable building type. The integer value
// matches the class index emitted by the model head.
type Class int

const (
	ElixirStorage Class = iota
	GoldStorage
)

// String returns the human-readable class name, or "Unknown" for ids
// outside the registry.
func (c Class) String() string {
	switch c {
	case ElixirStorage:
		return "Elixir Storage"
	case GoldStorage:
		return "Gold Storage"
	default:
		return "Unknown"
	}
}

// Color returns the display color for the class. Unknown ids get a
// fallback color so they remain visible in rendered output.
func (c Class) Color() color.NRGBA {
	switch c {
	case ElixirStorage:
		return color.NRGBA{R: 255, G: 0, B: 255, A: 255} // magenta
	case GoldStorage:
		return color.NRGBA{R: 212, G: 175, B: 55, A: 255} // gold
	default:
		return Fallback
	}
}

// Fallback is the color used for class ids outside the registry.
var Fallback = color.NRGBA{R: 0x80, G: 0x10, B: 0x40, A: 0xFF}

// All returns every registered class in id order.
func All() []Class {
	return []Class{ElixirStorage, GoldStorage}
}

// Count returns the number of registered classes.
func Count() int {
	return len(All())
}
