// Package render draws accepted detections onto images and serializes
// them to machine-readable formats.
//
// # Coordinate mapping
//
// Draw maps boxes from the model's input coordinate space to the target
// image's pixel space with scale_x = imageW/inputW and scale_y =
// imageH/inputH. Letterbox padding is not inverted here: in the default
// pipeline the target image is the letterboxed input itself, so the
// scales are 1 and the mapping is exact. Callers rendering onto the
// original (un-letterboxed) image must apply the inverse pad offset to
// the boxes before calling Draw.
//
// # Output formats
//
// The normalized text format emits one line per box,
// "class_id center_x center_y width height", all spatial values divided
// by the image dimensions, six decimal digits. The JSON format is a
// document with the image dimensions and per-box records carrying both
// absolute and normalized coordinates plus confidence.
package render
