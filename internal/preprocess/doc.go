// Package preprocess turns an on-disk image into the numeric input buffer
// a detector expects.
//
// The pipeline has three steps:
//
//  1. Load: open and decode a PNG/JPEG/GIF file.
//  2. Letterbox: resize preserving aspect ratio, pad to the fixed square
//     input with a fill color, and re-lay-out pixels channel-planar (C,H,W).
//  3. Normalize: convert the 8-bit planar buffer to float32, applying an
//     optional per-channel mean/std profile.
//
// Padding is centered: the resized image sits in the middle of the target
// canvas with symmetric borders. Downstream coordinate mapping divides
// decoded box coordinates by the scale directly and assumes this symmetry;
// callers that pad top-left instead must carry their own offset bookkeeping.
//
// # Buffer layout
//
// ImageBuffer8 and ImageBuffer32 store three channel planes back to back:
// index c*W*H + y*W + x addresses channel c at pixel (x,y). The float
// buffer is derived from the 8-bit one and owns separate storage.
package preprocess
