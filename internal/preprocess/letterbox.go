package preprocess

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"os"

	"github.com/disintegration/imaging"
)

// DefaultPadColor is the neutral gray used to fill letterbox borders.
// Gray keeps the padding region close to the mean pixel value most
// detectors were trained with.
var DefaultPadColor = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// LoadError reports a failure to load or decode a source image. It wraps
// the underlying cause and records the offending path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load opens and decodes an image file.
//
// Returns a *LoadError if the file does not exist, cannot be read, or is
// not a valid PNG, JPEG, or GIF image. No partial result is returned on
// failure.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return img, nil
}

// Letterbox resizes src to fit entirely inside targetW x targetH without
// distortion, centers it on a canvas filled with pad, and returns the
// result as a channel-planar 8-bit buffer.
//
// The uniform scale is min(targetW/srcW, targetH/srcH); the resized
// dimensions are rounded to the nearest pixel. Resizing uses Lanczos
// filtering; nearest-neighbor would alias high-frequency detail and shift
// box locations.
func Letterbox(src image.Image, targetW, targetH int, pad color.NRGBA) *ImageBuffer8 {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	scale := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	newW := int(math.Round(float64(srcW) * scale))
	newH := int(math.Round(float64(srcH) * scale))

	resized := imaging.Resize(src, newW, newH, imaging.Lanczos)

	canvas := imaging.New(targetW, targetH, pad)
	canvas = imaging.PasteCenter(canvas, resized)

	return toPlanar(canvas)
}

// toPlanar converts an interleaved NRGBA image into the planar (C,H,W)
// layout. Alpha is dropped.
func toPlanar(img *image.NRGBA) *ImageBuffer8 {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	plane := w * h
	data := make([]uint8, 3*plane)

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			o := row + x*4
			i := y*w + x
			data[i] = img.Pix[o]
			data[plane+i] = img.Pix[o+1]
			data[2*plane+i] = img.Pix[o+2]
		}
	}

	return &ImageBuffer8{Data: data, Width: w, Height: h}
}
