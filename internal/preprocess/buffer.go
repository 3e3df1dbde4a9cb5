package preprocess

import "image"

// ImageBuffer8 holds an 8-bit image in channel-planar (C,H,W) layout with
// three channels (R, G, B). It is produced by Letterbox and consumed by
// Normalize and by the render stage (via Image).
type ImageBuffer8 struct {
	Data   []uint8
	Width  int
	Height int
}

// ImageBuffer32 holds a normalized float32 image in channel-planar (C,H,W)
// layout. It is the tensor handed to the inference runtime.
type ImageBuffer32 struct {
	Data   []float32
	Width  int
	Height int
}

// Shape returns the logical tensor shape (1, 3, H, W).
func (b *ImageBuffer32) Shape() [4]int64 {
	return [4]int64{1, 3, int64(b.Height), int64(b.Width)}
}

// Image reinterleaves the planar buffer back into a standard NRGBA image.
// The alpha channel is fully opaque.
func (b *ImageBuffer8) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	plane := b.Width * b.Height

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			i := y*b.Width + x
			o := img.PixOffset(x, y)
			img.Pix[o] = b.Data[i]
			img.Pix[o+1] = b.Data[plane+i]
			img.Pix[o+2] = b.Data[2*plane+i]
			img.Pix[o+3] = 0xFF
		}
	}
	return img
}
