package preprocess

// NormProfile holds per-channel normalization constants applied after the
// 0-255 to 0-1 conversion: out = (in/255 - Mean[c]) / Std[c].
type NormProfile struct {
	Mean [3]float32 `yaml:"mean"`
	Std  [3]float32 `yaml:"std"`
}

// NoNormalization leaves pixel values in [0,1] untouched (mean 0, std 1).
// This is the default profile.
func NoNormalization() NormProfile {
	return NormProfile{Mean: [3]float32{0, 0, 0}, Std: [3]float32{1, 1, 1}}
}

// ImageNet is the standard ImageNet channel statistics profile.
func ImageNet() NormProfile {
	return NormProfile{
		Mean: [3]float32{0.485, 0.456, 0.406},
		Std:  [3]float32{0.229, 0.224, 0.225},
	}
}

// Normalize converts an 8-bit planar buffer into a float32 buffer applying
// the given profile. The divisions are folded into one multiply-add per
// pixel: scale[c] = 1/(255*std[c]), offset[c] = -mean[c]/std[c].
//
// The returned buffer owns separate storage and does not alias src.
func Normalize(src *ImageBuffer8, p NormProfile) *ImageBuffer32 {
	plane := src.Width * src.Height
	data := make([]float32, 3*plane)

	for c := 0; c < 3; c++ {
		scale := 1 / (255 * p.Std[c])
		offset := -p.Mean[c] / p.Std[c]
		in := src.Data[c*plane : (c+1)*plane]
		out := data[c*plane : (c+1)*plane]
		for i, v := range in {
			out[i] = float32(v)*scale + offset
		}
	}

	return &ImageBuffer32{Data: data, Width: src.Width, Height: src.Height}
}
