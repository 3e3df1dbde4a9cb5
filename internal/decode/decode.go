package decode

import (
	"errors"
	"fmt"

	"github.com/mcolliat/clashvision/internal/geometry"
)

// ErrUnknownVariant is returned by ForVariant for unsupported detector
// variant names.
var ErrUnknownVariant = errors.New("unknown detector variant")

// ShapeError reports an output tensor whose rank or dimensions do not
// match the layout's expected (1, attrs, candidates) contract.
type ShapeError struct {
	Dims   []int64
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected output tensor shape %v: %s", e.Dims, e.Reason)
}

// Layout decodes one raw output tensor into candidate boxes. data is the
// flattened tensor in row-major order and dims its logical shape.
//
// Zero candidates above the threshold is a valid outcome: an empty slice,
// not an error.
type Layout interface {
	Decode(data []float32, dims []int64, confidenceThreshold float32) ([]geometry.Box, error)
}

// ForVariant returns the layout for a detector variant name. Supported
// names are "yolov8" (dense anchor-free) and "yolov10" (fixed top-k).
func ForVariant(name string) (Layout, error) {
	switch name {
	case "yolov8":
		return DenseLayout{}, nil
	case "yolov10":
		return TopKLayout{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: yolov8, yolov10)", ErrUnknownVariant, name)
	}
}

// DenseLayout decodes the dense anchor-free head: (1, 4+numClasses,
// candidates) with per-class scores and center-form boxes.
type DenseLayout struct{}

func (DenseLayout) Decode(data []float32, dims []int64, confidenceThreshold float32) ([]geometry.Box, error) {
	if len(dims) != 3 {
		return nil, &ShapeError{Dims: dims, Reason: fmt.Sprintf("want rank 3, got rank %d", len(dims))}
	}
	if dims[0] != 1 {
		return nil, &ShapeError{Dims: dims, Reason: "want batch dimension 1"}
	}
	attrs := int(dims[1])
	candidates := int(dims[2])
	if attrs < 5 {
		return nil, &ShapeError{Dims: dims, Reason: "need at least 4 box rows and 1 class row"}
	}
	if len(data) != attrs*candidates {
		return nil, &ShapeError{Dims: dims, Reason: fmt.Sprintf("data length %d does not match shape", len(data))}
	}

	numClasses := attrs - 4
	stride := candidates
	boxes := make([]geometry.Box, 0, candidates/10)

	for det := 0; det < candidates; det++ {
		// Max class score with first-encountered (lowest id) tie-break:
		// strict > keeps the earliest index on equal scores.
		classID := 0
		best := data[4*stride+det]
		for c := 1; c < numClasses; c++ {
			if score := data[(4+c)*stride+det]; score > best {
				best = score
				classID = c
			}
		}

		if best > confidenceThreshold {
			cx := data[det]
			cy := data[stride+det]
			w := data[2*stride+det]
			h := data[3*stride+det]
			boxes = append(boxes, geometry.FromCenter(cx, cy, w, h, classID, best))
		}
	}

	return boxes, nil
}

// TopKLayout decodes the fixed top-k head: (1, candidates, 6) rows already
// ranked and in corner form.
type TopKLayout struct{}

func (TopKLayout) Decode(data []float32, dims []int64, confidenceThreshold float32) ([]geometry.Box, error) {
	if len(dims) != 3 {
		return nil, &ShapeError{Dims: dims, Reason: fmt.Sprintf("want rank 3, got rank %d", len(dims))}
	}
	if dims[0] != 1 {
		return nil, &ShapeError{Dims: dims, Reason: "want batch dimension 1"}
	}
	if dims[2] != 6 {
		return nil, &ShapeError{Dims: dims, Reason: "want 6 values per candidate row"}
	}
	candidates := int(dims[1])
	if len(data) != candidates*6 {
		return nil, &ShapeError{Dims: dims, Reason: fmt.Sprintf("data length %d does not match shape", len(data))}
	}

	boxes := make([]geometry.Box, 0, candidates)

	for det := 0; det < candidates; det++ {
		row := data[det*6 : det*6+6]
		confidence := row[4]
		// Inclusive comparison, unlike the dense layout's strict >.
		if confidence >= confidenceThreshold {
			boxes = append(boxes, geometry.Box{
				X1:         row[0],
				Y1:         row[1],
				X2:         row[2],
				Y2:         row[3],
				ClassID:    int(row[5]),
				Confidence: confidence,
			})
		}
	}

	return boxes, nil
}
