package suppress

import (
	"sort"

	"github.com/mcolliat/clashvision/internal/geometry"
)

// Options controls one suppression run.
type Options struct {
	// IoUThreshold is the overlap above which (strictly) a lower-confidence
	// box is suppressed. Typical values are 0.4-0.5.
	IoUThreshold float32

	// ConfidenceFloor drops boxes below this confidence before any overlap
	// comparison.
	ConfidenceFloor float32

	// MaxDetections caps the number of surviving boxes. 0 means no cap.
	MaxDetections int

	// PerClass restricts suppression to boxes of the same class id.
	PerClass bool
}

// Suppress filters boxes with greedy NMS according to opts and returns the
// survivors sorted by confidence descending.
//
// Empty input yields an empty result. A single box above the confidence
// floor always survives. The output is always a subset of the
// confidence-filtered input.
func Suppress(boxes []geometry.Box, opts Options) []geometry.Box {
	filtered := make([]geometry.Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Confidence >= opts.ConfidenceFloor {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) == 0 {
		return filtered
	}

	if !opts.PerClass {
		return greedy(filtered, opts.IoUThreshold, opts.MaxDetections)
	}

	// Partition by class, suppress independently, then merge and re-sort
	// so the union is ordered by confidence again.
	byClass := make(map[int][]geometry.Box)
	classOrder := make([]int, 0, 4)
	for _, b := range filtered {
		if _, seen := byClass[b.ClassID]; !seen {
			classOrder = append(classOrder, b.ClassID)
		}
		byClass[b.ClassID] = append(byClass[b.ClassID], b)
	}

	merged := make([]geometry.Box, 0, len(filtered))
	for _, id := range classOrder {
		merged = append(merged, greedy(byClass[id], opts.IoUThreshold, opts.MaxDetections)...)
	}
	sortByConfidence(merged)

	if opts.MaxDetections > 0 && len(merged) > opts.MaxDetections {
		merged = merged[:opts.MaxDetections]
	}
	return merged
}

// greedy runs standard greedy NMS over one comparison scope. Input order
// is preserved for equal confidences (stable sort) so the output is
// deterministic.
func greedy(boxes []geometry.Box, iouThreshold float32, maxDetections int) []geometry.Box {
	sorted := make([]geometry.Box, len(boxes))
	copy(sorted, boxes)
	sortByConfidence(sorted)

	suppressed := make([]bool, len(sorted))
	kept := make([]geometry.Box, 0, len(sorted))

	for i, current := range sorted {
		if suppressed[i] {
			continue
		}

		kept = append(kept, current)
		if maxDetections > 0 && len(kept) == maxDetections {
			break
		}

		for j := i + 1; j < len(sorted); j++ {
			if !suppressed[j] && current.IoU(sorted[j]) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return kept
}

func sortByConfidence(boxes []geometry.Box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Confidence > boxes[j].Confidence
	})
}
