// Package suppress removes duplicate detections with greedy
// Non-Maximum Suppression.
//
// The algorithm keeps the highest-confidence box in each cluster of
// overlapping candidates: boxes are sorted by confidence descending
// (stable, so equal confidences keep their original relative order) and
// visited in that order; every later box whose IoU with a kept box is
// strictly above the threshold is discarded.
//
// Suppression can run class-agnostic across all boxes, or per class by
// partitioning on class id; the per-class results are merged and re-sorted
// by confidence so callers always get one deterministic, ordered list.
package suppress
