// Package decode maps raw inference-runtime output tensors into candidate
// bounding boxes.
//
// Two tensor layouts are supported, matching the two detector head styles:
//
//   - Dense anchor-free (yolov8): the tensor is (1, attributes, candidates)
//     where the first four attribute rows are box center x, y, width, height
//     in the model's input coordinate space and the remaining rows are one
//     score per class. A candidate is emitted when its best class score is
//     strictly above the confidence threshold.
//
//   - Fixed top-k (yolov10): the tensor is (1, candidates, 6) with rows
//     already in (x1, y1, x2, y2, confidence, class_id) form. A row is
//     emitted when its confidence is greater than or equal to the threshold.
//
// The threshold comparison differs between the two layouts (strict vs
// inclusive). This asymmetry matches the reference outputs each head style
// was validated against and must not be harmonized.
//
// A layout is selected once per session by detector variant name and never
// switched mid-run.
package decode
