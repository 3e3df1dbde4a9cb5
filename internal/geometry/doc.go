// Package geometry provides the axis-aligned bounding box primitive used
// throughout the detection pipeline.
//
// Boxes live in a coordinate system where (0,0) is the top-left corner,
// X increases rightward, and Y increases downward. A box is defined by its
// top-left corner (X1,Y1) and bottom-right corner (X2,Y2) together with a
// class id and a confidence score in [0,1].
//
// All derived operations (area, intersection, union, IoU, center,
// dimensions) are pure: they read the box and return a value without
// mutating anything. Boxes are small value types and are passed by copy.
package geometry
