// Package session owns the detection pipeline end to end: it holds the
// immutable per-run configuration and the opaque inference runtime, and
// sequences preprocessing, decoding, suppression, rendering, and output
// persistence for each image.
//
// # Pipeline
//
// ProcessImage advances through strictly sequential stages:
//
//	load -> letterbox -> normalize -> infer -> decode -> suppress -> render -> save
//
// No stage is skipped and a failure at any stage aborts the pipeline for
// that image before later-stage outputs are touched. ProcessBatch runs
// images independently and collects per-image results so one failure does
// not abort the batch.
//
// # Concurrency
//
// A Session supports at most one in-flight ProcessImage call; the runtime
// handle and configuration are not safe for concurrent mutation. Callers
// wanting parallel batch processing should give each worker its own
// Session instance.
package session
