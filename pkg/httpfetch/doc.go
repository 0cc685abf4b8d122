// Package httpfetch implements the bounded-concurrency HTTP client:
// given a stream of (URL, target path) jobs, it downloads each to its
// target with a worker pool bounded by a global in-flight cap and a
// per-host fair-scheduling cap, resuming from what's already on disk and
// retrying transient failures with exponential backoff.
package httpfetch
