// Package pipeline runs reconciliation jobs as a sequence of steps.
//
// A job is processed by validating its inputs, reading the master manifest,
// scanning the raw tree, comparing the two, and writing the report. Each
// stage is a Step that receives the run and fills in its part. Steps report
// progress through a progress.Sink.
//
// BatchProcessor runs several jobs at once with a concurrency limit using
// errgroup. Each job gets its own pipeline and its own run, so nothing is
// shared between jobs.
package pipeline
