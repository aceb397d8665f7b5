// Package task runs generation work in the background. Jobs are submitted to
// a bounded in-memory queue, executed by a fixed pool of workers and tracked
// in a Store so callers can poll for the outcome.
package task
