package ui

import "sync/atomic"

// Stats accumulates download totals across concurrent chapter workers
// for the end-of-run summary.
type Stats struct {
	TotalChapters atomic.Int64
	TotalPages    atomic.Int64
	TotalBytes    atomic.Int64
}
