package common

import "sync/atomic"

// TransferStats tracks download and extraction metrics with atomic operations.
type TransferStats struct {
	Completed atomic.Uint64
	Failed    atomic.Uint64
	Skipped   atomic.Uint64
	Bytes     atomic.Uint64
}

// ParseTotals tracks file parsing metrics across a table build.
type ParseTotals struct {
	FilesParsed  atomic.Uint64
	FilesFailed  atomic.Uint64
	Observations atomic.Uint64
	Compounds    atomic.Uint64
}
