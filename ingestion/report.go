package ingestion

import (
	"fmt"
	"time"

	"github.com/poiesic/usageload/core"
)

// Report summarizes one pipeline run.
type Report struct {
	Target   core.Target
	Read     int // Records produced by the parser
	Inserted int // Documents acknowledged by the store
	Skipped  int // Records dropped by a per-record error

	// Breakdown of Skipped
	Unmapped   int // Missing identifier
	Duplicates int // Identifier already present in the store
	Rejected   int // Any other write rejection

	Aborted bool          // A fatal error ended the run
	Digest  string        // BLAKE2b-256 of the input consumed, empty if parsing never started
	Elapsed time.Duration // Wall time of the run
}

// Summary returns the one-line outcome of the run.
func (r *Report) Summary() string {
	aborted := 0
	if r.Aborted {
		aborted = 1
	}
	return fmt.Sprintf("read=%d inserted=%d skipped=%d fatal-aborted=%d",
		r.Read, r.Inserted, r.Skipped, aborted)
}
