package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports running record counts of a load.
// The total is not known in advance, so it reports counts and rate only.
type ProgressTracker struct {
	writer         io.Writer
	reportInterval int
	read           int
	inserted       int
	skipped        int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr); nil disables output
// reportInterval: report progress every N records read
func NewProgressTracker(writer io.Writer, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.read, p.inserted, p.skipped = 0, 0, 0
	p.lastReported = 0
}

// Update records the current counts and reports when another interval has
// been read since the last report.
func (p *ProgressTracker) Update(read, inserted, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.read, p.inserted, p.skipped = read, inserted, skipped

	if p.read-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.read
	}
}

// Finish prints the final counts followed by a newline.
// Nothing is printed if no records were read.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.writer == nil || p.read == 0 {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	if p.writer == nil {
		return
	}

	rate := 0.0
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.read) / elapsed
	}

	fmt.Fprintf(p.writer, "\rProgress: read=%d inserted=%d skipped=%d - %.1f records/s",
		p.read, p.inserted, p.skipped, rate)
}
