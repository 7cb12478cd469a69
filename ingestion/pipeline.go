package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/poiesic/usageload/core"
	"github.com/poiesic/usageload/mapping"
	"github.com/poiesic/usageload/rows"
	"github.com/poiesic/usageload/storage"
)

// Pipeline loads delimited records into a document store.
// A Pipeline may be run repeatedly but not concurrently.
type Pipeline struct {
	open             storage.OpenFunc
	mapper           *mapping.Mapper
	delimiter        rune
	trimSpace        bool
	progress         io.Writer
	progressInterval int
	state            atomic.Int32
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithDelimiter sets the input column delimiter.
// Default is ','.
func WithDelimiter(delimiter rune) Option {
	return func(p *Pipeline) error {
		p.delimiter = delimiter
		return nil
	}
}

// WithTrimSpace trims leading white space from input values.
func WithTrimSpace(trim bool) Option {
	return func(p *Pipeline) error {
		p.trimSpace = trim
		return nil
	}
}

// WithProgress writes running counts to w every interval records.
// Default is no progress output.
func WithProgress(w io.Writer, interval int) Option {
	return func(p *Pipeline) error {
		if interval < 1 {
			return fmt.Errorf("progress interval must be greater than 0, got %d", interval)
		}
		p.progress = w
		p.progressInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(open storage.OpenFunc, mapper *mapping.Mapper, opts ...Option) (*Pipeline, error) {
	if open == nil {
		return nil, ErrOpenFuncRequired
	}
	if mapper == nil {
		return nil, ErrMapperRequired
	}

	p := &Pipeline{
		open:             open,
		mapper:           mapper,
		delimiter:        ',',
		progressInterval: 1000,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// State returns the state of the current or most recent run.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) setState(s State) {
	old := State(p.state.Swap(int32(s)))
	if old != s {
		p.logger.Debug("pipeline state", "from", old.String(), "to", s.String())
	}
}

// Job describes one load.
type Job struct {
	Input    string      // Path of the delimited input file
	Location string      // Store location, e.g. a mongodb:// URI
	Target   core.Target // Database and collection to write to
}

// Run loads job.Input into job.Target.
//
// The returned Report is never nil and holds the counts reached so far, even
// when Run fails. A non-nil error is always fatal: it wraps core.ErrInput,
// storage.ErrConnection, core.ErrInvalidTarget or ErrInterrupted.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Report, error) {
	return p.run(ctx, job.Location, job.Target, func() (*rows.Reader, error) {
		return rows.Open(job.Input, p.readerOptions()...)
	})
}

// RunReader is Run over an already open input stream.
func (p *Pipeline) RunReader(ctx context.Context, input io.Reader, location string, target core.Target) (*Report, error) {
	return p.run(ctx, location, target, func() (*rows.Reader, error) {
		return rows.NewReader(input, p.readerOptions()...)
	})
}

func (p *Pipeline) readerOptions() []rows.Option {
	return []rows.Option{
		rows.WithDelimiter(p.delimiter),
		rows.WithTrimSpace(p.trimSpace),
	}
}

func (p *Pipeline) run(ctx context.Context, location string, target core.Target, openInput func() (*rows.Reader, error)) (report *Report, err error) {
	report = &Report{Target: target}
	start := time.Now()
	p.setState(StateIdle)

	defer func() {
		report.Elapsed = time.Since(start)
		if err != nil {
			report.Aborted = true
			p.setState(StateFailed)
			p.logger.Error("load aborted", "target", target.String(), "err", err)
			return
		}
		p.setState(StateDone)
	}()

	if err := core.ValidateTarget(target); err != nil {
		return report, err
	}

	p.setState(StateParsing)
	reader, err := openInput()
	if err != nil {
		return report, err
	}
	defer reader.Close()
	p.logger.Debug("read header", "columns", len(reader.Header()))

	conn, err := p.open(ctx, location, target)
	if err != nil {
		if !errors.Is(err, storage.ErrConnection) {
			err = fmt.Errorf("%w: %w", storage.ErrConnection, err)
		}
		return report, err
	}
	defer func() {
		if closeErr := conn.Close(context.WithoutCancel(ctx)); closeErr != nil {
			p.logger.Warn("error closing store connection", "err", closeErr)
		}
	}()

	p.setState(StateWriting)
	tracker := NewProgressTracker(p.progress, p.progressInterval)
	tracker.Start()
	defer tracker.Finish()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
		}

		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, err
		}
		report.Read++

		if err := p.load(ctx, conn, record, report); err != nil {
			return report, err
		}
		tracker.Update(report.Read, report.Inserted, report.Skipped)
	}

	report.Digest = reader.Digest()
	p.logger.Info("load complete",
		"target", target.String(),
		"read", report.Read,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"digest", report.Digest,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// load maps and inserts one record, updating report. It returns an error
// only when the run must stop.
func (p *Pipeline) load(ctx context.Context, conn storage.Connection, record core.Record, report *Report) error {
	doc, err := p.mapper.Map(record)
	if err != nil {
		report.Skipped++
		report.Unmapped++
		p.logger.Warn("skipping record", "line", record.Line(), "column", p.mapper.IDColumn(), "reason", "unmapped", "err", err)
		return nil
	}

	err = conn.Insert(ctx, doc)
	switch {
	case err == nil:
		report.Inserted++
		return nil
	case storage.IsFatal(err):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	case errors.Is(err, storage.ErrDuplicateKey):
		report.Skipped++
		report.Duplicates++
		p.logger.Warn("skipping record", "id", doc.ID, "line", record.Line(), "reason", "duplicate", "err", err)
		return nil
	default:
		report.Skipped++
		report.Rejected++
		p.logger.Warn("skipping record", "id", doc.ID, "line", record.Line(), "reason", "rejected", "err", err)
		return nil
	}
}
