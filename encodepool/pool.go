package encodepool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrAlreadyStarted is returned by Start on a pool that is already
// running.
var ErrAlreadyStarted = errors.New("encodepool: pool already started")

// DefaultWorkers is the default pool size.
const DefaultWorkers = 1

// jobQueueDepth is the per-pool submission buffer. Deep enough to absorb
// a burst of transition captures, small enough that backpressure drops
// stale work instead of queueing it.
const jobQueueDepth = 8

// Job is the immutable unit of work handed to a worker.
//
// Exactly one of Data or SegmentName is set. Workers never hold a
// reference back to the submitter; a Job is a pure value.
type Job struct {
	// Data holds raw RGBA pixel bytes when the shared-memory channel is
	// unavailable. Must not be modified after Submit.
	Data []byte

	// SegmentName names the shared-memory segment holding the pixels.
	// Empty when Data is used. Workers attach, copy ByteLength bytes,
	// and detach, never destroy; the segment's owner does that.
	SegmentName string

	// ByteLength is the number of valid bytes in the segment.
	ByteLength int

	// Width and Height of the frame in pixels.
	Width  int
	Height int

	// Path is the destination PNG file.
	Path string

	// TraceID correlates log lines for one capture across the pipeline.
	TraceID string
}

// Stats is a snapshot of pool counters.
type Stats struct {
	// Submitted counts jobs accepted into the queue.
	Submitted uint64
	// Dropped counts jobs refused because the queue was full or the
	// pool was stopped.
	Dropped uint64
	// Completed counts files written successfully.
	Completed uint64
	// Failed counts jobs that errored inside a worker (logged there).
	Failed uint64
}

// Pool is a bounded set of encode workers fed by a FIFO queue.
//
// Lifecycle: New → Start → Submit… → Stop. Stop drains jobs already
// accepted, then returns; Submit after Stop drops.
type Pool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup

	started  atomic.Bool
	stopping atomic.Bool

	submitted atomic.Uint64
	dropped   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// New creates a pool with the given worker count (DefaultWorkers if <= 0).
func New(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, jobQueueDepth),
	}
}

// Start launches the workers. Safe to call once; a second call errors.
// The context bounds worker lifetime in addition to Stop.
func (p *Pool) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	slog.Debug("encodepool: started", "workers", p.workers)
	return nil
}

// Submit enqueues a job without blocking.
//
// Returns false, with the drop counted, when the queue is full or the
// pool is stopping. Skipping a capture under backpressure is expected
// behavior, not an error. Jobs submitted before Start sit in the queue
// until workers come up.
func (p *Pool) Submit(job Job) bool {
	if p.stopping.Load() {
		p.dropped.Add(1)
		return false
	}
	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return true
	default:
		p.dropped.Add(1)
		slog.Warn("encodepool: queue full, capture dropped",
			"path", job.Path, "trace_id", job.TraceID)
		return false
	}
}

// Stop refuses new jobs, drains the ones already accepted, and waits for
// all workers to exit. Idempotent.
//
// Callers that hand out shared-memory segments must Stop the pool before
// destroying them; after Stop returns, no worker holds a borrowed view.
func (p *Pool) Stop() {
	if !p.started.Load() {
		return
	}
	if !p.stopping.CompareAndSwap(false, true) {
		p.wg.Wait()
		return
	}
	close(p.jobs)
	p.wg.Wait()
	slog.Debug("encodepool: stopped",
		"completed", p.completed.Load(), "failed", p.failed.Load())
}

// Stats returns a counter snapshot. Non-blocking; safe from any goroutine.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Dropped:   p.dropped.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.process(job, id)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool) process(job Job, worker int) {
	// A capture job must never take down the pool, whatever goes wrong.
	defer func() {
		if r := recover(); r != nil {
			p.failed.Add(1)
			slog.Error("encodepool: worker panic recovered",
				"worker", worker, "path", job.Path, "trace_id", job.TraceID, "panic", r)
		}
	}()

	if err := encodeAndWrite(job); err != nil {
		p.failed.Add(1)
		slog.Error("encodepool: job failed",
			"worker", worker, "path", job.Path, "trace_id", job.TraceID, "error", err)
		return
	}
	p.completed.Add(1)
	slog.Info("encodepool: screenshot written",
		"path", job.Path, "width", job.Width, "height", job.Height, "trace_id", job.TraceID)
}
