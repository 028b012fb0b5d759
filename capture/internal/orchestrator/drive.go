package orchestrator

import (
	"log/slog"

	"github.com/e7canasta/chaser-game/encodepool"
)

// OnDraw runs phase 1, immediately after the frame is drawn: if a
// capture is armed, issue the asynchronous readback and move to
// ReadbackPending. The data is not touched until the next OnUpdate.
func (o *Orchestrator) OnDraw() {
	if o.closed.Load() || o.phase != phaseStartPending {
		return
	}

	if !o.pool.StartCapture() {
		// Pool disabled (no pack buffers, failed resize). The trigger
		// is abandoned, not retried: retrying every frame would spam a
		// dead driver.
		o.dropped.Add(1)
		slog.Debug("capture: readback unavailable, capture dropped",
			"screen", o.pending.screen, "trace_id", o.pending.traceID)
		o.pending = nil
		o.phase = phaseIdle
		return
	}
	o.phase = phaseReadbackPending
}

// OnUpdate runs phase 2 at the effective start of the next frame:
// poll for a resize, then collect a completed transfer and submit it
// for encoding.
//
// The resize check is a poll, not an event subscription: the windowing
// system's resize notification is an external collaborator this
// subsystem does not rely on.
func (o *Orchestrator) OnUpdate(width, height int) {
	if o.closed.Load() {
		return
	}

	o.pollResize(width, height)

	if o.phase != phaseReadbackPending {
		return
	}

	data, ok := o.pool.EndCapture()
	req := o.pending
	o.pending = nil
	o.phase = phaseIdle

	if !ok {
		o.dropped.Add(1)
		slog.Warn("capture: readback produced no data",
			"screen", req.screen, "trace_id", req.traceID)
		return
	}
	o.submit(data, req)
}

// pollResize compares the window dimensions against the pool's and
// rebuilds the readback pipeline when they diverge. A capture in flight
// across a resize is abandoned: its slot no longer exists.
func (o *Orchestrator) pollResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == o.pool.Width() && height == o.pool.Height() {
		return
	}

	if o.phase != phaseIdle {
		o.dropped.Add(1)
		slog.Warn("capture: in-flight capture abandoned by resize",
			"phase", o.phase.String(),
			"width", width, "height", height)
		o.pending = nil
		o.phase = phaseIdle
	}

	o.pool.Resize(width, height)

	// The old segment may still back a queued encode job; it is retired
	// now and destroyed at Close, after the encode pool has drained.
	if o.seg != nil {
		o.retired = append(o.retired, o.seg)
	}
	o.seg = o.createSegment(o.pool.ByteSize())

	slog.Info("capture: pipeline resized", "width", width, "height", height)
}

// submit publishes the pixels through the zero-copy channel when no
// earlier encode job can still be reading it, falling back to direct
// byte hand-off, and enqueues the encode job. The capture counts as
// completed once the job is accepted.
func (o *Orchestrator) submit(data []byte, req *request) {
	if o.seg != nil && o.encodersIdle() {
		err := o.seg.Publish(data)
		if err == nil {
			o.enqueue(encodepool.Job{
				SegmentName: o.seg.Name(),
				ByteLength:  len(data),
				Width:       o.pool.Width(),
				Height:      o.pool.Height(),
				Path:        req.path,
				TraceID:     req.traceID,
			}, req)
			return
		}
		slog.Warn("capture: publish failed, handing bytes directly",
			"trace_id", req.traceID, "error", err)
	}
	o.submitDirect(data, req)
}

// encodersIdle reports whether every job accepted by the encode pool has
// finished. The segment may only be republished then: a job still queued
// (or mid-encode) references the previous capture's pixels by segment
// name, and workers copy them out only at dequeue time. While the pool
// is behind, captures hand their bytes over directly instead.
func (o *Orchestrator) encodersIdle() bool {
	s := o.encoders.Stats()
	return s.Submitted == s.Completed+s.Failed
}

// submitDirect enqueues an encode job carrying the pixels by value.
func (o *Orchestrator) submitDirect(data []byte, req *request) {
	o.enqueue(encodepool.Job{
		Data:    data,
		Width:   o.pool.Width(),
		Height:  o.pool.Height(),
		Path:    req.path,
		TraceID: req.traceID,
	}, req)
}

func (o *Orchestrator) enqueue(job encodepool.Job, req *request) {
	if !o.encoders.Submit(job) {
		o.dropped.Add(1)
		return
	}
	o.completed.Add(1)
	slog.Debug("capture: encode job submitted",
		"path", req.path, "trigger", string(req.trigger), "trace_id", req.traceID)
}
