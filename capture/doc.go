// Package capture orchestrates asynchronous screenshot capture across
// frame boundaries.
//
// # Philosophy
//
// "Never stall the render loop. A lost screenshot is cheaper than a lost
// frame."
//
// The orchestrator owns the GPU readback pool and the shared-memory
// transfer channel, decides when a capture happens, and drives a small
// per-capture state machine:
//
//	Idle → StartPending → ReadbackPending → Idle
//
// # Triggers
//
//   - Manual: the capture hotkey arms StartPending immediately; the
//     output filename is computed and cached at trigger time.
//   - Screen enter: armed when a screen becomes active, captured on that
//     screen's next drawn frame.
//   - Screen exit: captured synchronously before the outgoing screen's
//     last frame is discarded. There is no later frame to complete a
//     deferred transfer, so this path bypasses the pack buffers.
//
// # Driving
//
// The render loop calls OnDraw() after drawing each frame (phase 1:
// issue the transfer) and OnUpdate(w, h) each tick (phase 2: collect the
// previous cycle's result, plus resize polling). Both are render-thread
// only and non-blocking.
//
// At most one capture is in flight. An automatic trigger arriving while
// one is pending is dropped with a warning; a manual trigger is
// coalesced silently; the user can press the key again.
//
// # Data Path
//
// Collected pixels are published to the shared-memory segment and
// submitted to the encode pool, which flips, PNG-encodes and writes the
// file off the render thread. When the segment is unavailable, or an
// earlier job still references it because the pool has not drained, the
// bytes are handed to the pool directly instead; the output is identical
// either way. Files land in the screenshots directory as
//
//	<YYYYMMDD_HHMMSS>_<mmm>_<screen>_<trigger>.png
//
// with a numeric suffix on the rare repeat inside one millisecond.
//
// # Lifecycle
//
//	orch, err := capture.New(capture.Config{GL: backend, Width: w, Height: h})
//	defer orch.Close()
//
// When the subsystem is disabled at startup, use capture.Disabled():
// same interface, no GPU allocation, every trigger a no-op.
package capture
