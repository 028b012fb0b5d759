// Package encodepool moves CPU-bound image encode and disk I/O off the
// render thread.
//
// Workers accept immutable Jobs (raw RGBA bytes or a shared-memory
// segment name, plus dimensions and a destination path), decode, flip
// vertically (GL framebuffers are bottom-left origin), encode to PNG and
// write the file atomically (temp sibling, then rename).
//
// Submit is non-blocking: when the queue is full the job is dropped and
// counted rather than stalling the caller. Captures are infrequent
// relative to frame rate, so the default of one worker is sufficient;
// larger pools only help under high capture frequency.
//
// A worker failure of any kind is caught and logged inside the worker.
// It never reaches the render thread and never affects later jobs.
package encodepool
