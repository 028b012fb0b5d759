package capture

import (
	"github.com/e7canasta/chaser-game/capture/internal/orchestrator"
)

// Trigger identifies what caused a capture.
// Its string form appears in output filenames.
type Trigger = orchestrator.Trigger

const (
	// TriggerManual is the designated-hotkey capture.
	TriggerManual = orchestrator.TriggerManual
	// TriggerEnter is the automatic capture of a screen's first drawn frame.
	TriggerEnter = orchestrator.TriggerEnter
	// TriggerExit is the synchronous capture of an outgoing screen.
	TriggerExit = orchestrator.TriggerExit
)

// Config carries orchestrator construction parameters.
// See internal/orchestrator for field documentation.
type Config = orchestrator.Config

// Stats is a snapshot of capture counters.
type Stats = orchestrator.Stats

// Orchestrator is the public interface of the capture subsystem.
//
// All methods except Stats must be called from the render thread; every
// call is non-blocking. Implementations are returned by New and Disabled.
type Orchestrator interface {
	// OnDraw runs phase 1: if a capture is armed, issue the
	// asynchronous readback of the frame just drawn.
	OnDraw()

	// OnUpdate runs phase 2 at the start of the next frame: collect a
	// completed transfer and submit it for encoding. It also polls the
	// window dimensions and resizes the pipeline when they changed.
	OnUpdate(width, height int)

	// TriggerManual arms a hotkey capture of the next drawn frame.
	// Coalesced silently if a capture is already in flight.
	TriggerManual()

	// ScreenEntered arms an automatic capture of the named screen's
	// next drawn frame and records it as the current screen.
	ScreenEntered(name string)

	// ScreenExiting captures the named screen synchronously before its
	// last frame is discarded, and cancels a still-unstarted pending
	// capture of that screen.
	ScreenExiting(name string)

	// Stats returns a counter snapshot. Safe from any goroutine.
	Stats() Stats

	// Close stops accepting work, drains the encode pool, then releases
	// the shared-memory segment and the GPU buffers, in that order.
	// Idempotent.
	Close()
}

// New builds a live orchestrator. Degrades rather than fails: missing
// pixel-pack support or shared memory are logged once and worked around.
func New(cfg Config) (Orchestrator, error) {
	return orchestrator.New(cfg)
}

// Disabled returns an orchestrator that allocates nothing and ignores
// every trigger, for running with capture switched off.
func Disabled() Orchestrator {
	return noop{}
}

type noop struct{}

func (noop) OnDraw()              {}
func (noop) OnUpdate(int, int)    {}
func (noop) TriggerManual()       {}
func (noop) ScreenEntered(string) {}
func (noop) ScreenExiting(string) {}
func (noop) Stats() Stats         { return Stats{} }
func (noop) Close()               {}
