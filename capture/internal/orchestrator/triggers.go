package orchestrator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// nowFunc is swapped in tests to pin filename timestamps.
var nowFunc = time.Now

// filename builds <YYYYMMDD_HHMMSS>_<mmm>_<screen>_<trigger>.png with
// millisecond precision, matching what an external watcher sorts on.
func filename(screen string, trig Trigger, now time.Time) string {
	return fmt.Sprintf("%s_%03d_%s_%s.png",
		now.Format("20060102_150405"),
		now.Nanosecond()/int(time.Millisecond),
		screen,
		trig)
}

func (o *Orchestrator) newRequest(screen string, trig Trigger) *request {
	if screen == "" {
		screen = "global"
	}
	return &request{
		trigger: trig,
		screen:  screen,
		path:    o.outputPath(screen, trig),
		traceID: uuid.NewString(),
	}
}

// TriggerManual arms a hotkey capture of the next drawn frame.
//
// While another capture is in flight the trigger is coalesced silently:
// one screenshot is already on its way and the user can press again.
func (o *Orchestrator) TriggerManual() {
	if o.closed.Load() {
		return
	}
	if o.phase != phaseIdle {
		slog.Debug("capture: manual trigger coalesced", "phase", o.phase.String())
		return
	}
	o.pending = o.newRequest(o.currentScreen, TriggerManual)
	o.phase = phaseStartPending
	o.triggered.Add(1)
	slog.Debug("capture: manual capture armed",
		"screen", o.pending.screen, "trace_id", o.pending.traceID)
}

// ScreenEntered records the newly active screen and arms an automatic
// capture of its next drawn frame.
//
// An auto trigger arriving while another capture is in flight is dropped
// with a warning; interleaving would break the single-writer contract
// on the transfer channel.
func (o *Orchestrator) ScreenEntered(name string) {
	if o.closed.Load() {
		return
	}
	o.currentScreen = name
	if o.phase != phaseIdle {
		o.dropped.Add(1)
		slog.Warn("capture: enter trigger dropped, capture already in flight",
			"screen", name, "phase", o.phase.String())
		return
	}
	o.pending = o.newRequest(name, TriggerEnter)
	o.phase = phaseStartPending
	o.triggered.Add(1)
	slog.Debug("capture: enter capture armed",
		"screen", name, "trace_id", o.pending.traceID)
}

// ScreenExiting captures the outgoing screen before its last frame is
// discarded.
//
// This path is synchronous and bypasses the pack buffers: the screen has
// no next frame, so a deferred transfer could never be collected. The
// pixels are always handed to the encode pool as raw bytes: an exit
// capture may overlap a deferred one, and sharing the segment between
// the two would mean two writers.
//
// A still-unstarted pending capture of the exiting screen is cancelled:
// its frame belongs to a screen that will not be drawn again.
func (o *Orchestrator) ScreenExiting(name string) {
	if o.closed.Load() {
		return
	}

	if o.phase == phaseStartPending && o.pending != nil && o.pending.screen == name {
		slog.Warn("capture: pending capture abandoned, screen exiting",
			"screen", name, "trace_id", o.pending.traceID)
		o.dropped.Add(1)
		o.pending = nil
		o.phase = phaseIdle
	}

	data, ok := o.pool.ReadSync()
	if !ok {
		slog.Debug("capture: exit capture unavailable", "screen", name)
		return
	}

	req := o.newRequest(name, TriggerExit)
	o.triggered.Add(1)
	o.submitDirect(data, req)
}
