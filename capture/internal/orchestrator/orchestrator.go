// Package orchestrator implements the capture state machine.
//
// This package is internal - clients use the public API in package
// capture, which re-exports the stable types.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/e7canasta/chaser-game/encodepool"
	"github.com/e7canasta/chaser-game/framebuffer"
	"github.com/e7canasta/chaser-game/shmchannel"
)

// Trigger identifies what caused a capture; the value is embedded in the
// output filename.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerEnter  Trigger = "enter"
	TriggerExit   Trigger = "exit"
)

// phase is the per-capture state. At most one capture is ever in a
// non-idle phase.
type phase int

const (
	phaseIdle phase = iota
	phaseStartPending
	phaseReadbackPending
)

func (p phase) String() string {
	switch p {
	case phaseStartPending:
		return "start-pending"
	case phaseReadbackPending:
		return "readback-pending"
	default:
		return "idle"
	}
}

// DefaultOutputDir is where screenshots land, relative to the working
// directory, when Config.OutputDir is empty.
const DefaultOutputDir = "screenshots"

// Config carries construction parameters.
type Config struct {
	// GL is the driver backend for the readback pool. May be nil, in
	// which case the pool disables itself and captures produce no data.
	GL framebuffer.GL

	// Width and Height are the initial frame dimensions in pixels.
	Width  int
	Height int

	// OutputDir is the screenshot directory (DefaultOutputDir if empty).
	// Created if absent.
	OutputDir string

	// SlotCount is the readback pool size (framebuffer default if zero).
	SlotCount int

	// Workers is the encode pool size (encodepool default if zero).
	Workers int

	// DisableSharedMemory forces the direct byte hand-off path even on
	// platforms where shared memory works. The output is identical;
	// only the transfer cost differs.
	DisableSharedMemory bool
}

// Stats is a snapshot of capture counters.
type Stats struct {
	// Triggered counts captures armed (manual + enter + exit).
	Triggered uint64
	// Completed counts captures handed to the encode pool.
	Completed uint64
	// DroppedTriggers counts triggers refused or abandoned (already in
	// flight, pool disabled, resize mid-capture, screen torn down).
	DroppedTriggers uint64
	// Encode is the encode pool's own accounting.
	Encode encodepool.Stats
	// LastCaptureMicros is the most recent readback map-and-copy cost.
	LastCaptureMicros int64
	// SharedMemory reports whether the zero-copy channel is active.
	SharedMemory bool
}

// request is one armed capture. Created at trigger time (including the
// output path, so the filename timestamp reflects the trigger, not the
// readback) and consumed when the encode job is submitted.
type request struct {
	trigger Trigger
	screen  string
	path    string
	traceID string
}

// Orchestrator drives the two-phase capture protocol across frame
// boundaries. State-machine fields are render-thread only; counters are
// atomic so Stats can be read from anywhere.
type Orchestrator struct {
	pool     *framebuffer.Pool
	encoders *encodepool.Pool

	// seg is the live shared-memory segment, nil when unavailable or
	// disabled. retired holds segments superseded by a resize; they are
	// destroyed at Close, after the encode pool has drained, so no
	// worker can be left reading freed memory.
	seg        *shmchannel.Segment
	retired    []*shmchannel.Segment
	disableShm bool

	outputDir string

	phase   phase
	pending *request

	currentScreen string

	// lastName/nameSeq disambiguate filenames generated within the same
	// millisecond, so the atomic rename never replaces an earlier
	// capture's file.
	lastName string
	nameSeq  int

	cancel context.CancelFunc
	closed atomic.Bool

	triggered atomic.Uint64
	completed atomic.Uint64
	dropped   atomic.Uint64
}

// New builds an orchestrator, its readback pool, its shared-memory
// segment and its encode pool.
//
// Fail-fast on caller errors (bad dimensions, unwritable output dir);
// fail-soft on capability absence (no pixel pack, no shared memory).
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("capture: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("capture: create output dir %s: %w", outputDir, err)
	}

	o := &Orchestrator{
		pool: framebuffer.New(cfg.GL, framebuffer.Config{
			Width:     cfg.Width,
			Height:    cfg.Height,
			SlotCount: cfg.SlotCount,
		}),
		encoders:   encodepool.New(cfg.Workers),
		disableShm: cfg.DisableSharedMemory,
		outputDir:  outputDir,
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	if err := o.encoders.Start(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("capture: start encode pool: %w", err)
	}

	o.seg = o.createSegment(o.pool.ByteSize())

	slog.Info("capture: orchestrator ready",
		"output_dir", outputDir,
		"async_readback", o.pool.Enabled(),
		"shared_memory", o.seg != nil)
	return o, nil
}

// segGen disambiguates segment names across orchestrators and resizes
// within one process lifetime.
var segGen atomic.Uint64

// createSegment allocates a fresh uniquely named segment, or returns nil
// (with a single warning) when shared memory is unavailable; the
// pipeline then hands bytes to workers directly.
func (o *Orchestrator) createSegment(size int) *shmchannel.Segment {
	if o.disableShm || size <= 0 {
		return nil
	}
	name := fmt.Sprintf("chaser-capture-%d-%d", os.Getpid(), segGen.Add(1))
	seg, err := shmchannel.Create(name, size)
	if err != nil {
		slog.Warn("capture: shared memory unavailable, using direct byte hand-off",
			"error", err)
		o.disableShm = true
		return nil
	}
	return seg
}

// Stats returns a counter snapshot. Safe from any goroutine.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Triggered:         o.triggered.Load(),
		Completed:         o.completed.Load(),
		DroppedTriggers:   o.dropped.Load(),
		Encode:            o.encoders.Stats(),
		LastCaptureMicros: o.pool.LastCaptureMicros(),
		SharedMemory:      o.seg != nil,
	}
}

// Close tears the subsystem down in strict order: stop accepting
// triggers, drain the encode pool, then destroy the shared-memory
// segments, then release the GPU buffers. Idempotent.
func (o *Orchestrator) Close() {
	if !o.closed.CompareAndSwap(false, true) {
		return
	}

	o.encoders.Stop()
	o.cancel()

	if o.seg != nil {
		o.seg.Destroy()
		o.seg = nil
	}
	for _, seg := range o.retired {
		seg.Destroy()
	}
	o.retired = nil

	o.pool.Close()
	slog.Info("capture: orchestrator closed",
		"completed", o.completed.Load(), "dropped", o.dropped.Load())
}

// outputPath returns the file path a capture of screen/trigger would use
// right now. Two captures of the same screen and trigger within one
// millisecond would collide; the repeat gets a sequence suffix.
func (o *Orchestrator) outputPath(screen string, trig Trigger) string {
	name := filename(screen, trig, nowFunc())
	if name == o.lastName {
		o.nameSeq++
		name = fmt.Sprintf("%s_%d.png", strings.TrimSuffix(name, ".png"), o.nameSeq)
	} else {
		o.lastName = name
		o.nameSeq = 0
	}
	return filepath.Join(o.outputDir, name)
}
