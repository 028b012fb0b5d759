package framebuffer

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// bytesPerPixel is fixed: readbacks are always RGBA8.
const bytesPerPixel = 4

// DefaultSlotCount is the ping-pong pair: one slot receiving this
// frame's transfer while the other's completed result is mapped.
const DefaultSlotCount = 2

// Config carries pool construction parameters.
type Config struct {
	// Width and Height of the frames to capture, in pixels.
	Width  int
	Height int
	// SlotCount is the number of pack buffers to cycle.
	// Zero means DefaultSlotCount.
	SlotCount int
}

// Pool owns a fixed set of GPU pixel-pack buffers and drives the
// two-phase capture protocol over them.
//
// Invariant: pendingRead is always the slot filled by the most recent
// StartCapture, and is only mapped by a later EndCapture, one render
// cycle after the transfer was issued.
type Pool struct {
	gl GL

	width     int
	height    int
	slotCount int
	rowStride int
	byteSize  int

	slots      []uint32
	writeIndex int
	// pendingRead is the slot index recorded by StartCapture for the
	// next EndCapture; -1 means no transfer is outstanding.
	pendingRead int

	disabled bool

	lastCaptureMicros atomic.Int64
}

// New builds a pool for the given dimensions.
//
// Fails soft: with a nil backend, missing pixel-pack support, or a
// failed allocation the pool logs and disables itself instead of
// returning an error; captures then silently produce no data.
func New(gl GL, cfg Config) *Pool {
	if cfg.SlotCount <= 0 {
		cfg.SlotCount = DefaultSlotCount
	}

	p := &Pool{
		gl:          gl,
		slotCount:   cfg.SlotCount,
		pendingRead: -1,
	}
	p.setDimensions(cfg.Width, cfg.Height)

	if gl == nil {
		slog.Warn("framebuffer: no GL backend, asynchronous capture unavailable")
		p.disabled = true
		return p
	}
	if !gl.PixelPackSupported() {
		slog.Warn("framebuffer: pixel-pack buffers not supported, asynchronous capture unavailable")
		p.disabled = true
		return p
	}

	if err := p.allocate(); err != nil {
		slog.Error("framebuffer: buffer allocation failed", "error", err)
		p.disabled = true
	}
	return p
}

// Enabled reports whether the pool can produce data.
func (p *Pool) Enabled() bool { return !p.disabled }

// Width returns the current frame width in pixels.
func (p *Pool) Width() int { return p.width }

// Height returns the current frame height in pixels.
func (p *Pool) Height() int { return p.height }

// ByteSize returns the size of one captured frame (width*height*4).
func (p *Pool) ByteSize() int { return p.byteSize }

// LastCaptureMicros returns the elapsed time of the most recent
// EndCapture map-and-copy, in microseconds.
func (p *Pool) LastCaptureMicros() int64 { return p.lastCaptureMicros.Load() }

func (p *Pool) setDimensions(width, height int) {
	p.width = width
	p.height = height
	p.rowStride = width * bytesPerPixel
	p.byteSize = p.rowStride * height
}

func (p *Pool) allocate() error {
	ids, err := p.gl.GenBuffers(p.slotCount)
	if err != nil {
		return fmt.Errorf("gen %d buffers: %w", p.slotCount, err)
	}
	for _, id := range ids {
		p.gl.BindPackBuffer(id)
		if err := p.gl.BufferData(p.byteSize); err != nil {
			p.gl.BindPackBuffer(0)
			p.gl.DeleteBuffers(ids)
			return fmt.Errorf("allocate %d bytes for buffer %d: %w", p.byteSize, id, err)
		}
	}
	p.gl.BindPackBuffer(0)

	p.slots = ids
	p.writeIndex = 0
	p.pendingRead = -1
	slog.Info("framebuffer: initialized pack buffers",
		"slots", p.slotCount, "bytes_per_slot", p.byteSize,
		"width", p.width, "height", p.height)
	return nil
}

// Resize reallocates all slots for new dimensions.
//
// Unchanged dimensions are a no-op (buffer handles survive untouched).
// Old handles are released before new ones are created: no leak, no
// double free. An outstanding transfer is discarded; its slot no longer
// exists. Allocation failure disables the pool until the next Resize.
func (p *Pool) Resize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	if p.gl == nil {
		p.setDimensions(width, height)
		return
	}

	if len(p.slots) > 0 {
		p.gl.DeleteBuffers(p.slots)
		p.slots = nil
	}
	p.setDimensions(width, height)
	p.pendingRead = -1
	p.writeIndex = 0

	if !p.gl.PixelPackSupported() {
		p.disabled = true
		return
	}
	if err := p.allocate(); err != nil {
		slog.Error("framebuffer: reallocation failed, captures disabled until next resize",
			"width", width, "height", height, "error", err)
		p.disabled = true
		return
	}
	p.disabled = false
}

// StartCapture issues a non-blocking readback of the bound framebuffer
// into the next slot and records it for the following EndCapture.
//
// Returns immediately (the transfer runs via DMA); sub-millisecond cost.
// Returns false when the pool is disabled.
func (p *Pool) StartCapture() bool {
	if p.disabled || len(p.slots) == 0 {
		return false
	}

	p.writeIndex = (p.writeIndex + 1) % p.slotCount
	slot := p.slots[p.writeIndex]

	p.gl.BindPackBuffer(slot)
	p.gl.ReadPixelsAsync(0, 0, p.width, p.height)
	p.gl.BindPackBuffer(0)

	p.pendingRead = p.writeIndex
	return true
}

// EndCapture maps the slot recorded by the immediately preceding
// StartCapture and copies its full byte range out.
//
// Must be called one render cycle after StartCapture so the DMA transfer
// has had a frame to complete. With no outstanding transfer it returns
// (nil, false), never garbage or a stale frame. The pending marker is
// cleared either way.
func (p *Pool) EndCapture() ([]byte, bool) {
	if p.disabled || p.pendingRead < 0 {
		return nil, false
	}

	start := time.Now()
	slot := p.slots[p.pendingRead]
	p.pendingRead = -1

	p.gl.BindPackBuffer(slot)
	mapped := p.gl.MapPackBuffer(p.byteSize)
	if mapped == nil {
		p.gl.BindPackBuffer(0)
		slog.Warn("framebuffer: map failed, capture dropped", "slot", slot)
		return nil, false
	}

	data := make([]byte, p.byteSize)
	copy(data, mapped)

	if !p.gl.UnmapPackBuffer() {
		// Contents were corrupted while mapped (e.g. mode switch).
		p.gl.BindPackBuffer(0)
		slog.Warn("framebuffer: unmap reported corruption, capture dropped", "slot", slot)
		return nil, false
	}
	p.gl.BindPackBuffer(0)

	p.lastCaptureMicros.Store(time.Since(start).Microseconds())
	return data, true
}

// ReadSync performs an immediate, blocking readback bypassing the pack
// buffers. Used when no later frame exists to complete a deferred
// transfer (screen teardown). Works even while a transfer is pending;
// the pending transfer is unaffected.
func (p *Pool) ReadSync() ([]byte, bool) {
	if p.gl == nil || p.byteSize == 0 {
		return nil, false
	}

	data := make([]byte, p.byteSize)
	p.gl.BindPackBuffer(0)
	p.gl.ReadPixelsSync(0, 0, p.width, p.height, data)
	return data, true
}

// Close releases all GPU buffer handles. The pool is unusable afterwards.
func (p *Pool) Close() {
	if p.gl != nil && len(p.slots) > 0 {
		p.gl.DeleteBuffers(p.slots)
	}
	p.slots = nil
	p.pendingRead = -1
	p.disabled = true
}
