// Package gltest provides an in-memory framebuffer.GL implementation
// for tests. It models the driver behavior the pool relies on: an async
// readback lands in the bound pack buffer and is only observable through
// a later map, so one-cycle-late reads can be verified exactly.
package gltest

import "fmt"

// Fake implements framebuffer.GL without a rendering context.
//
// The "screen" is whatever Frame holds at the moment ReadPixelsAsync or
// ReadPixelsSync runs; tests mutate Frame between calls to simulate
// successive rendered frames.
type Fake struct {
	// Frame is the current simulated framebuffer content. If its length
	// does not match a requested readback, the readback is padded or
	// truncated, matching a driver's indifference.
	Frame []byte

	// SupportPixelPack toggles the capability check (default true via New).
	SupportPixelPack bool

	// FailMap makes the next MapPackBuffer return nil.
	FailMap bool

	// FailBufferData makes BufferData return an error (allocation failure).
	FailBufferData bool

	buffers map[uint32][]byte
	nextID  uint32
	bound   uint32
	mapped  bool

	// Counters for contract assertions.
	GenCalls    int
	DeleteCalls int
	Deleted     []uint32
	AsyncReads  int
	SyncReads   int
}

// New returns a Fake with pixel-pack support enabled.
func New() *Fake {
	return &Fake{
		SupportPixelPack: true,
		buffers:          make(map[uint32][]byte),
		nextID:           1,
	}
}

// SetFrame replaces the simulated framebuffer content.
func (f *Fake) SetFrame(data []byte) { f.Frame = data }

// LiveBuffers returns the number of allocated, undeleted handles.
func (f *Fake) LiveBuffers() int { return len(f.buffers) }

func (f *Fake) PixelPackSupported() bool { return f.SupportPixelPack }

func (f *Fake) GenBuffers(n int) ([]uint32, error) {
	f.GenCalls++
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = f.nextID
		f.buffers[f.nextID] = nil
		f.nextID++
	}
	return ids, nil
}

func (f *Fake) DeleteBuffers(ids []uint32) {
	f.DeleteCalls++
	for _, id := range ids {
		delete(f.buffers, id)
		f.Deleted = append(f.Deleted, id)
	}
}

func (f *Fake) BindPackBuffer(id uint32) {
	if id != 0 {
		if _, ok := f.buffers[id]; !ok {
			panic(fmt.Sprintf("gltest: bind of unknown buffer %d", id))
		}
	}
	f.bound = id
}

func (f *Fake) BufferData(size int) error {
	if f.FailBufferData {
		return fmt.Errorf("gltest: simulated allocation failure (%d bytes)", size)
	}
	if f.bound == 0 {
		panic("gltest: BufferData with no pack buffer bound")
	}
	f.buffers[f.bound] = make([]byte, size)
	return nil
}

// ReadPixelsAsync snapshots Frame into the bound pack buffer, the way
// the DMA transfer would by the next frame.
func (f *Fake) ReadPixelsAsync(x, y, width, height int) {
	if f.bound == 0 {
		panic("gltest: async read with no pack buffer bound")
	}
	f.AsyncReads++
	dst := f.buffers[f.bound]
	copy(dst, f.Frame)
}

func (f *Fake) ReadPixelsSync(x, y, width, height int, dst []byte) {
	if f.bound != 0 {
		panic("gltest: sync read with a pack buffer bound")
	}
	f.SyncReads++
	copy(dst, f.Frame)
}

func (f *Fake) MapPackBuffer(size int) []byte {
	if f.bound == 0 {
		panic("gltest: map with no pack buffer bound")
	}
	if f.FailMap {
		f.FailMap = false
		return nil
	}
	f.mapped = true
	buf := f.buffers[f.bound]
	if len(buf) >= size {
		return buf[:size]
	}
	return buf
}

func (f *Fake) UnmapPackBuffer() bool {
	f.mapped = false
	return true
}
