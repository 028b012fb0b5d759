//go:build linux || darwin

package shmchannel

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Segment is the owning handle of a shared memory segment.
//
// Exactly one Segment exists per named region. Destroy() must be called
// once at teardown; a second call is logged and ignored rather than
// treated as fatal (a capture subsystem failing should never take down
// the render loop).
type Segment struct {
	name string
	path string
	size int
	data []byte

	destroyed atomic.Bool
}

// View is a read-only borrower mapping of an existing segment.
type View struct {
	data     []byte
	detached atomic.Bool
}

// shmDir returns the directory used to back named segments.
// /dev/shm gives true shared memory on Linux; elsewhere a tmpfs-less
// temp dir still yields a correct (if slower) shared mapping.
func shmDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

func segmentPath(name string) string {
	return filepath.Join(shmDir(), name)
}

func create(name string, size int) (*Segment, error) {
	if name == "" {
		return nil, fmt.Errorf("shmchannel: segment name is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("shmchannel: invalid segment size %d", size)
	}

	path := segmentPath(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shmchannel: create %s: %w", path, err)
	}
	// File descriptor is only needed to establish the mapping; the
	// mapping itself survives the close.
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("shmchannel: size %s to %d bytes: %w", path, size, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("shmchannel: mmap %s: %w", path, err)
	}

	slog.Debug("shm: segment created", "name", name, "size", size)
	return &Segment{name: name, path: path, size: size, data: data}, nil
}

// Name returns the segment identifier receivers attach with.
func (s *Segment) Name() string { return s.name }

// Size returns the segment capacity in bytes.
func (s *Segment) Size() int { return s.size }

// Publish copies p into the segment at offset 0.
//
// Single-writer contract: the caller guarantees no borrower is reading
// concurrently (at most one capture in flight upstream).
func (s *Segment) Publish(p []byte) error {
	if s.destroyed.Load() {
		return ErrDestroyed
	}
	if len(p) > s.size {
		return fmt.Errorf("%w: %d > %d", ErrSizeExceeded, len(p), s.size)
	}
	copy(s.data, p)
	return nil
}

// Destroy unmaps and unlinks the segment.
//
// Must be called after all borrower reads have completed (strict
// teardown ordering: stop the encode pool first). A second Destroy is
// logged and ignored.
func (s *Segment) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		slog.Warn("shm: double destroy ignored", "name", s.name)
		return
	}
	if err := unix.Munmap(s.data); err != nil {
		slog.Error("shm: munmap failed", "name", s.name, "error", err)
	}
	s.data = nil
	if err := os.Remove(s.path); err != nil {
		slog.Error("shm: unlink failed", "path", s.path, "error", err)
	}
	slog.Debug("shm: segment destroyed", "name", s.name)
}

func attach(name string, size int) (*View, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shmchannel: invalid attach size %d", size)
	}

	path := segmentPath(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shmchannel: attach %s: %w", path, err)
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shmchannel: mmap %s read-only: %w", path, err)
	}

	return &View{data: data}, nil
}

// Bytes returns the mapped region. Read-only: the mapping is PROT_READ,
// writes through it fault.
func (v *View) Bytes() []byte { return v.data }

// Detach drops the borrower mapping. It never unlinks the segment; the
// owner's Destroy() does that. Idempotent.
func (v *View) Detach() {
	if !v.detached.CompareAndSwap(false, true) {
		return
	}
	if err := unix.Munmap(v.data); err != nil {
		slog.Error("shm: view munmap failed", "error", err)
	}
	v.data = nil
}
