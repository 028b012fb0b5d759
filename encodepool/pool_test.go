package encodepool_test

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/e7canasta/chaser-game/encodepool"
	"github.com/e7canasta/chaser-game/shmchannel"
)

// testFrame builds a width×height RGBA frame whose red channel encodes
// the row index, so a vertical flip is detectable per pixel.
func testFrame(width, height int) []byte {
	data := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			data[i+0] = byte(y) // R marks the source row
			data[i+1] = byte(x)
			data[i+2] = 0
			data[i+3] = 255
		}
	}
	return data
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

// TestEncodeFlipsVertically validates the worker pipeline end to end:
// raw RGBA in, PNG out, with GL's bottom-up rows flipped to image order.
//
// The input marks each pixel's source row in its red channel; after the
// flip, the top image row must carry the highest source row index.
func TestEncodeFlipsVertically(t *testing.T) {
	const width, height = 4, 3
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")

	pool := encodepool.New(1)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if !pool.Submit(encodepool.Job{
		Data:   testFrame(width, height),
		Width:  width,
		Height: height,
		Path:   path,
	}) {
		t.Fatal("Submit() refused the job")
	}
	pool.Stop()

	img := decodePNG(t, path)
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		t.Fatalf("decoded %dx%d, want %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), width, height)
	}

	for y := 0; y < height; y++ {
		r, _, _, _ := img.At(0, y).RGBA()
		wantRow := height - 1 - y
		if int(r>>8) != wantRow {
			t.Errorf("image row %d came from source row %d, want %d", y, r>>8, wantRow)
		}
	}

	stats := pool.Stats()
	if stats.Completed != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 1 completed, 0 failed", stats)
	}

	t.Logf("✅ %dx%d frame flipped and written to %s", width, height, path)
}

// TestSharedMemoryJobMatchesDirectJob validates fallback equivalence:
// the zero-copy path and the direct-bytes path produce byte-identical
// PNG files for identical pixel input.
func TestSharedMemoryJobMatchesDirectJob(t *testing.T) {
	const width, height = 6, 4
	frame := testFrame(width, height)
	dir := t.TempDir()
	directPath := filepath.Join(dir, "direct.png")
	shmPath := filepath.Join(dir, "shm.png")

	segName := fmt.Sprintf("encodetest-%d", os.Getpid())
	seg, err := shmchannel.Create(segName, len(frame))
	if err != nil {
		t.Skipf("shared memory unavailable: %v", err)
	}
	if err := seg.Publish(frame); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	pool := encodepool.New(1)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	pool.Submit(encodepool.Job{Data: frame, Width: width, Height: height, Path: directPath})
	pool.Submit(encodepool.Job{
		SegmentName: segName, ByteLength: len(frame),
		Width: width, Height: height, Path: shmPath,
	})
	pool.Stop()
	// Teardown ordering: segment destroyed only after the pool drained.
	seg.Destroy()

	direct, err := os.ReadFile(directPath)
	if err != nil {
		t.Fatalf("read direct output: %v", err)
	}
	viaShm, err := os.ReadFile(shmPath)
	if err != nil {
		t.Fatalf("read shm output: %v", err)
	}
	if string(direct) != string(viaShm) {
		t.Error("zero-copy path and direct path produced different PNG bytes")
	}

	t.Logf("✅ both transfer paths produced identical %d-byte PNGs", len(direct))
}

// TestWorkerErrorIsolation validates that a bad job is counted, logged,
// and does not affect the next job or crash the pool.
func TestWorkerErrorIsolation(t *testing.T) {
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "good.png")

	pool := encodepool.New(1)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Wrong byte length for the claimed dimensions.
	pool.Submit(encodepool.Job{
		Data: make([]byte, 10), Width: 4, Height: 3,
		Path: filepath.Join(dir, "bad.png"),
	})
	// Unreachable destination directory.
	pool.Submit(encodepool.Job{
		Data: testFrame(2, 2), Width: 2, Height: 2,
		Path: filepath.Join(dir, "missing", "nested", "bad.png"),
	})
	// A healthy job right behind the failures.
	pool.Submit(encodepool.Job{
		Data: testFrame(2, 2), Width: 2, Height: 2, Path: goodPath,
	})
	pool.Stop()

	stats := pool.Stats()
	if stats.Failed != 2 {
		t.Errorf("Failed = %d, want 2", stats.Failed)
	}
	if stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", stats.Completed)
	}
	if _, err := os.Stat(goodPath); err != nil {
		t.Errorf("healthy job after failures did not produce output: %v", err)
	}
}

// TestSubmitNonBlockingBackpressure validates drop-on-full: jobs beyond
// the queue capacity are refused immediately, never queued unboundedly
// and never blocking the caller.
func TestSubmitNonBlockingBackpressure(t *testing.T) {
	dir := t.TempDir()
	pool := encodepool.New(1)
	// Not started: nothing drains the queue, so capacity fills exactly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accepted, refused := 0, 0
	start := time.Now()
	for i := 0; i < 50; i++ {
		job := encodepool.Job{
			Data: testFrame(2, 2), Width: 2, Height: 2,
			Path: filepath.Join(dir, fmt.Sprintf("f%02d.png", i)),
		}
		if pool.Submit(job) {
			accepted++
		} else {
			refused++
		}
	}
	elapsed := time.Since(start)

	if refused == 0 {
		t.Fatal("no submissions refused despite unserviced queue")
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("50 submissions took %v, Submit must not block", elapsed)
	}

	stats := pool.Stats()
	if stats.Dropped != uint64(refused) {
		t.Errorf("Dropped = %d, want %d", stats.Dropped, refused)
	}

	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	pool.Stop()

	t.Logf("✅ accepted %d, refused %d in %v", accepted, refused, elapsed)
}

// TestNoTempFilesLeftBehind validates atomic writes: after completion
// only final .png files exist, no .tmp siblings.
func TestNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	pool := encodepool.New(2)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		pool.Submit(encodepool.Job{
			Data: testFrame(3, 3), Width: 3, Height: 3,
			Path: filepath.Join(dir, fmt.Sprintf("f%d.png", i)),
		})
	}
	pool.Stop()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

// TestSubmitAfterStopDrops validates lifecycle: a stopped pool refuses
// work instead of panicking on a closed channel.
func TestSubmitAfterStopDrops(t *testing.T) {
	pool := encodepool.New(1)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	pool.Stop()

	if pool.Submit(encodepool.Job{Data: testFrame(2, 2), Width: 2, Height: 2, Path: "x.png"}) {
		t.Fatal("Submit() accepted a job after Stop()")
	}
	if err := pool.Start(context.Background()); err == nil {
		t.Error("second Start() succeeded")
	}
}
