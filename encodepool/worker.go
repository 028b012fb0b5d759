package encodepool

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"

	"github.com/e7canasta/chaser-game/shmchannel"
)

// encodeAndWrite runs the full worker pipeline for one job:
// fetch pixels, flip, encode, write atomically.
func encodeAndWrite(job Job) error {
	pixels, err := fetchPixels(job)
	if err != nil {
		return err
	}

	expected := job.Width * job.Height * 4
	if len(pixels) != expected {
		return fmt.Errorf("invalid RGBA data size: got %d, expected %d (%dx%d)",
			len(pixels), expected, job.Width, job.Height)
	}

	// Wrap without copying; pixels are owned by this worker now.
	img := &image.RGBA{
		Pix:    pixels,
		Stride: job.Width * 4,
		Rect:   image.Rect(0, 0, job.Width, job.Height),
	}

	// Readback rows arrive bottom-to-top in screen space.
	flipped := transform.FlipV(img)

	return writeAtomic(job.Path, flipped)
}

// fetchPixels resolves the job's pixel source: a borrowed shared-memory
// view (copied out, then detached) or the raw bytes passed directly.
func fetchPixels(job Job) ([]byte, error) {
	if job.SegmentName == "" {
		return job.Data, nil
	}

	view, err := shmchannel.Attach(job.SegmentName, job.ByteLength)
	if err != nil {
		return nil, fmt.Errorf("attach segment %q: %w", job.SegmentName, err)
	}
	defer view.Detach()

	pixels := make([]byte, job.ByteLength)
	copy(pixels, view.Bytes())
	return pixels, nil
}

// writeAtomic encodes img to a temp sibling and renames it into place,
// so a concurrent reader of the output directory never observes a
// partially written PNG.
func writeAtomic(path string, img image.Image) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("png encode: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
