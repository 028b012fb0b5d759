// Package opengl implements framebuffer.GL against a real OpenGL
// context using the go-gl bindings. The v2.1 binding is the floor for
// pixel-pack buffer support, matching the capability check below.
//
// All calls require a current GL context on the calling thread.
package opengl

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
)

// Backend is the production framebuffer.GL implementation.
type Backend struct{}

// New loads the GL function pointers for the current context.
// Fails when no context is current on this thread.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init function pointers: %w", err)
	}
	return &Backend{}, nil
}

// PixelPackSupported reports GL >= 2.1 or GL_ARB_pixel_buffer_object.
func (b *Backend) PixelPackSupported() bool {
	version := gl.GoStr(gl.GetString(gl.VERSION))
	if major, minor, ok := parseVersion(version); ok {
		if major > 2 || (major == 2 && minor >= 1) {
			return true
		}
	}
	extensions := gl.GoStr(gl.GetString(gl.EXTENSIONS))
	return strings.Contains(extensions, "GL_ARB_pixel_buffer_object")
}

// parseVersion extracts "major.minor" from a GL_VERSION string such as
// "2.1 Mesa 23.0.4" or "4.6.0 NVIDIA 535.98".
func parseVersion(s string) (major, minor int, ok bool) {
	fields := strings.SplitN(strings.TrimSpace(s), " ", 2)
	parts := strings.Split(fields[0], ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

func (b *Backend) GenBuffers(n int) ([]uint32, error) {
	ids := make([]uint32, n)
	gl.GenBuffers(int32(n), &ids[0])
	if err := gl.GetError(); err != gl.NO_ERROR {
		return nil, fmt.Errorf("opengl: glGenBuffers: error 0x%04x", err)
	}
	return ids, nil
}

func (b *Backend) DeleteBuffers(ids []uint32) {
	if len(ids) == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(ids)), &ids[0])
}

func (b *Backend) BindPackBuffer(id uint32) {
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, id)
}

func (b *Backend) BufferData(size int) error {
	gl.BufferData(gl.PIXEL_PACK_BUFFER, size, nil, gl.STREAM_READ)
	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("opengl: glBufferData(%d bytes): error 0x%04x", size, err)
	}
	return nil
}

func (b *Backend) ReadPixelsAsync(x, y, width, height int) {
	// Offset 0 into the bound pack buffer; the driver transfers via DMA.
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.PtrOffset(0))
}

func (b *Backend) ReadPixelsSync(x, y, width, height int, dst []byte) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&dst[0]))
}

func (b *Backend) MapPackBuffer(size int) []byte {
	ptr := gl.MapBuffer(gl.PIXEL_PACK_BUFFER, gl.READ_ONLY)
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

func (b *Backend) UnmapPackBuffer() bool {
	return gl.UnmapBuffer(gl.PIXEL_PACK_BUFFER)
}
