package framebuffer

// GL abstracts the handful of driver operations the pool needs. The real
// implementation lives in framebuffer/opengl; tests substitute a fake so
// the two-phase contract can be verified without a rendering context.
//
// All methods are render-thread only, matching the pool itself.
type GL interface {
	// PixelPackSupported reports whether asynchronous pixel-pack
	// buffers are usable (GL >= 2.1 or the ARB extension).
	PixelPackSupported() bool

	// GenBuffers allocates n buffer handles.
	GenBuffers(n int) ([]uint32, error)

	// DeleteBuffers releases previously allocated handles.
	DeleteBuffers(ids []uint32)

	// BindPackBuffer binds id as the pixel-pack target; id 0 unbinds.
	BindPackBuffer(id uint32)

	// BufferData allocates size bytes of STREAM_READ storage for the
	// currently bound pack buffer.
	BufferData(size int) error

	// ReadPixelsAsync issues a non-blocking RGBA readback of the given
	// rectangle into the currently bound pack buffer. Returns
	// immediately; the transfer proceeds via DMA.
	ReadPixelsAsync(x, y, width, height int)

	// ReadPixelsSync performs an immediate RGBA readback into dst.
	// No pack buffer may be bound. Blocks until the pixels arrive.
	ReadPixelsSync(x, y, width, height int, dst []byte)

	// MapPackBuffer maps the bound pack buffer read-only and returns a
	// size-byte view, or nil if the driver refuses the mapping.
	MapPackBuffer(size int) []byte

	// UnmapPackBuffer releases the mapping established by MapPackBuffer.
	// Returns false if the buffer contents were corrupted while mapped.
	UnmapPackBuffer() bool
}
