// Package framebuffer manages asynchronous GPU-to-CPU pixel transfers
// using a pool of pixel-pack buffers, without stalling the caller.
//
// # Two-Phase Protocol
//
// A capture is split across frame boundaries:
//
//	frame N:   StartCapture()  issue a non-blocking readback into slot B
//	frame N+1: EndCapture()    map slot B (DMA completed during the
//	                           intervening frame) and copy the bytes out
//
// "Waiting" for DMA completion is structural (the result is read one
// render cycle late), so neither call ever blocks on the GPU. The calls
// must alternate across frames for this to hold; EndCapture without a
// preceding unmatched StartCapture returns no data, never stale bytes.
//
// ReadSync() is the immediate escape hatch for the one case with no next
// frame (capturing a screen as it is being torn down).
//
// # Degradation
//
// The pool fails soft. Without a GL backend, or on drivers lacking
// pixel-pack buffer support, it logs one warning and disables itself;
// every later call is a no-op reporting "no data".
//
// # Thread Model
//
// All methods must be called from the render thread that owns the GL
// context. The pool performs no locking of its own.
package framebuffer
