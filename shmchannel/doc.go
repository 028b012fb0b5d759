// Package shmchannel provides a zero-copy handoff channel for one frame of
// pixel data, backed by a named POSIX shared memory segment.
//
// # Ownership Model
//
// The segment has exactly one owner and any number of borrowers:
//
//   - Segment (owner): created with Create(), written with Publish(),
//     released with Destroy(). The owner is the only party allowed to
//     unlink the underlying OS resource.
//   - View (borrower): opened with Attach(), read with Bytes(), released
//     with Detach(). A View holds a read-only mapping and can never
//     destroy the segment, only drop its own mapping.
//
// This split is the type-level expression of the single-writer contract:
// the render thread publishes, encode workers attach-read-detach.
//
// # Concurrency Contract
//
// Publish() and a borrower's copy-out are never concurrent for the same
// logical frame because the capture orchestrator allows at most one
// capture in flight. The channel itself performs no synchronization;
// relaxing the single-flight rule upstream would require adding it here.
//
// # Degradation
//
// On platforms without shared memory support Create returns
// ErrUnavailable. Callers fall back to passing pixel bytes directly,
// which is always correct, just one extra copy per frame.
package shmchannel
