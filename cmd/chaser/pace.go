package main

import "time"

// frameBudget converts a target frame rate into the per-frame time
// budget used by pace.
func frameBudget(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / fps)
}

// pace sleeps out the remainder of the frame budget. Vsync usually caps
// the loop already; this keeps the rate near the configured target when
// the driver disables vsync or the monitor refreshes faster.
func pace(frameStart time.Time, budget time.Duration) {
	if remaining := budget - time.Since(frameStart); remaining > 0 {
		time.Sleep(remaining)
	}
}
