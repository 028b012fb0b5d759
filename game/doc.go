// Package game holds the screen manager, the game screens and the small
// amount of state/arithmetic that drives them: a kitten chases a mouse,
// proximity drains the mouse's health and feeds the kitten's stamina,
// whoever runs out first loses.
//
// The package is deliberately free of rendering and windowing concerns:
// screens draw through a minimal Renderer and the manager reports screen
// transitions to a CaptureNotifier, which is how the capture subsystem
// learns when to fire automatic screenshots.
package game
