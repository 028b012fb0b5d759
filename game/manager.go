package game

import (
	"fmt"
	"log/slog"
)

// CaptureNotifier is the capture subsystem as seen from the screen
// manager: transition notifications and the manual hotkey. A nil
// notifier is valid and means captures are disabled.
type CaptureNotifier interface {
	TriggerManual()
	ScreenEntered(name string)
	ScreenExiting(name string)
}

// Manager keeps the registered screens, tracks the active one, and
// routes update/draw/input calls to it.
type Manager struct {
	screens    map[ScreenName]Screen
	active     Screen
	activeName ScreenName
	capture    CaptureNotifier
}

// NewManager creates a manager. capture may be nil.
func NewManager(capture CaptureNotifier) *Manager {
	return &Manager{
		screens: make(map[ScreenName]Screen),
		capture: capture,
	}
}

// Register adds a screen under name, replacing (with a warning) any
// previous registration.
func (m *Manager) Register(name ScreenName, screen Screen) {
	if _, exists := m.screens[name]; exists {
		slog.Warn("game: screen already registered, replacing", "screen", string(name))
	}
	m.screens[name] = screen
	slog.Debug("game: registered screen", "screen", string(name))
}

// SetActive transitions to the named screen: the outgoing screen is
// captured (exit) and exited, then the new screen is entered and its
// first frame queued for capture (enter).
func (m *Manager) SetActive(name ScreenName) error {
	next, ok := m.screens[name]
	if !ok {
		return fmt.Errorf("game: screen %q not registered", name)
	}

	if m.active != nil {
		slog.Debug("game: exiting screen", "screen", string(m.activeName))
		if m.capture != nil {
			m.capture.ScreenExiting(string(m.activeName))
		}
		m.active.OnExit()
	}

	m.active = next
	m.activeName = name
	slog.Info("game: transitioning to screen", "screen", string(name))
	m.active.OnEnter()
	if m.capture != nil {
		m.capture.ScreenEntered(string(name))
	}
	return nil
}

// ActiveName returns the active screen's name ("" before the first
// SetActive).
func (m *Manager) ActiveName() ScreenName { return m.activeName }

// Update advances the active screen by dt seconds.
func (m *Manager) Update(dt float64) {
	if m.active != nil {
		m.active.Update(dt)
	}
}

// Draw paints the active screen.
func (m *Manager) Draw(r Renderer) {
	if m.active != nil {
		m.active.Draw(r)
	}
}

// OnKeyPress handles global hotkeys, then routes the key to the active
// screen.
func (m *Manager) OnKeyPress(key Key) {
	if key == KeyCapture && m.capture != nil {
		m.capture.TriggerManual()
	}
	if m.active != nil {
		m.active.OnKeyPress(key)
	}
}
