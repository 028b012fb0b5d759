package game

import (
	"log/slog"
	"math"
)

// splashDuration is how long the splash screen holds before moving on.
const splashDuration = 2.0

// SplashScreen shows the logo briefly, then advances to the start screen.
type SplashScreen struct {
	manager *Manager
	elapsed float64
}

func NewSplashScreen(m *Manager) *SplashScreen { return &SplashScreen{manager: m} }

func (s *SplashScreen) OnEnter() { s.elapsed = 0 }
func (s *SplashScreen) OnExit()  {}

func (s *SplashScreen) Update(dt float64) {
	s.elapsed += dt
	if s.elapsed >= splashDuration {
		if err := s.manager.SetActive(ScreenGameStart); err != nil {
			slog.Error("game: splash transition failed", "error", err)
		}
	}
}

func (s *SplashScreen) Draw(r Renderer) {
	r.Clear(ColorBackground)
	// Centered logo block.
	r.Rect(300, 250, 200, 100, ColorAccent)
}

func (s *SplashScreen) OnKeyPress(key Key) {
	// Any key skips the splash.
	s.elapsed = splashDuration
}

// StartScreen waits for the player to begin.
type StartScreen struct {
	manager *Manager
}

func NewStartScreen(m *Manager) *StartScreen { return &StartScreen{manager: m} }

func (s *StartScreen) OnEnter()          {}
func (s *StartScreen) OnExit()           {}
func (s *StartScreen) Update(dt float64) {}

func (s *StartScreen) Draw(r Renderer) {
	r.Clear(ColorBackground)
	r.Rect(250, 400, 300, 60, ColorAccent)
	r.Rect(350, 180, 100, 40, ColorPlayer)
}

func (s *StartScreen) OnKeyPress(key Key) {
	if key == KeyEnter || key == KeySpace {
		if err := s.manager.SetActive(ScreenGameRunning); err != nil {
			slog.Error("game: start transition failed", "error", err)
		}
	}
}

// RunningScreen is the gameplay screen: the kitten chases the mouse, the
// player steers the mouse, vitals drain until someone gives out.
type RunningScreen struct {
	manager *Manager
	cfg     Config
	state   *StateMachine

	mouse  Mouse
	kitten Kitten

	// Mouse velocity direction, set by the arrow keys.
	dirX, dirY float64
}

func NewRunningScreen(m *Manager, cfg Config, state *StateMachine) *RunningScreen {
	return &RunningScreen{manager: m, cfg: cfg, state: state}
}

func (s *RunningScreen) OnEnter() {
	s.state.Reset()
	s.mouse = Mouse{
		X:      s.cfg.Width / 3,
		Y:      s.cfg.Height / 2,
		Health: s.cfg.MaxHealth,
	}
	s.kitten = Kitten{
		X:       s.cfg.Width * 2 / 3,
		Y:       s.cfg.Height / 2,
		Stamina: s.cfg.MaxStamina,
	}
	s.dirX, s.dirY = 0, 0
}

func (s *RunningScreen) OnExit() {}

func (s *RunningScreen) Update(dt float64) {
	if !s.state.IsPlaying() {
		return
	}

	mouseSpeed := s.cfg.Width / s.cfg.TraversalTime
	kittenSpeed := mouseSpeed / s.cfg.KittenSpeedFactor

	// Player-steered mouse, clamped to the window.
	s.mouse.X = clamp(s.mouse.X+s.dirX*mouseSpeed*dt, 0, s.cfg.Width)
	s.mouse.Y = clamp(s.mouse.Y+s.dirY*mouseSpeed*dt, 0, s.cfg.Height)

	// Kitten homes on the mouse. A small dead zone prevents jitter.
	dx, dy := s.mouse.X-s.kitten.X, s.mouse.Y-s.kitten.Y
	if dist := math.Hypot(dx, dy); dist > 2.0 {
		s.kitten.X += dx / dist * kittenSpeed * dt
		s.kitten.Y += dy / dist * kittenSpeed * dt
	}

	UpdateVitals(&s.mouse, &s.kitten, s.cfg, dt)

	if s.mouse.Health <= 0 {
		s.state.Lose()
	} else if s.kitten.Stamina <= 0 {
		s.state.Win()
	}
	if s.state.IsGameOver() {
		if err := s.manager.SetActive(ScreenGameEnd); err != nil {
			slog.Error("game: end transition failed", "error", err)
		}
	}
}

func (s *RunningScreen) Draw(r Renderer) {
	r.Clear(ColorBackground)

	r.Rect(s.mouse.X-10, s.mouse.Y-10, 20, 20, ColorPlayer)
	r.Rect(s.kitten.X-15, s.kitten.Y-15, 30, 30, ColorEnemy)

	// Vitals bars above each entity.
	r.Rect(s.mouse.X-25, s.mouse.Y+20, 50*s.mouse.Health/s.cfg.MaxHealth, 5,
		healthColor(s.mouse.Health, s.cfg.MaxHealth))
	r.Rect(s.kitten.X-25, s.kitten.Y+25, 50*s.kitten.Stamina/s.cfg.MaxStamina, 5,
		ColorAccent)
}

func (s *RunningScreen) OnKeyPress(key Key) {
	switch key {
	case KeyPause:
		s.state.TogglePause()
	case KeyUp:
		s.dirX, s.dirY = 0, 1
	case KeyDown:
		s.dirX, s.dirY = 0, -1
	case KeyLeft:
		s.dirX, s.dirY = -1, 0
	case KeyRight:
		s.dirX, s.dirY = 1, 0
	case KeySpace:
		s.dirX, s.dirY = 0, 0
	}
}

// Mouse returns the player entity (for tests and overlays).
func (s *RunningScreen) Mouse() Mouse { return s.mouse }

// Kitten returns the chaser entity (for tests and overlays).
func (s *RunningScreen) Kitten() Kitten { return s.kitten }

// EndScreen shows the outcome and offers a restart.
type EndScreen struct {
	manager *Manager
	state   *StateMachine
}

func NewEndScreen(m *Manager, state *StateMachine) *EndScreen {
	return &EndScreen{manager: m, state: state}
}

func (s *EndScreen) OnEnter()          {}
func (s *EndScreen) OnExit()           {}
func (s *EndScreen) Update(dt float64) {}

func (s *EndScreen) Draw(r Renderer) {
	r.Clear(ColorBackground)
	c := ColorHealthCritical
	if s.state.PlayerWon() {
		c = ColorHealthGood
	}
	r.Rect(300, 250, 200, 100, c)
}

func (s *EndScreen) OnKeyPress(key Key) {
	if key == KeyEnter || key == KeySpace {
		if err := s.manager.SetActive(ScreenGameStart); err != nil {
			slog.Error("game: restart transition failed", "error", err)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func healthColor(health, max float64) Color {
	switch {
	case health <= 0.15*max:
		return ColorHealthCritical
	case health <= 0.30*max:
		return ColorHealthLow
	default:
		return ColorHealthGood
	}
}
