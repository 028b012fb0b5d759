package game

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestVitalsTransferAtContact validates the zero-distance case: the full
// base drain rate flows from mouse to kitten, conserved exactly, while
// the kitten still pays its passive drain.
func TestVitalsTransferAtContact(t *testing.T) {
	cfg := DefaultConfig()
	mouse := Mouse{X: 100, Y: 100, Health: 50}
	kitten := Kitten{X: 100, Y: 100, Stamina: 50}

	UpdateVitals(&mouse, &kitten, cfg, 1.0)

	if !almostEqual(mouse.Health, 50-cfg.BaseDrainRate) {
		t.Errorf("mouse health = %.4f, want %.4f", mouse.Health, 50-cfg.BaseDrainRate)
	}
	wantStamina := 50 + cfg.BaseDrainRate - cfg.PassiveStaminaDrain
	if !almostEqual(kitten.Stamina, wantStamina) {
		t.Errorf("kitten stamina = %.4f, want %.4f", kitten.Stamina, wantStamina)
	}

	t.Logf("✅ contact transfers %.0f health/sec, minus %.0f passive drain",
		cfg.BaseDrainRate, cfg.PassiveStaminaDrain)
}

// TestVitalsTransferScalesWithProximity validates the linear falloff at
// half the catch range.
func TestVitalsTransferScalesWithProximity(t *testing.T) {
	cfg := DefaultConfig()
	mouse := Mouse{X: 0, Y: 0, Health: 100}
	kitten := Kitten{X: cfg.CatchRange / 2, Y: 0, Stamina: 50}

	UpdateVitals(&mouse, &kitten, cfg, 1.0)

	wantTransfer := cfg.BaseDrainRate * 0.5
	if !almostEqual(mouse.Health, 100-wantTransfer) {
		t.Errorf("mouse health = %.4f, want %.4f", mouse.Health, 100-wantTransfer)
	}
}

// TestVitalsNoTransferBeyondRange validates the cutoff: outside the
// catch range the mouse is safe and only the passive drain applies.
func TestVitalsNoTransferBeyondRange(t *testing.T) {
	cfg := DefaultConfig()
	mouse := Mouse{X: 0, Y: 0, Health: 80}
	kitten := Kitten{X: cfg.CatchRange + 1, Y: 0, Stamina: 60}

	UpdateVitals(&mouse, &kitten, cfg, 1.0)

	if !almostEqual(mouse.Health, 80) {
		t.Errorf("mouse health = %.4f, want unchanged 80", mouse.Health)
	}
	if !almostEqual(kitten.Stamina, 60-cfg.PassiveStaminaDrain) {
		t.Errorf("kitten stamina = %.4f, want %.4f", kitten.Stamina, 60-cfg.PassiveStaminaDrain)
	}
}

// TestVitalsClamping validates both bounds: health floors at zero,
// stamina ceils at max.
func TestVitalsClamping(t *testing.T) {
	cfg := DefaultConfig()
	mouse := Mouse{X: 50, Y: 50, Health: 1}
	kitten := Kitten{X: 50, Y: 50, Stamina: cfg.MaxStamina - 1}

	// A long step at contact would drive health far negative.
	UpdateVitals(&mouse, &kitten, cfg, 5.0)

	if mouse.Health != 0 {
		t.Errorf("mouse health = %.4f, want clamped to 0", mouse.Health)
	}
	if kitten.Stamina != cfg.MaxStamina {
		t.Errorf("kitten stamina = %.4f, want clamped to %.0f", kitten.Stamina, cfg.MaxStamina)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); !almostEqual(d, 5) {
		t.Errorf("Distance(0,0,3,4) = %.4f, want 5", d)
	}
	if d := Distance(10, 10, 10, 10); d != 0 {
		t.Errorf("Distance of identical points = %.4f, want 0", d)
	}
}

// TestRunningScreenLoseTransition simulates the chase until the kitten
// catches a stationary mouse, and checks the lose path transitions to
// the end screen.
func TestRunningScreenLoseTransition(t *testing.T) {
	cfg := DefaultConfig()
	state := NewStateMachine()
	m := NewManager(nil)

	running := NewRunningScreen(m, cfg, state)
	m.Register(ScreenGameRunning, running)
	m.Register(ScreenGameEnd, NewEndScreen(m, state))

	if err := m.SetActive(ScreenGameRunning); err != nil {
		t.Fatal(err)
	}

	// No steering: the kitten closes the gap and drains the mouse.
	// At 60fps the chase resolves well within 60 simulated seconds.
	const dt = 1.0 / 60.0
	for i := 0; i < 60*60 && m.ActiveName() == ScreenGameRunning; i++ {
		m.Update(dt)
	}

	if m.ActiveName() != ScreenGameEnd {
		t.Fatalf("game never ended; still on %q after 60s", m.ActiveName())
	}
	if !state.IsGameOver() {
		t.Fatal("state machine not in game-over")
	}
	if state.PlayerWon() {
		t.Error("stationary mouse should lose, not win")
	}

	t.Logf("✅ stationary mouse caught; final health %.1f", running.Mouse().Health)
}

// TestRunningScreenResetOnReenter validates the restart path: re-entering
// the running screen resets entities and the state machine.
func TestRunningScreenResetOnReenter(t *testing.T) {
	cfg := DefaultConfig()
	state := NewStateMachine()
	m := NewManager(nil)
	running := NewRunningScreen(m, cfg, state)
	m.Register(ScreenGameRunning, running)
	m.Register(ScreenGameEnd, NewEndScreen(m, state))

	state.Lose()
	if err := m.SetActive(ScreenGameRunning); err != nil {
		t.Fatal(err)
	}

	if !state.IsPlaying() {
		t.Error("re-enter did not reset the state machine")
	}
	if running.Mouse().Health != cfg.MaxHealth {
		t.Errorf("mouse health = %.1f after reset, want %.0f",
			running.Mouse().Health, cfg.MaxHealth)
	}
	if running.Kitten().Stamina != cfg.MaxStamina {
		t.Errorf("kitten stamina = %.1f after reset, want %.0f",
			running.Kitten().Stamina, cfg.MaxStamina)
	}
}

// TestRunningScreenPauseFreezesGame validates the pause toggle: while
// paused, entities stand still and vitals stop draining; a second press
// resumes play.
func TestRunningScreenPauseFreezesGame(t *testing.T) {
	cfg := DefaultConfig()
	state := NewStateMachine()
	m := NewManager(nil)
	running := NewRunningScreen(m, cfg, state)
	m.Register(ScreenGameRunning, running)
	m.Register(ScreenGameEnd, NewEndScreen(m, state))

	if err := m.SetActive(ScreenGameRunning); err != nil {
		t.Fatal(err)
	}

	m.OnKeyPress(KeyPause)
	if !state.IsPaused() {
		t.Fatal("pause key did not pause the game")
	}

	before := running.Kitten()
	m.Update(1.0)
	after := running.Kitten()
	if before.X != after.X || before.Y != after.Y || before.Stamina != after.Stamina {
		t.Errorf("kitten moved or drained while paused: %+v -> %+v", before, after)
	}
	if running.Mouse().Health != cfg.MaxHealth {
		t.Errorf("mouse health drained while paused: %.1f", running.Mouse().Health)
	}

	m.OnKeyPress(KeyPause)
	if !state.IsPlaying() {
		t.Fatal("second pause key did not resume the game")
	}
	m.Update(1.0)
	if running.Kitten().X == before.X && running.Kitten().Y == before.Y {
		t.Error("kitten did not move after resume")
	}

	t.Logf("✅ pause froze the chase, resume restarted it")
}

// TestPauseDoesNotReviveFinishedGame validates that the toggle only
// moves between playing and paused.
func TestPauseDoesNotReviveFinishedGame(t *testing.T) {
	state := NewStateMachine()
	state.Win()
	state.TogglePause()
	if !state.IsGameOver() {
		t.Error("pause toggle left the game-over state")
	}
}

// TestSplashAdvancesAfterTimeout validates the splash timer.
func TestSplashAdvancesAfterTimeout(t *testing.T) {
	m := NewManager(nil)
	m.Register(ScreenSplash, NewSplashScreen(m))
	m.Register(ScreenGameStart, NewStartScreen(m))

	if err := m.SetActive(ScreenSplash); err != nil {
		t.Fatal(err)
	}
	m.Update(1.0)
	if m.ActiveName() != ScreenSplash {
		t.Fatal("splash advanced too early")
	}
	m.Update(1.5)
	if m.ActiveName() != ScreenGameStart {
		t.Errorf("after 2.5s splash is still %q", m.ActiveName())
	}
}

// TestStartScreenEnterKey validates the start screen gate.
func TestStartScreenEnterKey(t *testing.T) {
	cfg := DefaultConfig()
	state := NewStateMachine()
	m := NewManager(nil)
	m.Register(ScreenGameStart, NewStartScreen(m))
	m.Register(ScreenGameRunning, NewRunningScreen(m, cfg, state))
	m.Register(ScreenGameEnd, NewEndScreen(m, state))

	if err := m.SetActive(ScreenGameStart); err != nil {
		t.Fatal(err)
	}
	m.OnKeyPress(KeyUp) // not a start key
	if m.ActiveName() != ScreenGameStart {
		t.Fatal("non-start key advanced the screen")
	}
	m.OnKeyPress(KeyEnter)
	if m.ActiveName() != ScreenGameRunning {
		t.Errorf("Enter did not start the game; on %q", m.ActiveName())
	}
}
