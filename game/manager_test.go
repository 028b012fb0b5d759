package game

import "testing"

// recordingNotifier captures the transition notifications in order.
type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) TriggerManual()            { r.events = append(r.events, "manual") }
func (r *recordingNotifier) ScreenEntered(name string) { r.events = append(r.events, "enter:"+name) }
func (r *recordingNotifier) ScreenExiting(name string) { r.events = append(r.events, "exit:"+name) }

// stubScreen records its own lifecycle calls.
type stubScreen struct {
	entered, exited int
	updates         int
	keys            []Key
}

func (s *stubScreen) OnEnter()          { s.entered++ }
func (s *stubScreen) OnExit()           { s.exited++ }
func (s *stubScreen) Update(dt float64) { s.updates++ }
func (s *stubScreen) Draw(r Renderer)   {}
func (s *stubScreen) OnKeyPress(k Key)  { s.keys = append(s.keys, k) }

func TestSetActiveUnregisteredScreen(t *testing.T) {
	m := NewManager(nil)
	if err := m.SetActive(ScreenSplash); err == nil {
		t.Fatal("SetActive on an empty manager should fail")
	}
}

// TestTransitionOrdering validates the transition contract: the outgoing
// screen's exit notification fires while its last frame is still
// current, before OnExit, and the enter notification fires after the new
// screen's OnEnter prepared its state.
func TestTransitionOrdering(t *testing.T) {
	notifier := &recordingNotifier{}
	m := NewManager(notifier)

	a := &stubScreen{}
	b := &stubScreen{}
	m.Register(ScreenSplash, a)
	m.Register(ScreenGameStart, b)

	if err := m.SetActive(ScreenSplash); err != nil {
		t.Fatal(err)
	}
	if err := m.SetActive(ScreenGameStart); err != nil {
		t.Fatal(err)
	}

	want := []string{"enter:splash", "exit:splash", "enter:game_start"}
	if len(notifier.events) != len(want) {
		t.Fatalf("events = %v, want %v", notifier.events, want)
	}
	for i := range want {
		if notifier.events[i] != want[i] {
			t.Fatalf("events[%d] = %q, want %q", i, notifier.events[i], want[i])
		}
	}

	if a.entered != 1 || a.exited != 1 {
		t.Errorf("screen a: entered=%d exited=%d, want 1/1", a.entered, a.exited)
	}
	if b.entered != 1 || b.exited != 0 {
		t.Errorf("screen b: entered=%d exited=%d, want 1/0", b.entered, b.exited)
	}
	if m.ActiveName() != ScreenGameStart {
		t.Errorf("ActiveName = %q, want %q", m.ActiveName(), ScreenGameStart)
	}

	t.Logf("✅ transition fired %v in order", notifier.events)
}

// TestNilNotifierIsValid validates running with captures disabled: a nil
// notifier must not be dereferenced anywhere.
func TestNilNotifierIsValid(t *testing.T) {
	m := NewManager(nil)
	m.Register(ScreenSplash, &stubScreen{})
	if err := m.SetActive(ScreenSplash); err != nil {
		t.Fatal(err)
	}
	m.OnKeyPress(KeyCapture)
	m.Update(0.016)
}

// TestCaptureHotkeyIsGlobal validates that the screenshot hotkey reaches
// the notifier regardless of which screen is active, and that the key is
// still routed to the screen afterwards.
func TestCaptureHotkeyIsGlobal(t *testing.T) {
	notifier := &recordingNotifier{}
	m := NewManager(notifier)
	s := &stubScreen{}
	m.Register(ScreenGameRunning, s)
	if err := m.SetActive(ScreenGameRunning); err != nil {
		t.Fatal(err)
	}

	m.OnKeyPress(KeyCapture)
	m.OnKeyPress(KeyUp)

	manualCount := 0
	for _, e := range notifier.events {
		if e == "manual" {
			manualCount++
		}
	}
	if manualCount != 1 {
		t.Errorf("TriggerManual fired %d times, want 1", manualCount)
	}
	if len(s.keys) != 2 || s.keys[0] != KeyCapture || s.keys[1] != KeyUp {
		t.Errorf("screen received keys %v, want [KeyCapture KeyUp]", s.keys)
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	m := NewManager(nil)
	first := &stubScreen{}
	second := &stubScreen{}
	m.Register(ScreenSplash, first)
	m.Register(ScreenSplash, second)
	if err := m.SetActive(ScreenSplash); err != nil {
		t.Fatal(err)
	}
	if first.entered != 0 || second.entered != 1 {
		t.Errorf("replacement not effective: first entered=%d, second entered=%d",
			first.entered, second.entered)
	}
}

// TestUpdateBeforeFirstScreen validates the pre-activation window: the
// shell may tick before any screen is active.
func TestUpdateBeforeFirstScreen(t *testing.T) {
	m := NewManager(nil)
	m.Update(0.016)
	m.OnKeyPress(KeyEnter)
	if m.ActiveName() != "" {
		t.Errorf("ActiveName = %q before any SetActive, want empty", m.ActiveName())
	}
}
