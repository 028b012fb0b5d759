package game

// ScreenName identifies a registered screen. The name is also what the
// capture subsystem embeds in screenshot filenames.
type ScreenName string

const (
	ScreenSplash      ScreenName = "splash"
	ScreenGameStart   ScreenName = "game_start"
	ScreenGameRunning ScreenName = "game_running"
	ScreenGameEnd     ScreenName = "game_end"
)

// Key is a windowing-system-independent key code. The application shell
// maps real key events onto these.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeySpace
	KeyEscape
	// KeyCapture is the designated screenshot hotkey (Insert on the keyboard).
	KeyCapture
	// KeyPause toggles the running game between playing and paused (P).
	KeyPause
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Color is an 8-bit RGB triple.
type Color struct{ R, G, B uint8 }

// Palette, minimalist dark theme.
var (
	ColorBackground     = Color{15, 23, 42}
	ColorPlayer         = Color{255, 255, 255}
	ColorEnemy          = Color{231, 76, 60}
	ColorAccent         = Color{52, 152, 219}
	ColorHealthGood     = Color{46, 204, 113}
	ColorHealthLow      = Color{243, 156, 18}
	ColorHealthCritical = Color{231, 76, 60}
)

// Renderer is the minimal drawing surface screens paint on.
type Renderer interface {
	Clear(c Color)
	Rect(x, y, w, h float64, c Color)
}

// Screen is one game screen with its own lifecycle.
//
// OnEnter/OnExit bracket the screen's active period; Update advances
// state by dt seconds; Draw paints the current frame; OnKeyPress
// receives routed input while active.
type Screen interface {
	OnEnter()
	OnExit()
	Update(dt float64)
	Draw(r Renderer)
	OnKeyPress(key Key)
}
