package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/e7canasta/chaser-game/capture"
	"github.com/e7canasta/chaser-game/framebuffer/opengl"
	"github.com/e7canasta/chaser-game/game"
	"github.com/e7canasta/chaser-game/internal/config"
)

func init() {
	// GLFW event handling and the GL context are main-thread only.
	runtime.LockOSThread()
}

// maxFrameDelta caps dt after stalls (window drag, debugger) so game
// state never teleports.
const maxFrameDelta = 0.25

func run(cfg config.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	backend, err := opengl.New()
	if err != nil {
		return fmt.Errorf("load GL: %w", err)
	}

	fbWidth, fbHeight := win.GetFramebufferSize()

	orch := capture.Disabled()
	if cfg.Capture.Enabled {
		orch, err = capture.New(capture.Config{
			GL:        backend,
			Width:     fbWidth,
			Height:    fbHeight,
			OutputDir: cfg.Capture.OutputDir,
			SlotCount: cfg.Capture.Slots,
			Workers:   cfg.Capture.Workers,
		})
		if err != nil {
			return fmt.Errorf("init capture: %w", err)
		}
	}
	defer orch.Close()

	gameCfg := game.Config{
		Width:               float64(cfg.Window.Width),
		Height:              float64(cfg.Window.Height),
		CatchRange:          cfg.Game.CatchRange,
		BaseDrainRate:       cfg.Game.BaseDrainRate,
		PassiveStaminaDrain: cfg.Game.PassiveStaminaDrain,
		MaxHealth:           cfg.Game.MaxHealth,
		MaxStamina:          cfg.Game.MaxStamina,
		TraversalTime:       cfg.Game.TraversalTime,
		KittenSpeedFactor:   cfg.Game.KittenSpeedFactor,
	}

	state := game.NewStateMachine()
	manager := game.NewManager(orch)
	manager.Register(game.ScreenSplash, game.NewSplashScreen(manager))
	manager.Register(game.ScreenGameStart, game.NewStartScreen(manager))
	manager.Register(game.ScreenGameRunning, game.NewRunningScreen(manager, gameCfg, state))
	manager.Register(game.ScreenGameEnd, game.NewEndScreen(manager, state))
	if err := manager.SetActive(game.ScreenSplash); err != nil {
		return err
	}

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		manager.OnKeyPress(mapKey(key))
	})

	renderer := &glRenderer{}
	budget := frameBudget(cfg.Window.TargetFPS)
	last := time.Now()

	for !win.ShouldClose() {
		glfw.PollEvents()

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		// Phase 2 before drawing: this is the start of the next frame
		// relative to the transfer issued after the previous draw.
		fbWidth, fbHeight = win.GetFramebufferSize()
		manager.Update(dt)
		orch.OnUpdate(fbWidth, fbHeight)

		renderer.begin(fbWidth, fbHeight)
		manager.Draw(renderer)
		orch.OnDraw()

		win.SwapBuffers()
		pace(now, budget)
	}

	stats := orch.Stats()
	slog.Info("chaser: capture summary",
		"triggered", stats.Triggered, "completed", stats.Completed,
		"dropped", stats.DroppedTriggers)
	return nil
}

func mapKey(key glfw.Key) game.Key {
	switch key {
	case glfw.KeyInsert:
		return game.KeyCapture
	case glfw.KeyP:
		return game.KeyPause
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return game.KeyEnter
	case glfw.KeySpace:
		return game.KeySpace
	case glfw.KeyUp:
		return game.KeyUp
	case glfw.KeyDown:
		return game.KeyDown
	case glfw.KeyLeft:
		return game.KeyLeft
	case glfw.KeyRight:
		return game.KeyRight
	default:
		return game.KeyNone
	}
}
