package game

import "math"

// Config carries the gameplay tuning constants.
type Config struct {
	Width  float64
	Height float64

	CatchRange          float64 // max distance for health transfer
	BaseDrainRate       float64 // health/sec at max proximity
	PassiveStaminaDrain float64 // stamina/sec, unconditional
	MaxHealth           float64
	MaxStamina          float64

	TraversalTime     float64 // seconds for the mouse to cross the window
	KittenSpeedFactor float64 // kitten speed = mouse speed / factor
}

// DefaultConfig returns the standard gameplay tuning.
func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,

		CatchRange:          100,
		BaseDrainRate:       20,
		PassiveStaminaDrain: 2,
		MaxHealth:           100,
		MaxStamina:          100,

		TraversalTime:     10,
		KittenSpeedFactor: 1.5,
	}
}

// Mouse is the player entity.
type Mouse struct {
	X, Y   float64
	Health float64
}

// Kitten is the chasing entity.
type Kitten struct {
	X, Y    float64
	Stamina float64
}

// Distance returns the euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// UpdateVitals applies dt seconds of proximity-based health transfer and
// passive stamina drain.
//
// The closer the kitten, the faster the mouse loses health, and the
// kitten gains exactly what the mouse loses. Transfer stops beyond
// CatchRange. The kitten tires unconditionally. Both values clamp to
// [0, max].
func UpdateVitals(mouse *Mouse, kitten *Kitten, cfg Config, dt float64) {
	dist := Distance(mouse.X, mouse.Y, kitten.X, kitten.Y)

	if dist < cfg.CatchRange {
		proximity := 1.0 - dist/cfg.CatchRange
		proximity = math.Max(0, math.Min(1, proximity))

		transfer := cfg.BaseDrainRate * proximity * dt
		mouse.Health -= transfer
		kitten.Stamina += transfer
	}

	kitten.Stamina -= cfg.PassiveStaminaDrain * dt

	mouse.Health = math.Max(0, math.Min(cfg.MaxHealth, mouse.Health))
	kitten.Stamina = math.Max(0, math.Min(cfg.MaxStamina, kitten.Stamina))
}
