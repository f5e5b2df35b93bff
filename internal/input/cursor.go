package input

import (
	"github.com/coreman2200/gridglow/internal/clock"
	"github.com/coreman2200/gridglow/internal/model"
)

// BlinkIntervalMs is how long the cursor LED holds each blink phase.
const BlinkIntervalMs int64 = 300

// PositionSource yields the cursor cell. *Controller satisfies it.
type PositionSource interface {
	Position() (model.Coordinate, error)
}

// Cursor is the blinking grid cursor. Blink phase only advances inside
// DoAction; a late call delays the next toggle rather than catching up.
type Cursor struct {
	src   PositionSource
	clock clock.Clock

	lastToggle int64
	ledIsOn    bool
}

func NewCursor(src PositionSource, clk clock.Clock) *Cursor {
	return &Cursor{src: src, clock: clk, lastToggle: clk.Millis()}
}

func (c *Cursor) Position() (model.Coordinate, error) {
	return c.src.Position()
}

func (c *Cursor) LedIsOn() bool {
	return c.ledIsOn
}

func (c *Cursor) DoAction() {
	now := c.clock.Millis()
	if now > c.lastToggle+BlinkIntervalMs {
		c.lastToggle = now
		c.ledIsOn = !c.ledIsOn
	}
}
