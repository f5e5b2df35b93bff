package app

import (
	"sync"

	"github.com/coreman2200/gridglow/internal/clock"
	diag "github.com/coreman2200/gridglow/internal/diagnostics"
	"github.com/coreman2200/gridglow/internal/input"
	"github.com/coreman2200/gridglow/internal/led"
	"github.com/coreman2200/gridglow/internal/progress"
	"github.com/coreman2200/gridglow/internal/ws"
)

type CoreConfig struct {
	Leds           int
	StepIntervalMs int64
	CalX, CalY     input.Calibration
	Round          RoundConfig
}

// Stick is the raw input side, from hardware or the simulator.
type Stick struct {
	X, Y   input.AxisReader
	Button input.ButtonReader
}

// Core ties the game to its strip. Only the loop goroutine calls Frame; the
// HTTP side reads the snapshot taken at the end of each frame.
type Core struct {
	Clock  clock.Clock
	Strip  *led.Buffer
	Bar    *progress.Animator
	Ctl    *input.Controller
	Cursor *input.Cursor
	Round  *Round
	Hub    *ws.Hub

	// View is called after every frame, e.g. to draw the simulator grid.
	View func(*Round)

	mu   sync.Mutex
	snap map[string]any
}

func InitCore(cfg CoreConfig, clk clock.Clock, stick Stick, sinks ...led.Sink) (*Core, error) {
	hub := ws.NewHub(cfg.Leds)
	strip := led.NewBuffer(cfg.Leds, sinks...)
	strip.Attach(hub)

	opts := []progress.Option{
		progress.WithObserver(func(s progress.State) {
			hub.PushDiag(diag.Diagnostic{Severity: diag.Info, Code: "PROGRESS.STATE", Summary: "Bar state", Detail: s.String()})
		}),
	}
	if cfg.StepIntervalMs > 0 {
		opts = append(opts, progress.WithStepInterval(cfg.StepIntervalMs))
	}
	bar := progress.New(strip, clk, opts...)
	if err := bar.Initialize(); err != nil {
		return nil, err
	}

	ctl := input.NewController(stick.X, stick.Y, stick.Button, cfg.CalX, cfg.CalY)
	cursor := input.NewCursor(ctl, clk)
	round, err := NewRound(ctl, cursor, bar, clk, cfg.Round)
	if err != nil {
		return nil, err
	}
	round.OnEvent = hub.PushDiag

	c := &Core{
		Clock:  clk,
		Strip:  strip,
		Bar:    bar,
		Ctl:    ctl,
		Cursor: cursor,
		Round:  round,
		Hub:    hub,
	}
	hub.Status = c.Status
	return c, nil
}

// Start begins the first round.
func (c *Core) Start() error {
	if err := c.Round.Start(); err != nil {
		return err
	}
	c.snapshot()
	return nil
}

// Frame runs one game step.
func (c *Core) Frame() error {
	err := c.Round.Step()
	if c.View != nil {
		c.View(c.Round)
	}
	c.snapshot()
	return err
}

func (c *Core) snapshot() {
	cur, max := c.Bar.Progress()
	s := map[string]any{
		"state":    c.Bar.State().String(),
		"progress": cur,
		"max":      max,
		"round":    c.Round.Rounds(),
		"cursor":   c.Round.Cursor().String(),
	}
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

// Status is the game as of the last frame.
func (c *Core) Status() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.snap))
	for k, v := range c.snap {
		out[k] = v
	}
	return out
}

func (c *Core) Close() error {
	return c.Strip.Close()
}
