// Package progress drives the LED strip that shows how far the player is
// toward the goal, and whether the round was won or lost.
package progress

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/gridglow/internal/clock"
	"github.com/coreman2200/gridglow/internal/led"
	"github.com/coreman2200/gridglow/internal/model"
)

var ErrZeroMaxProgress = errors.New("progress: max progress must be at least 1")

// Animator owns the strip and renders a (progress, max, state) session onto
// it. It never reads the clock on its own: time only advances in Tick.
type Animator struct {
	strip   led.Strip
	clock   clock.Clock
	log     zerolog.Logger
	palette Palette

	fadeStep float64
	observer func(State)

	current uint16
	max     uint16
	state   State

	progressColor model.Color
	phaseOn       bool
	step          Ratchet
}

type Option func(*Animator)

func WithPalette(p Palette) Option { return func(a *Animator) { a.palette = p } }

func WithStepInterval(ms int64) Option {
	return func(a *Animator) { a.step.Interval = ms }
}

func WithFadeStep(d float64) Option { return func(a *Animator) { a.fadeStep = d } }

// WithObserver is called after every state change.
func WithObserver(f func(State)) Option { return func(a *Animator) { a.observer = f } }

func WithLogger(l zerolog.Logger) Option { return func(a *Animator) { a.log = l } }

func New(strip led.Strip, clk clock.Clock, opts ...Option) *Animator {
	a := &Animator{
		strip:    strip,
		clock:    clk,
		log:      log.With().Str("component", "progress").Logger(),
		palette:  DefaultPalette,
		fadeStep: DefaultFadeStep,
		max:      DefaultMaxProgress,
		step:     NewRatchet(DefaultStepIntervalMs),
	}
	for _, o := range opts {
		o(a)
	}
	a.progressColor = a.palette.InProgress
	return a
}

// Initialize clears the strip to the idle state with the current max.
func (a *Animator) Initialize() error {
	return a.Reset(a.max)
}

// Reset starts a new session of max steps in the None state.
func (a *Animator) Reset(max uint16) error {
	if max == 0 {
		return ErrZeroMaxProgress
	}
	a.current = 0
	a.max = max
	return a.SetState(None)
}

func (a *Animator) SetState(s State) error {
	a.state = s
	a.step.Reset(a.clock.Millis())

	switch s {
	case AnimatedProgression:
		a.phaseOn = false
	case Win:
		a.phaseOn = true
	}

	a.log.Debug().Stringer("state", s).Uint16("progress", a.current).Uint16("max", a.max).Msg("state")
	if a.observer != nil {
		a.observer(s)
	}
	return a.render()
}

// SetProgressWithAnim sets the progress to p, clamped to max, and flashes
// the newly completed segment. It replaces the progress value, it does not add to it.
func (a *Animator) SetProgressWithAnim(p uint16) error {
	if p > a.max {
		p = a.max
	}
	a.current = p
	a.progressColor = a.palette.Done
	a.step.Reset(a.clock.Millis())
	a.phaseOn = true

	a.log.Debug().Uint16("progress", a.current).Uint16("max", a.max).Msg("progress")
	return a.render()
}

// Tick advances blink and fade animations. Call it every frame.
func (a *Animator) Tick() error {
	switch a.state {
	case AnimatedProgression:
		now := a.clock.Millis()
		if a.step.Due(now) {
			a.phaseOn = !a.phaseOn
			if err := a.render(); err != nil {
				return err
			}
		}

		if !a.progressColor.Equal(a.palette.InProgress) {
			a.progressColor = model.MoveTowards(a.progressColor, a.palette.InProgress, a.fadeStep)
			if a.phaseOn {
				return a.render()
			}
		}
	case Win:
		if a.step.Due(a.clock.Millis()) {
			a.phaseOn = !a.phaseOn
			return a.render()
		}
	}
	return nil
}

func (a *Animator) State() State { return a.state }

func (a *Animator) Progress() (current, max uint16) { return a.current, a.max }

func (a *Animator) PhaseOn() bool { return a.phaseOn }

func (a *Animator) ProgressColor() model.Color { return a.progressColor }

func (a *Animator) LedCount() int { return a.strip.Len() }

// NextStep is the pending blink deadline in clock milliseconds.
func (a *Animator) NextStep() int64 { return a.step.Next() }

// Layout returns how many leds are lit as done and how long the following
// segment is, for the current session.
func (a *Animator) Layout() (done, segment int) {
	n := a.strip.Len()
	max := int(a.max)
	cur := int(a.current)

	segment = n / max
	if segment < 1 {
		segment = 1
	}

	switch a.state {
	case None:
		done = 0
	case Win:
		done = n
	default:
		done = cur * n / max
		if cur+1 == max {
			segment = n - done
		}
	}
	return done, segment
}

func (a *Animator) render() error {
	n := a.strip.Len()
	done, segment := a.Layout()

	doneGRB := a.palette.Done.GRB()
	for i := 0; i < done; i++ {
		if a.state == Win && !a.phaseOn {
			a.strip.SetPixel(i, 0)
		} else {
			a.strip.SetPixel(i, doneGRB)
		}
	}

	end := done + segment
	if end > n {
		end = n
	}
	for i := done; i < end; i++ {
		switch {
		case a.state == Fail:
			a.strip.SetPixel(i, a.palette.Fail.GRB())
		case a.state == AnimatedProgression && a.phaseOn:
			a.strip.SetPixel(i, a.progressColor.GRB())
		default:
			a.strip.SetPixel(i, 0)
		}
	}

	for i := end; i < n; i++ {
		a.strip.SetPixel(i, 0)
	}

	return a.strip.Show()
}
