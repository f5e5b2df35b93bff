// Package sim stands in for the joystick and the LED strip on a terminal.
// Arrow keys move the stick, space presses the button, and the strip and
// the play field are drawn with tcell.
package sim

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"

	"github.com/coreman2200/gridglow/internal/clock"
	"github.com/coreman2200/gridglow/internal/input"
	"github.com/coreman2200/gridglow/internal/model"
)

// PressMs is how long one space press holds the virtual button down.
const PressMs int64 = 120

const (
	cellW   = 2
	stripY  = model.GridSize + 2
	statusY = stripY + 2
)

type Sim struct {
	screen tcell.Screen
	clock  clock.Clock
	calX   input.Calibration
	calY   input.Calibration

	mu       sync.Mutex
	cell     model.Coordinate
	pressEnd int64
	status   string

	quit     chan struct{}
	quitOnce sync.Once
}

// New wraps an initialized screen.
func New(screen tcell.Screen, clk clock.Clock, calX, calY input.Calibration) *Sim {
	return &Sim{
		screen:   screen,
		clock:    clk,
		calX:     calX,
		calY:     calY,
		pressEnd: -1,
		quit:     make(chan struct{}),
	}
}

// Open starts a terminal screen.
func Open(clk clock.Clock, calX, calY input.Calibration) (*Sim, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()
	return New(screen, clk, calX, calY), nil
}

// Run polls terminal events until the screen is finalized.
func (s *Sim) Run() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		s.handle(ev)
	}
}

func (s *Sim) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.mu.Lock()
		defer s.mu.Unlock()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			s.stop()
		case tcell.KeyLeft:
			s.cell.X = clampCell(s.cell.X - 1)
		case tcell.KeyRight:
			s.cell.X = clampCell(s.cell.X + 1)
		case tcell.KeyUp:
			s.cell.Y = clampCell(s.cell.Y - 1)
		case tcell.KeyDown:
			s.cell.Y = clampCell(s.cell.Y + 1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				s.pressEnd = s.clock.Millis() + PressMs
			case 'q':
				s.stop()
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
}

// callers hold s.mu
func (s *Sim) stop() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Done is closed once the player asks to quit.
func (s *Sim) Done() <-chan struct{} { return s.quit }

func clampCell(v int) int {
	if v < 0 {
		return 0
	}
	if v > model.GridSize-1 {
		return model.GridSize - 1
	}
	return v
}

// Axes returns the virtual stick's two pots.
func (s *Sim) Axes() (x, y input.AxisReader) {
	return axis{s: s}, axis{s: s, vertical: true}
}

// Button returns the virtual push button.
func (s *Sim) Button() input.ButtonReader { return button{s} }

type axis struct {
	s        *Sim
	vertical bool
}

// Read reports the raw value a real pot would give when pointing at the
// selected cell, so the calibration is exercised end to end.
func (a axis) Read() (analog.Sample, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.vertical {
		return analog.Sample{Raw: a.s.calY.Raw(a.s.cell.Y)}, nil
	}
	return analog.Sample{Raw: a.s.calX.Raw(a.s.cell.X)}, nil
}

type button struct{ s *Sim }

func (b button) Read() gpio.Level {
	b.s.mu.Lock()
	end := b.s.pressEnd
	b.s.mu.Unlock()
	return gpio.Level(b.s.clock.Millis() < end)
}

// Write draws one GRB frame as a row of blocks under the play field.
func (s *Sim) Write(frame []uint32) error {
	for i, grb := range frame {
		r, g, b := model.UnpackGRB(grb)
		st := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		ch := '·'
		if r|g|b != 0 {
			st = tcell.StyleDefault.Foreground(preview(r, g, b))
			ch = '█'
		}
		s.screen.SetContent(i, stripY, ch, nil, st)
	}
	s.screen.Show()
	return nil
}

// preview stretches a dim LED color so its strongest channel is full scale.
func preview(r, g, b uint8) tcell.Color {
	m := max(r, g, b)
	scale := func(v uint8) int32 { return int32(v) * 255 / int32(m) }
	return tcell.NewRGBColor(scale(r), scale(g), scale(b))
}

// DrawGrid paints the play field: lit cells, the target pattern (dim), and
// the cursor when its LED is on.
func (s *Sim) DrawGrid(g, target *model.Grid, cursor model.Coordinate, cursorOn bool) {
	lit := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	goal := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	cur := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for x := 0; x < model.GridSize; x++ {
		for y := 0; y < model.GridSize; y++ {
			c := model.Coordinate{X: x, Y: y}
			ch, st := '.', goal
			switch {
			case cursorOn && c == cursor:
				ch, st = '@', cur
			case g.GetAt(c):
				ch, st = '#', lit
			case target != nil && target.GetAt(c):
				ch = 'o'
			}
			s.screen.SetContent(x*cellW, y, ch, nil, st)
			s.screen.SetContent(x*cellW+1, y, ' ', nil, st)
		}
	}
}

// SetStatus writes one line of text below the strip.
func (s *Sim) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()

	w, _ := s.screen.Size()
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(text) {
			ch = rune(text[x])
		}
		s.screen.SetContent(x, statusY, ch, nil, tcell.StyleDefault)
	}
}

// Status is the last line passed to SetStatus.
func (s *Sim) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Sim) Close() error {
	s.mu.Lock()
	s.stop()
	s.mu.Unlock()
	s.screen.Fini()
	return nil
}
