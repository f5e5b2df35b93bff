package sim

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"github.com/coreman2200/gridglow/internal/clock"
	"github.com/coreman2200/gridglow/internal/input"
	"github.com/coreman2200/gridglow/internal/model"
)

func newTestSim(t *testing.T, calX, calY input.Calibration) (*Sim, tcell.SimulationScreen, *clock.Manual) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	clk := clock.NewManual(0)
	return New(screen, clk, calX, calY), screen, clk
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func char(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestArrowKeysMoveStick(t *testing.T) {
	calX := input.Calibration{Min: 120, Max: 26000}
	calY := input.Calibration{Min: 25800, Max: 90}
	s, _, _ := newTestSim(t, calX, calY)
	ctl := input.NewController(axisPair(s))

	for i := 0; i < 3; i++ {
		s.handle(key(tcell.KeyRight))
	}
	s.handle(key(tcell.KeyDown))
	s.handle(key(tcell.KeyUp))
	s.handle(key(tcell.KeyDown))

	c, err := ctl.Position()
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{X: 3, Y: 1}, c)

	for i := 0; i < 20; i++ {
		s.handle(key(tcell.KeyLeft))
	}
	c, err = ctl.Position()
	require.NoError(t, err)
	assert.Equal(t, 0, c.X, "stick stops at the edge")
}

func axisPair(s *Sim) (x, y input.AxisReader, btn input.ButtonReader, calX, calY input.Calibration) {
	x, y = s.Axes()
	return x, y, s.Button(), s.calX, s.calY
}

func TestSpacePressesButtonBriefly(t *testing.T) {
	s, _, clk := newTestSim(t, input.DefaultCalibration, input.DefaultCalibration)
	btn := s.Button()
	assert.Equal(t, gpio.Low, btn.Read())

	s.handle(char(' '))
	assert.Equal(t, gpio.High, btn.Read())

	clk.Advance(time.Duration(PressMs-1) * time.Millisecond)
	assert.Equal(t, gpio.High, btn.Read())
	clk.Advance(time.Millisecond)
	assert.Equal(t, gpio.Low, btn.Read())
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{key(tcell.KeyEscape), char('q'), key(tcell.KeyCtrlC)} {
		s, _, _ := newTestSim(t, input.DefaultCalibration, input.DefaultCalibration)
		s.handle(ev)
		select {
		case <-s.Done():
		default:
			t.Fatalf("%v did not quit", ev.Name())
		}
	}
}

func TestStripRendering(t *testing.T) {
	s, screen, _ := newTestSim(t, input.DefaultCalibration, input.DefaultCalibration)
	require.NoError(t, s.Write([]uint32{model.Color{G: .15}.GRB(), 0}))

	ch, _, st, _ := screen.GetContent(0, stripY)
	assert.Equal(t, '█', ch)
	fg, _, _ := st.Decompose()
	r, g, b := fg.RGB()
	assert.Equal(t, []int32{0, 255, 0}, []int32{r, g, b})

	ch, _, _, _ = screen.GetContent(1, stripY)
	assert.Equal(t, '·', ch)
}

func TestDrawGrid(t *testing.T) {
	s, screen, _ := newTestSim(t, input.DefaultCalibration, input.DefaultCalibration)
	g, target := model.NewGrid(), model.NewGrid()
	g.SetAt(model.Coordinate{X: 1, Y: 0}, true)
	target.SetAt(model.Coordinate{X: 2, Y: 3}, true)

	s.DrawGrid(g, target, model.Coordinate{X: 4, Y: 4}, true)
	at := func(c model.Coordinate) rune {
		ch, _, _, _ := screen.GetContent(c.X*cellW, c.Y)
		return ch
	}
	assert.Equal(t, '#', at(model.Coordinate{X: 1, Y: 0}))
	assert.Equal(t, 'o', at(model.Coordinate{X: 2, Y: 3}))
	assert.Equal(t, '@', at(model.Coordinate{X: 4, Y: 4}))
	assert.Equal(t, '.', at(model.Coordinate{X: 7, Y: 7}))

	s.DrawGrid(g, target, model.Coordinate{X: 4, Y: 4}, false)
	assert.Equal(t, '.', at(model.Coordinate{X: 4, Y: 4}))

	s.SetStatus("win")
	assert.Equal(t, "win", s.Status())
	ch, _, _, _ := screen.GetContent(0, statusY)
	assert.Equal(t, 'w', ch)
}
