package input

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/coreman2200/gridglow/internal/clock"
	"github.com/coreman2200/gridglow/internal/model"
)

type fakeAxis struct {
	raw int32
	err error
}

func (f *fakeAxis) Read() (analog.Sample, error) {
	return analog.Sample{Raw: f.raw}, f.err
}

var TestRawQuantizesToExpectedCell = []struct {
	Cal    Calibration
	Raw    int32
	Expect int
}{
	{DefaultCalibration, 0, 0},
	{DefaultCalibration, 1023, model.GridSize - 1},
	{DefaultCalibration, 146, 0},
	{DefaultCalibration, 147, 1},
	{DefaultCalibration, 512, 3},
	{DefaultCalibration, 1022, 6},
	{DefaultCalibration, -40, 0},
	{DefaultCalibration, 4095, model.GridSize - 1},
	{Calibration{Min: 100, Max: 900}, 100, 0},
	{Calibration{Min: 100, Max: 900}, 900, 7},
	{Calibration{Min: 100, Max: 900}, 50, 0},
	{Calibration{Min: 900, Max: 100}, 900, 0},
	{Calibration{Min: 900, Max: 100}, 100, 7},
	{Calibration{Min: 500, Max: 500}, 500, 0},
}

func TestQuantize(t *testing.T) {
	for k, v := range TestRawQuantizesToExpectedCell {
		t.Run("Given raw"+strconv.Itoa(k), func(t *testing.T) {
			assert.Equal(t, v.Expect, v.Cal.Quantize(v.Raw))
		})
	}
}

func TestQuantizeStaysInRange(t *testing.T) {
	cals := []Calibration{DefaultCalibration, {Min: 37, Max: 1001}, {Min: 1001, Max: 37}}
	for _, cal := range cals {
		for raw := int32(-100); raw <= 1200; raw++ {
			q := cal.Quantize(raw)
			require.GreaterOrEqual(t, q, 0)
			require.LessOrEqual(t, q, model.GridSize-1)
		}
	}
}

func TestRawRoundTrips(t *testing.T) {
	for _, cal := range []Calibration{DefaultCalibration, {Min: 37, Max: 1001}, {Min: 1001, Max: 37}} {
		for v := 0; v < model.GridSize; v++ {
			assert.Equal(t, v, cal.Quantize(cal.Raw(v)), "cell %d with %+v", v, cal)
		}
	}
}

func TestControllerPosition(t *testing.T) {
	x, y := &fakeAxis{raw: 1023}, &fakeAxis{raw: 300}
	c := NewController(x, y, &gpiotest.Pin{N: "BTN"}, DefaultCalibration, DefaultCalibration)

	pos, err := c.Position()
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{X: 7, Y: 2}, pos)

	x.raw, y.raw = 0, 0
	pos, err = c.Position()
	require.NoError(t, err)
	assert.True(t, pos.IsZero())
}

func TestControllerPositionError(t *testing.T) {
	boom := errors.New("adc busy")
	c := NewController(&fakeAxis{}, &fakeAxis{err: boom}, &gpiotest.Pin{N: "BTN"}, DefaultCalibration, DefaultCalibration)

	_, err := c.Position()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "y axis")
}

func TestButtonEdges(t *testing.T) {
	btn := &gpiotest.Pin{N: "BTN", Num: 7}
	c := NewController(&fakeAxis{}, &fakeAxis{}, btn, DefaultCalibration, DefaultCalibration)

	assert.False(t, c.IsButtonDown())
	assert.False(t, c.IsButtonJustDown())
	c.DoAction()

	btn.L = gpio.High
	assert.True(t, c.IsButtonDown())
	assert.True(t, c.IsButtonJustDown())
	// still just-down until the frame is latched
	assert.True(t, c.IsButtonJustDown())
	c.DoAction()

	assert.True(t, c.IsButtonDown())
	assert.False(t, c.IsButtonJustDown(), "held button is not a new press")
	c.DoAction()

	btn.L = gpio.Low
	c.DoAction()
	btn.L = gpio.High
	assert.True(t, c.IsButtonJustDown())
	assert.Equal(t, uint64(4), c.Frames())
}

func TestEdge(t *testing.T) {
	var e Edge
	assert.True(t, e.JustDown(true))
	assert.False(t, e.JustUp(false))
	e.Latch(true)
	assert.False(t, e.JustDown(true))
	assert.True(t, e.JustUp(false))
	assert.Equal(t, uint64(1), e.Frame())
}

type fixedSource model.Coordinate

func (f fixedSource) Position() (model.Coordinate, error) { return model.Coordinate(f), nil }

func TestCursorBlink(t *testing.T) {
	clk := clock.NewManual(0)
	c := NewCursor(fixedSource{X: 3, Y: 4}, clk)

	pos, err := c.Position()
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{X: 3, Y: 4}, pos)
	assert.False(t, c.LedIsOn())

	clk.Advance(300 * time.Millisecond)
	c.DoAction()
	assert.False(t, c.LedIsOn(), "toggle needs strictly more than the interval")

	clk.Advance(time.Millisecond)
	c.DoAction()
	assert.True(t, c.LedIsOn())

	c.DoAction()
	assert.True(t, c.LedIsOn(), "no toggle without elapsed time")

	// a long gap is not backfilled: one toggle, then a full interval again
	clk.Advance(5 * time.Second)
	c.DoAction()
	assert.False(t, c.LedIsOn())
	clk.Advance(200 * time.Millisecond)
	c.DoAction()
	assert.False(t, c.LedIsOn())
	clk.Advance(101 * time.Millisecond)
	c.DoAction()
	assert.True(t, c.LedIsOn())
}
