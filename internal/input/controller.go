// Package input turns the joystick's raw analog axes and push button into
// grid coordinates and button edges.
package input

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"

	"github.com/coreman2200/gridglow/internal/model"
)

// AxisReader is one analog axis. periph's analog.PinADC satisfies it.
type AxisReader interface {
	Read() (analog.Sample, error)
}

// ButtonReader is the digital push button line. periph's gpio.PinIn satisfies it.
type ButtonReader interface {
	Read() gpio.Level
}

// Calibration is the raw range an axis actually produces on this stick. The
// pots rarely reach the ADC's nominal limits so these come from measurement.
type Calibration struct {
	Min int32 `yaml:"min"`
	Max int32 `yaml:"max"`
}

// DefaultCalibration is the nominal 10-bit range.
var DefaultCalibration = Calibration{Min: 0, Max: 1023}

// Quantize maps raw onto [0, GridSize-1]: linear remap, truncate, clamp.
func (c Calibration) Quantize(raw int32) int {
	if c.Max == c.Min {
		return 0
	}
	v := int(model.Remap(float64(raw), float64(c.Min), float64(c.Max), 0, model.GridSize-1))
	if v < 0 {
		return 0
	}
	if v > model.GridSize-1 {
		return model.GridSize - 1
	}
	return v
}

// Raw is the inverse of Quantize: a raw sample in the middle of cell v,
// kept inside the calibrated range.
func (c Calibration) Raw(v int) int32 {
	raw := int32(model.Remap(float64(v)+.5, 0, model.GridSize-1, float64(c.Min), float64(c.Max)))
	lo, hi := c.Min, c.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	if raw < lo {
		return lo
	}
	if raw > hi {
		return hi
	}
	return raw
}

// Controller reads the stick. Apart from the button latch it holds no state
// and may be polled at any rate.
type Controller struct {
	X, Y   AxisReader
	Button ButtonReader

	CalX, CalY Calibration

	edge Edge
}

func NewController(x, y AxisReader, btn ButtonReader, calX, calY Calibration) *Controller {
	return &Controller{
		X:      x,
		Y:      y,
		Button: btn,
		CalX:   calX,
		CalY:   calY,
	}
}

// Position samples both axes and quantizes them.
func (c *Controller) Position() (model.Coordinate, error) {
	xs, err := c.X.Read()
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("read x axis: %w", err)
	}
	ys, err := c.Y.Read()
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("read y axis: %w", err)
	}
	return model.Coordinate{X: c.CalX.Quantize(xs.Raw), Y: c.CalY.Quantize(ys.Raw)}, nil
}

func (c *Controller) IsButtonDown() bool {
	return c.Button.Read() == gpio.High
}

// IsButtonJustDown is true when the button is down now and was up at the
// last DoAction. Only accurate if DoAction runs exactly once per frame.
func (c *Controller) IsButtonJustDown() bool {
	return c.edge.JustDown(c.IsButtonDown())
}

// DoAction latches the current button level for the next frame's edge check.
func (c *Controller) DoAction() {
	c.edge.Latch(c.IsButtonDown())
}

// Frames is the number of DoAction calls so far.
func (c *Controller) Frames() uint64 {
	return c.edge.Frame()
}
