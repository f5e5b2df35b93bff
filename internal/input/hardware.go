package input

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// JoystickConfig names the stick's wiring. The two pots sit on an ADS1115
// on I2C; the push button is a plain GPIO line pulled down.
type JoystickConfig struct {
	I2CBus   string
	XChannel int
	YChannel int
	Button   string
	Vref     physic.ElectricPotential
}

// Joystick is the opened hardware side of a Controller.
type Joystick struct {
	X, Y   AxisReader
	Button ButtonReader

	closers []io.Closer
}

var channels = []ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// OpenJoystick initializes the host drivers and opens the stick.
func OpenJoystick(cfg JoystickConfig) (*Joystick, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	if cfg.Vref == 0 {
		cfg.Vref = 5 * physic.Volt
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c %q: %w", cfg.I2CBus, err)
	}
	j := &Joystick{closers: []io.Closer{bus}}

	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("ads1115: %w", err)
	}

	x, err := openAxis(adc, cfg.XChannel, cfg.Vref)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("x axis: %w", err)
	}
	j.X = x
	j.closers = append(j.closers, halter{x})

	y, err := openAxis(adc, cfg.YChannel, cfg.Vref)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("y axis: %w", err)
	}
	j.Y = y
	j.closers = append(j.closers, halter{y})

	p := gpioreg.ByName(cfg.Button)
	if p == nil {
		_ = j.Close()
		return nil, fmt.Errorf("no such button pin %q", cfg.Button)
	}
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("button %s: %w", p, err)
	}
	j.Button = p
	return j, nil
}

func openAxis(adc *ads1x15.Dev, ch int, vref physic.ElectricPotential) (ads1x15.PinADC, error) {
	if ch < 0 || ch >= len(channels) {
		return nil, fmt.Errorf("invalid channel %d", ch)
	}
	return adc.PinForChannel(channels[ch], vref, 1*physic.Hertz, ads1x15.SaveEnergy)
}

// halter lets a pin sit in the close list.
type halter struct{ p interface{ Halt() error } }

func (h halter) Close() error { return h.p.Halt() }

// Controller wraps the stick with the given calibration.
func (j *Joystick) Controller(calX, calY Calibration) *Controller {
	return NewController(j.X, j.Y, j.Button, calX, calY)
}

// Close halts the axis pins and releases the bus, last opened first.
func (j *Joystick) Close() error {
	var err error
	for i := len(j.closers) - 1; i >= 0; i-- {
		if cerr := j.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	j.closers = nil
	return err
}
