package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/gridglow/internal/input"
)

type Calibration struct {
	X input.Calibration `yaml:"x"`
	Y input.Calibration `yaml:"y"`
}

type PowerCfg struct {
	WhiteCap float64 `yaml:"white_cap"`
	BudgetmA float64 `yaml:"budget_ma"`
}

type Strip struct {
	Port       string `yaml:"port"` // e.g. /dev/spidev0.0, "" picks the first
	Count      int    `yaml:"count"`
	Brightness uint8  `yaml:"brightness"`
}

type Joystick struct {
	I2CBus   string  `yaml:"i2c_bus"`
	XChannel int     `yaml:"x_channel"`
	YChannel int     `yaml:"y_channel"`
	Button   string  `yaml:"button"` // gpioreg name, e.g. GPIO17
	VrefV    float64 `yaml:"vref_v"`
}

type Game struct {
	MaxProgress    uint16 `yaml:"max_progress"`
	StepIntervalMs int64  `yaml:"step_interval_ms"`
	RestartDelayMs int64  `yaml:"restart_delay_ms"`
	Seed           int64  `yaml:"seed,omitempty"`
}

type Config struct {
	Driver string `yaml:"driver"` // "spi" | "sim" | "console" | "headless"
	FPS    int    `yaml:"fps"`
	Addr   string `yaml:"addr"` // "" disables HTTP

	Strip       Strip       `yaml:"strip"`
	Joystick    Joystick    `yaml:"joystick"`
	Calibration Calibration `yaml:"calibration"`
	Power       PowerCfg    `yaml:"power"`
	Game        Game        `yaml:"game"`
}

func Default() *Config {
	return &Config{
		Driver: "sim",
		FPS:    60,
		Addr:   ":8080",
		Strip: Strip{
			Count:      50,
			Brightness: 10,
		},
		Joystick: Joystick{
			XChannel: 0,
			YChannel: 1,
			Button:   "GPIO17",
			VrefV:    5,
		},
		Calibration: Calibration{X: input.DefaultCalibration, Y: input.DefaultCalibration},
		Power:       PowerCfg{WhiteCap: .85},
		Game: Game{
			MaxProgress:    10,
			StepIntervalMs: 1000,
			RestartDelayMs: 3000,
		},
	}
}

// Load reads path over the defaults: fields the file leaves out keep their
// default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
