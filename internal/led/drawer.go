package led

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/devices/v3/screen1d"
	"periph.io/x/host/v3"

	"github.com/coreman2200/gridglow/internal/model"
)

// RefreshRate is the WS2812 data rate; the SPI bus runs at three bits per data bit.
const RefreshRate physic.Frequency = 800

// DrawerSink pushes frames to a periph display.Drawer: an nrzled strip on
// SPI, or the console when no port is around.
type DrawerSink struct {
	Brightness uint8
	Limiter    Limiter

	drawer display.Drawer
	closer io.Closer
	img    *image.NRGBA
	rgb    []byte
}

func NewDrawerSink(d display.Drawer, n int, brightness uint8) *DrawerSink {
	return &DrawerSink{
		Brightness: brightness,
		drawer:     d,
		img:        image.NewNRGBA(image.Rect(0, 0, n, 1)),
		rgb:        make([]byte, n*3),
	}
}

func (s *DrawerSink) Write(frame []uint32) error {
	n := len(s.rgb) / 3
	for i := 0; i < n; i++ {
		var r, g, b uint8
		if i < len(frame) {
			r, g, b = model.UnpackGRB(frame[i])
		}
		s.rgb[i*3+0] = scaleBrightness(r, s.Brightness)
		s.rgb[i*3+1] = scaleBrightness(g, s.Brightness)
		s.rgb[i*3+2] = scaleBrightness(b, s.Brightness)
	}
	s.Limiter.Apply(s.rgb)

	for x := 0; x < n; x++ {
		s.img.SetNRGBA(x, 0, color.NRGBA{R: s.rgb[x*3], G: s.rgb[x*3+1], B: s.rgb[x*3+2], A: 255})
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{}); err != nil {
		return fmt.Errorf("draw %s: %w", s.drawer, err)
	}
	return nil
}

func (s *DrawerSink) Close() error {
	err := s.drawer.Halt()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *DrawerSink) String() string {
	return s.drawer.String()
}

// StripConfig describes the physical strip.
type StripConfig struct {
	SPIPort    string
	Count      int
	Brightness uint8
	Limiter    Limiter
}

// OpenStrip opens the strip on SPI. Without a usable SPI port it falls back
// to printing the strip on the console, and spi reports false.
func OpenStrip(cfg StripConfig) (sink *DrawerSink, spi bool, err error) {
	if cfg.Count <= 0 {
		return nil, false, fmt.Errorf("invalid LED count: %d", cfg.Count)
	}
	if _, err := host.Init(); err != nil {
		return nil, false, fmt.Errorf("host init: %w", err)
	}

	p, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		log.Warn().Err(err).Str("port", cfg.SPIPort).Msg("no SPI port; printing the strip on the console")
		return OpenConsole(cfg), false, nil
	}

	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: cfg.Count,
		Channels:  3,
		Freq:      ((RefreshRate * 3) + 100) * physic.KiloHertz,
	})
	if err != nil {
		_ = p.Close()
		return nil, false, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		log.Warn().Err(err).Msg("nrzled halt")
	}

	sink = NewDrawerSink(d, cfg.Count, cfg.Brightness)
	sink.Limiter = cfg.Limiter
	sink.closer = p
	return sink, true, nil
}

// OpenConsole prints the strip on stdout as a row of colored cells.
func OpenConsole(cfg StripConfig) *DrawerSink {
	sink := NewDrawerSink(screen1d.New(&screen1d.Opts{X: cfg.Count}), cfg.Count, 255)
	sink.Limiter = cfg.Limiter
	return sink
}
