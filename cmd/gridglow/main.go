package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/gridglow/internal/app"
	"github.com/coreman2200/gridglow/internal/clock"
	"github.com/coreman2200/gridglow/internal/config"
	"github.com/coreman2200/gridglow/internal/input"
	"github.com/coreman2200/gridglow/internal/led"
	"github.com/coreman2200/gridglow/internal/sim"
)

func main() {
	// ---- Flags ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "sim", "driver: spi | console | sim | headless")
		addr       = flag.String("addr", ":8080", "HTTP listen address, empty disables")
		fps        = flag.Int("fps", app.DefaultFPS, "frames per second")
		leds       = flag.Int("leds", 50, "LED count")
		brightness = flag.Int("brightness", 10, "strip brightness 0..255")
		seed       = flag.Int64("seed", 0, "target pattern seed, 0 picks one from the clock")
		logLevel   = flag.String("log-level", "info", "log level")
		logFile    = flag.String("log-file", "", "log file (sim defaults to gridglow.log)")
	)
	flag.Parse()

	// ---- Config: file over defaults, flags given on the command line over both ----
	cfg := config.Default()
	loaded, loadErr := config.Load(*configPath)
	if loadErr == nil {
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driver
		case "addr":
			cfg.Addr = *addr
		case "fps":
			cfg.FPS = *fps
		case "leds":
			cfg.Strip.Count = *leds
		case "brightness":
			cfg.Strip.Brightness = uint8(*brightness)
		case "seed":
			cfg.Game.Seed = *seed
		}
	})
	if cfg.Game.Seed == 0 {
		cfg.Game.Seed = time.Now().UnixNano()
	}

	// ---- Logging ----
	closeLog := setupLogging(*logLevel, *logFile, cfg.Driver)
	defer closeLog()
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("gridglow")
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	clk := clock.NewSystem()
	lim := led.Limiter{WhiteCap: cfg.Power.WhiteCap, BudgetmA: cfg.Power.BudgetmA}
	stripCfg := led.StripConfig{
		SPIPort:    cfg.Strip.Port,
		Count:      cfg.Strip.Count,
		Brightness: cfg.Strip.Brightness,
		Limiter:    lim,
	}

	var (
		stick   app.Stick
		sink    led.Sink
		term    *sim.Sim
		closers []io.Closer
	)
	selected := cfg.Driver

	switch selected {
	case "spi", "console":
		js, err := input.OpenJoystick(input.JoystickConfig{
			I2CBus:   cfg.Joystick.I2CBus,
			XChannel: cfg.Joystick.XChannel,
			YChannel: cfg.Joystick.YChannel,
			Button:   cfg.Joystick.Button,
			Vref:     physic.ElectricPotential(cfg.Joystick.VrefV * float64(physic.Volt)),
		})
		if err != nil {
			log.Warn().Err(err).Str("driver", selected).Msg("joystick init failed; falling back to SIM")
			selected = "sim"
			break
		}
		closers = append(closers, js)
		stick = app.Stick{X: js.X, Y: js.Y, Button: js.Button}

		if selected == "console" {
			sink = led.OpenConsole(stripCfg)
			break
		}
		s, onSPI, err := led.OpenStrip(stripCfg)
		if err != nil {
			return err
		}
		if !onSPI {
			selected = "console"
		}
		sink = s
	case "sim", "headless":
	default:
		log.Warn().Str("driver", selected).Msg("unknown driver; using SIM")
		selected = "sim"
	}

	switch selected {
	case "sim":
		s, err := sim.Open(clk, cfg.Calibration.X, cfg.Calibration.Y)
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		term = s
		x, y := s.Axes()
		stick = app.Stick{X: x, Y: y, Button: s.Button()}
		sink = s
		go s.Run()
	case "headless":
		stick = app.Stick{X: still{cfg.Calibration.X.Min}, Y: still{cfg.Calibration.Y.Min}, Button: released{}}
	}

	var sinks []led.Sink
	if sink != nil {
		sinks = append(sinks, sink)
	}
	core, err := app.InitCore(app.CoreConfig{
		Leds:           cfg.Strip.Count,
		StepIntervalMs: cfg.Game.StepIntervalMs,
		CalX:           cfg.Calibration.X,
		CalY:           cfg.Calibration.Y,
		Round: app.RoundConfig{
			Cells:          cfg.Game.MaxProgress,
			RestartDelayMs: cfg.Game.RestartDelayMs,
			Seed:           cfg.Game.Seed,
		},
	}, clk, stick, sinks...)
	if err != nil {
		return err
	}
	defer func() {
		if err := core.Close(); err != nil {
			log.Warn().Err(err).Msg("close strip")
		}
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()
	core.Hub.Driver = selected

	looper := &app.Looper{FPS: cfg.FPS, Frame: core.Frame}
	if term != nil {
		looper.Quit = term.Done()
		core.View = func(r *app.Round) {
			term.DrawGrid(r.Grid, r.Target, r.Cursor(), r.CursorOn())
			st := core.Bar.State()
			cur, max := core.Bar.Progress()
			term.SetStatus(fmt.Sprintf("round %d  %s  %d/%d  arrows move, space lights, q quits", r.Rounds(), st, cur, max))
		}
	}

	// ---- HTTP routes ----
	var srv *http.Server
	if cfg.Addr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", core.Hub.HandleFrames)
		mux.HandleFunc("/diag", core.Hub.HandleDiag)
		mux.HandleFunc("/health", core.Hub.HandleHealth)

		srv = &http.Server{
			Addr:         cfg.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Str("driver", selected).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server crashed")
			}
		}()
	}

	if err := core.Start(); err != nil {
		return err
	}
	log.Info().Str("driver", selected).Int("leds", cfg.Strip.Count).Int("fps", cfg.FPS).Msg("running")
	looper.Start(context.Background())
	log.Info().Uint64("frames", looper.Frames()).Msg("shutting down")

	if srv != nil {
		_ = srv.Close()
	}
	return nil
}

func setupLogging(level, file, driver string) func() {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// tcell owns the terminal in sim mode
	if file == "" && driver == "sim" {
		file = "gridglow.log"
	}
	if file == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
		return func() {}
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		log.Warn().Err(err).Str("file", file).Msg("log file; logging to stderr")
		return func() {}
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339})
	return func() { _ = f.Close() }
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// still is a stick that never moves, for headless runs.
type still struct{ raw int32 }

func (s still) Read() (analog.Sample, error) { return analog.Sample{Raw: s.raw}, nil }

type released struct{}

func (released) Read() gpio.Level { return gpio.Low }
