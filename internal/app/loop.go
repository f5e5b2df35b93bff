package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultFPS = 60

// Looper calls a frame function at a fixed rate until the context ends, a
// signal arrives or Quit is closed.
type Looper struct {
	FPS   int
	Frame func() error
	// Quit, when set, stops the loop once closed.
	Quit <-chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	c      chan os.Signal
	frames uint64
}

func (l *Looper) refresh() {
	defer l.wg.Done()
	defer l.cancel()

	fps := l.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.frames++
			if err := l.Frame(); err != nil {
				log.Warn().Err(err).Uint64("frame", l.frames).Msg("frame")
			}

		case <-l.Quit:
			log.Info().Msg("quit requested")
			return

		case sig := <-l.c:
			log.Info().Str("signal", sig.String()).Msg("aborting")
			return

		case <-l.ctx.Done():
			return
		}
	}
}

// Start blocks until the loop stops.
func (l *Looper) Start(ctx context.Context) {
	l.ctx, l.cancel = context.WithCancel(ctx)

	l.c = make(chan os.Signal, 1)
	signal.Notify(l.c, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(l.c)
		l.cancel()
	}()

	l.wg.Add(1)
	go l.refresh()
	l.wg.Wait()
}

// Frames is how many frames ran. Read it after Start returns.
func (l *Looper) Frames() uint64 { return l.frames }
