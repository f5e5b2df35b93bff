package led

import (
	"errors"
)

// Strip is an addressable LED strip. Pixels are packed GRB words; nothing
// reaches the hardware until Show.
type Strip interface {
	Len() int
	SetPixel(i int, grb uint32)
	Show() error
}

// Sink receives every committed frame.
type Sink interface {
	Write(frame []uint32) error
	Close() error
}

// Buffer is the in-memory pixel buffer behind a Strip. Show hands a copy of
// the pixels to each attached sink.
type Buffer struct {
	px    []uint32
	out   []uint32
	sinks []Sink
	frame uint64
}

func NewBuffer(n int, sinks ...Sink) *Buffer {
	return &Buffer{
		px:    make([]uint32, n),
		out:   make([]uint32, n),
		sinks: sinks,
	}
}

func (b *Buffer) Attach(s Sink) {
	b.sinks = append(b.sinks, s)
}

func (b *Buffer) Len() int { return len(b.px) }

// SetPixel ignores indexes past the end of the strip.
func (b *Buffer) SetPixel(i int, grb uint32) {
	if i < 0 || i >= len(b.px) {
		return
	}
	b.px[i] = grb
}

func (b *Buffer) Show() error {
	b.frame++
	copy(b.out, b.px)

	var errs []error
	for _, s := range b.sinks {
		if err := s.Write(b.out); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Pixels returns a copy of the last committed frame.
func (b *Buffer) Pixels() []uint32 {
	out := make([]uint32, len(b.out))
	copy(out, b.out)
	return out
}

// Frame counts Show calls.
func (b *Buffer) Frame() uint64 { return b.frame }

func (b *Buffer) Close() error {
	var errs []error
	for _, s := range b.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
