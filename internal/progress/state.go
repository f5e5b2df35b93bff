package progress

import "github.com/coreman2200/gridglow/internal/model"

// State is what the bar is currently showing.
type State uint8

const (
	None State = iota
	AnimatedProgression
	Fail
	Win
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case AnimatedProgression:
		return "animated_progression"
	case Fail:
		return "fail"
	case Win:
		return "win"
	default:
		return "unknown"
	}
}

// Palette holds the bar's colors.
type Palette struct {
	// Done is the steady color of completed segments.
	Done model.Color
	// InProgress is the blinking color of the segment being worked on.
	InProgress model.Color
	Fail       model.Color
}

var DefaultPalette = Palette{
	Done:       model.Color{G: .15},
	InProgress: model.Color{R: .15, G: .15, B: .15},
	Fail:       model.Color{R: .15},
}

const (
	DefaultStepIntervalMs int64   = 1000
	DefaultFadeStep       float64 = .0025
	DefaultMaxProgress    uint16  = 10
)
