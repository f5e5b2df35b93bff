package model

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Channel offsets inside a packed GRB word, as clocked out to WS2812 strips.
const (
	GREEN_OFFSET uint8 = 0x10
	RED_OFFSET   uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// Color is a normalized RGB triple. Channels are expected in [0,1] but the
// arithmetic below never clamps; callers keep values in range.
type Color struct {
	R, G, B float64
}

var (
	Black = Color{}
	White = Color{R: 1, G: 1, B: 1}
	Green = Color{G: 1}
	Red   = Color{R: 1}
)

func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

func (c Color) Add(o Color) Color { return Color{c.R + o.R, c.G + o.G, c.B + o.B} }
func (c Color) Sub(o Color) Color { return Color{c.R - o.R, c.G - o.G, c.B - o.B} }

func (c Color) Scale(f float64) Color { return Color{c.R * f, c.G * f, c.B * f} }
func (c Color) Div(f float64) Color   { return Color{c.R / f, c.G / f, c.B / f} }

// Equal is exact channel equality.
func (c Color) Equal(o Color) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B
}

// Distance is the Euclidean distance between c and o in channel space.
func (c Color) Distance(o Color) float64 {
	return c.colorful().DistanceRgb(o.colorful())
}

// Lerp interpolates each channel from a to b by ratio. Ratio is not clamped.
func Lerp(a, b Color, ratio float64) Color {
	return fromColorful(a.colorful().BlendRgb(b.colorful(), ratio))
}

// MoveTowards steps from a toward b by at most distance. When b is within
// reach it is returned exactly, so repeated calls always terminate on b.
func MoveTowards(a, b Color, distance float64) Color {
	current := a.Distance(b)
	if current <= distance {
		return b
	}

	dir := b.Sub(a).Div(current)
	return a.Add(dir.Scale(distance))
}

// Clamped returns c with every channel limited to [0,1].
func (c Color) Clamped() Color {
	return fromColorful(c.colorful().Clamped())
}

// Hex formats the clamped color as #rrggbb.
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

func channel(v float64) uint32 {
	return uint32(v * 255)
}

func setcolor(c uint32, n uint32, off uint8) uint32 {
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | ((n & 0xFF) << off)
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

// GRB packs the color in strip wire order: green, red, blue.
func (c Color) GRB() uint32 {
	var v uint32
	v = setcolor(v, channel(c.G), GREEN_OFFSET)
	v = setcolor(v, channel(c.R), RED_OFFSET)
	v = setcolor(v, channel(c.B), BLUE_OFFSET)
	return v
}

// RGB packs the color as a conventional 0xRRGGBB word.
func (c Color) RGB() uint32 {
	return channel(c.R)<<16 | channel(c.G)<<8 | channel(c.B)
}

// UnpackGRB splits a GRB word produced by Color.GRB.
func UnpackGRB(v uint32) (r, g, b uint8) {
	return getcolor(v, RED_OFFSET), getcolor(v, GREEN_OFFSET), getcolor(v, BLUE_OFFSET)
}
