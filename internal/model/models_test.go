package model_test

import (
	"strconv"
	"testing"

	. "github.com/coreman2200/gridglow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var TestColorPacksToExpectedWords = []struct {
	Given Color
	GRB   uint32
	RGB   uint32
}{
	{Black, 0x000000, 0x000000},
	{White, 0xFFFFFF, 0xFFFFFF},
	{Red, 0x00FF00, 0xFF0000},
	{Green, 0xFF0000, 0x00FF00},
	{Color{B: 1}, 0x0000FF, 0x0000FF},
	{Color{G: .15}, 0x260000, 0x002600},
	{Color{R: .15, G: .15, B: .15}, 0x262626, 0x262626},
	{Color{R: .15}, 0x002600, 0x260000},
}

func TestColorsPacked(t *testing.T) {
	for k, v := range TestColorPacksToExpectedWords {
		t.Run("Given color"+strconv.Itoa(k), func(t *testing.T) {
			assert.Equal(t, v.GRB, v.Given.GRB(), "grb word")
			assert.Equal(t, v.RGB, v.Given.RGB(), "rgb word")

			r, g, b := UnpackGRB(v.Given.GRB())
			assert.Equal(t, uint8(v.RGB>>16), r)
			assert.Equal(t, uint8(v.RGB>>8), g)
			assert.Equal(t, uint8(v.RGB), b)
		})
	}
}

func TestColorArithmetic(t *testing.T) {
	a := NewColor(.2, .4, .6)
	b := NewColor(.1, .1, .1)

	assert.InDelta(t, .3, a.Add(b).R, 1e-9)
	assert.InDelta(t, .3, a.Sub(b).G, 1e-9)
	assert.InDelta(t, 1.2, a.Scale(2).B, 1e-9)
	assert.InDelta(t, .1, a.Div(2).R, 1e-9)
	assert.True(t, a.Equal(NewColor(.2, .4, .6)))
	assert.False(t, a.Equal(b))
}

func TestColorArithmeticIsNotClamped(t *testing.T) {
	c := White.Add(White)
	assert.Equal(t, 2.0, c.R)
	assert.Equal(t, Color{R: 1, G: 1, B: 1}, c.Clamped())
}

func TestLerpInterpolatesEachChannel(t *testing.T) {
	a := NewColor(0, 0, 0)
	b := NewColor(1, .5, .25)
	m := Lerp(a, b, .5)

	assert.InDelta(t, .5, m.R, 1e-9)
	assert.InDelta(t, .25, m.G, 1e-9)
	assert.InDelta(t, .125, m.B, 1e-9)
	assert.Equal(t, a, Lerp(a, b, 0))
}

func TestMoveTowards(t *testing.T) {
	a := NewColor(0, 0, 0)
	b := NewColor(.3, .4, 0) // distance .5

	t.Run("within reach returns target", func(t *testing.T) {
		assert.Equal(t, b, MoveTowards(a, b, .5))
		assert.Equal(t, b, MoveTowards(a, b, 2))
	})

	t.Run("out of reach moves by distance", func(t *testing.T) {
		m := MoveTowards(a, b, .25)
		assert.InDelta(t, .15, m.R, 1e-9)
		assert.InDelta(t, .2, m.G, 1e-9)
		assert.InDelta(t, 0, m.B, 1e-9)
		assert.InDelta(t, .25, a.Distance(m), 1e-9)
		assert.Less(t, m.Distance(b), a.Distance(b))
	})

	t.Run("fade terminates exactly on target", func(t *testing.T) {
		from := NewColor(0, .15, 0)
		to := NewColor(.15, .15, .15)
		c := from
		steps := 0
		for !c.Equal(to) {
			c = MoveTowards(c, to, .0025)
			steps++
			require.Less(t, steps, 1000)
		}
		assert.Equal(t, 85, steps)
	})
}

func TestRemap(t *testing.T) {
	assert.InDelta(t, 0, Remap(0, 0, 1023, 0, 7), 1e-9)
	assert.InDelta(t, 7, Remap(1023, 0, 1023, 0, 7), 1e-9)
	assert.InDelta(t, 3.5, Remap(50, 0, 100, 0, 7), 1e-9)
	assert.InDelta(t, .5, InverseLerp(5, 0, 10), 1e-9)
	assert.InDelta(t, 15, LerpF(10, 20, .5), 1e-9)
}

func TestCoordinateIsZero(t *testing.T) {
	assert.True(t, Coordinate{}.IsZero())
	assert.False(t, Coordinate{X: 1}.IsZero())
	assert.False(t, Coordinate{Y: 3}.IsZero())
	assert.Equal(t, Coordinate{X: 2, Y: 5}, Coordinate{X: 2, Y: 5})
}

func TestGridStartsEmpty(t *testing.T) {
	var g Grid
	assert.Equal(t, 0, g.OnAmount())
	assert.Len(t, g.OffPositions(), GridSize*GridSize)
	assert.True(t, g.Equal(NewGrid()))
}

func TestGridSetGetClear(t *testing.T) {
	g := NewGrid()
	g.SetAt(Coordinate{X: 1, Y: 2}, true)
	g.SetAt(Coordinate{X: 7, Y: 7}, true)

	assert.True(t, g.GetAt(Coordinate{X: 1, Y: 2}))
	assert.False(t, g.GetAt(Coordinate{X: 2, Y: 1}))
	assert.Equal(t, 2, g.OnAmount())
	assert.Len(t, g.OffPositions(), GridSize*GridSize-2)

	assert.False(t, g.Toggle(Coordinate{X: 1, Y: 2}))
	assert.Equal(t, 1, g.OnAmount())

	g.Clear()
	assert.Equal(t, 0, g.OnAmount())
	assert.Len(t, g.OffPositions(), GridSize*GridSize)
}

func TestGridOffPositionsOrder(t *testing.T) {
	g := NewGrid()
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			g.SetAt(Coordinate{X: x, Y: y}, true)
		}
	}
	g.SetAt(Coordinate{X: 3, Y: 0}, false)
	g.SetAt(Coordinate{X: 0, Y: 5}, false)
	g.SetAt(Coordinate{X: 3, Y: 1}, false)

	assert.Equal(t, []Coordinate{{X: 0, Y: 5}, {X: 3, Y: 0}, {X: 3, Y: 1}}, g.OffPositions())
}

func TestGridEquality(t *testing.T) {
	a, b := NewGrid(), NewGrid()
	a.SetAt(Coordinate{X: 0, Y: 1}, true)
	b.SetAt(Coordinate{X: 1, Y: 0}, true)

	// same count, different pattern
	assert.Equal(t, a.OnAmount(), b.OnAmount())
	assert.False(t, a.Equal(b))

	b.SetAt(Coordinate{X: 1, Y: 0}, false)
	b.SetAt(Coordinate{X: 0, Y: 1}, true)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 1, a.Matches(b))
}

func TestGridBounds(t *testing.T) {
	g := NewGrid()
	assert.True(t, Valid(Coordinate{X: 7, Y: 0}))
	assert.False(t, Valid(Coordinate{X: 8, Y: 0}))
	assert.False(t, Valid(Coordinate{X: 0, Y: -1}))
	assert.Panics(t, func() { g.SetAt(Coordinate{X: GridSize, Y: 0}, true) })
	assert.Panics(t, func() { g.GetAt(Coordinate{X: 0, Y: -1}) })
}

func TestGridString(t *testing.T) {
	g := NewGrid()
	g.SetAt(Coordinate{X: 0, Y: 0}, true)
	g.SetAt(Coordinate{X: 1, Y: 7}, true)

	want := "#.......\n" +
		".......#\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		"........"
	assert.Equal(t, want, g.String())
}
