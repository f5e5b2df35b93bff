package input

// Edge detects the rising edge of a boolean sampled once per frame.
type Edge struct {
	prev  bool
	frame uint64
}

// JustDown reports a rising edge between the latched level and level.
func (e *Edge) JustDown(level bool) bool {
	return level && !e.prev
}

// JustUp reports a falling edge between the latched level and level.
func (e *Edge) JustUp(level bool) bool {
	return !level && e.prev
}

// Latch stores level as the previous state and closes the frame.
func (e *Edge) Latch(level bool) {
	e.prev = level
	e.frame++
}

func (e *Edge) Frame() uint64 { return e.frame }
