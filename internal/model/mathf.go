package model

// LerpF returns from + (to-from)*ratio.
func LerpF(from, to, ratio float64) float64 {
	return (to-from)*ratio + from
}

// InverseLerp returns where value sits between from and to, 0 at from and 1 at to.
func InverseLerp(value, from, to float64) float64 {
	return (value - from) / (to - from)
}

// Remap maps value from one range onto another, linearly and without clamping.
func Remap(value, fromStart, fromEnd, toStart, toEnd float64) float64 {
	return LerpF(toStart, toEnd, InverseLerp(value, fromStart, fromEnd))
}
