package progress

// Ratchet is a repeating deadline that only ever moves forward by whole
// intervals from where it was scheduled, so irregular polling never adds drift.
type Ratchet struct {
	Interval int64
	next     int64
}

func NewRatchet(interval int64) Ratchet {
	return Ratchet{Interval: interval}
}

// Reset schedules the first deadline one interval after now.
func (r *Ratchet) Reset(now int64) {
	r.next = now + r.Interval
}

// Due reports whether the deadline has passed and, if so, advances it by
// exactly one interval. An overdue ratchet fires once per call until caught up.
func (r *Ratchet) Due(now int64) bool {
	if now < r.next {
		return false
	}
	r.next += r.Interval
	return true
}

// Next is the pending deadline.
func (r *Ratchet) Next() int64 {
	return r.next
}
