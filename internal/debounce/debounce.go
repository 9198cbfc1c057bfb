// Package debounce turns a rapidly changing value into a stable one that is
// only emitted after a quiet period.
//
// The Debouncer holds no timer of its own. Callers schedule the wakeup with
// whatever clock they run on (tea.Tick in the TUI, a virtual clock in tests)
// and hand the ticket back through Fire. Only the latest ticket is honored.
package debounce

import (
	"iter"
	"time"
)

// DefaultInterval is the idle period before a value is considered stable.
const DefaultInterval = 600 * time.Millisecond

// Ticket identifies one scheduled emission.
type Ticket struct {
	Seq   uint64
	Value string
}

// Debouncer implements cancel-and-reschedule semantics: every Schedule
// supersedes whatever was pending before it.
type Debouncer struct {
	interval time.Duration
	seq      uint64
	pending  string
	armed    bool
}

// New returns a Debouncer with the given idle interval. A non-positive
// interval falls back to DefaultInterval.
func New(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval}
}

// Interval reports the idle period.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Schedule records value as the latest input and returns the ticket the
// caller must present to Fire once Interval has elapsed.
func (d *Debouncer) Schedule(value string) Ticket {
	d.seq++
	d.pending = value
	d.armed = true
	return Ticket{Seq: d.seq, Value: value}
}

// Fire reports the stable value for seq. It returns false when seq was
// superseded by a later Schedule or the pending value was cancelled.
func (d *Debouncer) Fire(seq uint64) (string, bool) {
	if !d.armed || seq != d.seq {
		return "", false
	}
	d.armed = false
	return d.pending, true
}

// Cancel drops the pending value. Outstanding tickets become no-ops.
func (d *Debouncer) Cancel() {
	d.seq++
	d.armed = false
	d.pending = ""
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer) Pending() bool {
	return d.armed
}

// Input is one observed value at an offset on a virtual clock.
type Input struct {
	At    time.Duration
	Value string
}

// Emission is a stable value and the virtual time it settled at.
type Emission struct {
	At    time.Duration
	Value string
}

// Stable lazily yields the emissions a Debouncer would produce for inputs,
// which must be ordered by At. An input settles when the next one arrives
// at least interval later; the last input always settles.
func Stable(inputs iter.Seq[Input], interval time.Duration) iter.Seq[Emission] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return func(yield func(Emission) bool) {
		var (
			pending Input
			have    bool
		)
		for in := range inputs {
			if have && in.At-pending.At >= interval {
				if !yield(Emission{At: pending.At + interval, Value: pending.Value}) {
					return
				}
			}
			pending = in
			have = true
		}
		if have {
			yield(Emission{At: pending.At + interval, Value: pending.Value})
		}
	}
}
