package domain

import "fmt"

// Window is a half-open range of civil hours [Start, End).
// Invariant: 0 <= Start < End <= 24.
type Window struct {
	Start int
	End   int
}

// Contains reports whether hour falls inside [Start, End).
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// LastHour is the final hour of the window; the continuation prompt goes out then.
// For 9-20 this is 19.
func (w Window) LastHour() int { return w.End - 1 }

// IsLastHour reports whether hour is the window's final dispatch hour.
func (w Window) IsLastHour(hour int) bool { return hour == w.LastHour() }

func (w Window) String() string { return fmt.Sprintf("%d-%d", w.Start, w.End) }
