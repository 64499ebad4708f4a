// Package clock supplies the current time in the single timezone all
// scheduling decisions are made in.
package clock

import (
	"time"
	_ "time/tzdata" // fixed-zone scheduling must not depend on the host zoneinfo

	"cloud.google.com/go/civil"
)

// Clock reports the current instant in its configured location.
type Clock interface {
	Now() time.Time
}

// System is the wall clock pinned to one location.
type System struct {
	loc *time.Location
}

// New loads tz (IANA name) and returns a wall clock in it.
func New(tz string) (*System, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &System{loc: loc}, nil
}

func (s *System) Now() time.Time { return time.Now().In(s.loc) }

// Location returns the clock's timezone.
func (s *System) Location() *time.Location { return s.loc }

// Fixed always reports the same instant. Used in tests and replays.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Today is the civil date of c's current instant.
func Today(c Clock) civil.Date { return civil.DateOf(c.Now()) }

// Hour is the civil hour (0..23) of c's current instant.
func Hour(c Clock) int { return c.Now().Hour() }
