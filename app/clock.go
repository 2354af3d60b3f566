package app

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies wall-clock time to the store.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// IDGenerator produces unique entity identifiers.
type IDGenerator func() string

// UUIDGenerator returns random (v4) UUID strings.
func UUIDGenerator() string {
	return uuid.NewString()
}

// tick returns the timestamp for the next event. Timestamps never repeat: if
// the clock has not advanced past the previous event, the previous value is
// bumped by one nanosecond.
func (s *Service) tick() time.Time {
	now := s.clock.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}

// now reads the clock without recording an event, for date comparisons.
func (s *Service) now() time.Time {
	return s.clock.Now()
}

// Now is the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}
