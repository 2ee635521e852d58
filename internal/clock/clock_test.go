package clock

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	c := NewManual(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	c.Advance(12 * time.Minute)
	if got := c.Now(); !got.Equal(start.Add(12 * time.Minute)) {
		t.Fatalf("after Advance, Now() = %v", got)
	}

	later := start.Add(24 * time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Fatalf("after Set, Now() = %v, want %v", got, later)
	}
}

func TestSystemClockIsUTC(t *testing.T) {
	now := System().Now()
	if now.Location() != time.UTC {
		t.Fatalf("system clock location = %v, want UTC", now.Location())
	}
}
