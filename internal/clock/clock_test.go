package clock

import (
	"testing"
	"time"
)

func TestFixed_ReturnsUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, loc)

	got := NewFixed(at).Now()
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", got.Location())
	}
	if !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
}

func TestFunc_NormalizesToUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("X", 2*60*60)
	calls := 0
	c := Func(func() time.Time {
		calls++
		return time.Date(2025, 1, 1, 12, 0, 0, 0, loc)
	})

	got := c.Now()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if got.Location() != time.UTC || got.Hour() != 10 {
		t.Fatalf("expected 10:00 UTC, got %v", got)
	}
}
