package clock

import (
	"errors"
	"testing"
	"time"
)

func TestUnixSeconds(t *testing.T) {
	got, err := UnixSeconds(time.Unix(1700000000, 999_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1700000000 {
		t.Fatalf("got %d want 1700000000", got)
	}

	if _, err := UnixSeconds(time.Unix(-1, 0)); !errors.Is(err, ErrBeforeEpoch) {
		t.Fatalf("expected ErrBeforeEpoch, got %v", err)
	}
}

func TestFixedClocker(t *testing.T) {
	at := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	c := NewFixed(at)

	if !c.Now().Equal(at) || !c.Now().Equal(c.Now()) {
		t.Fatalf("fixed clock moved: %v", c.Now())
	}
}
