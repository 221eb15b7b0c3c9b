package backend

import (
	"context"
	"testing"
	"time"
)

func TestNilThrottleNeverWaits(t *testing.T) {
	var th *Throttle
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if NewThrottle(0, 1) != nil {
		t.Fatal("expected nil throttle for zero rate")
	}
}

func TestThrottleHonoursCancelledContext(t *testing.T) {
	th := NewThrottle(0.001, 1)
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("first token should be immediate: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := th.Wait(ctx); err == nil {
		t.Fatal("expected second wait to fail once the context expires")
	}
}
