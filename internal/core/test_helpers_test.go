package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// settle gives the hub loop time to process a command that produces no
// observable event, so subsequent commands arrive in a known order.
func settle() {
	time.Sleep(50 * time.Millisecond)
}

// mustQuiet asserts that no event arrives within the window.
func mustQuiet(t *testing.T, ch <-chan *Event, window time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		if ev != nil {
			t.Fatalf("expected no event, got kind %v: %+v", ev.Kind, ev)
		}
	case <-time.After(window):
	}
}
