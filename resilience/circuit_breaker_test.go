package resilience

import (
	stderrors "errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(clock *fakeClock, transitions *[]State) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "google",
		MaxFailures: 2,
		OpenTimeout: time.Minute,
		Now:         clock.Now,
		OnStateChange: func(_ string, _, to State) {
			if transitions != nil {
				*transitions = append(*transitions, to)
			}
		},
	})
}

var errEngine = stderrors.New("engine down")

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newTestBreaker(clock, nil)

	_ = cb.Execute(func() error { return errEngine })
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after one failure, got %s", cb.State())
	}
	_ = cb.Execute(func() error { return errEngine })
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("fn must not run while open")
		return nil
	})
	if !stderrors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newTestBreaker(clock, nil)

	_ = cb.Execute(func() error { return errEngine })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errEngine })
	if cb.State() != StateClosed {
		t.Errorf("non-consecutive failures should not open, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []State
	cb := newTestBreaker(clock, &transitions)

	_ = cb.Execute(func() error { return errEngine })
	_ = cb.Execute(func() error { return errEngine })
	clock.Advance(time.Minute)

	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half-open, got %s", cb.State())
	}
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed after successful probe, got %s", cb.State())
	}

	want := []State{StateOpen, StateHalfOpen, StateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newTestBreaker(clock, nil)
	_ = cb.Execute(func() error { return errEngine })
	_ = cb.Execute(func() error { return errEngine })
	clock.Advance(time.Minute)

	_ = cb.Execute(func() error { return errEngine })
	if cb.State() != StateOpen {
		t.Errorf("expected open after failed probe, got %s", cb.State())
	}
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	errIgnored := stderrors.New("user error")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures: 1,
		IsFailure:   func(err error) bool { return err != nil && !stderrors.Is(err, errIgnored) },
	})
	_ = cb.Execute(func() error { return errIgnored })
	if cb.State() != StateClosed {
		t.Errorf("filtered errors must not open the circuit, got %s", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1})
	_ = cb.Execute(func() error { return errEngine })
	cb.Reset()
	if cb.State() != StateClosed {
		t.Errorf("expected closed after reset, got %s", cb.State())
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{StateClosed: "closed", StateOpen: "open", StateHalfOpen: "half-open", State(9): "unknown"}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
