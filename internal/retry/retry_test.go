package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

type kindError struct{ msg string }

func (e *kindError) Error() string { return e.msg }

func TestDoPreservesLastError(t *testing.T) {
	want := &kindError{msg: "remote exploded"}
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 2, BaseDelay: time.Millisecond}, func() error {
		calls++
		return want
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	// The error kind must survive exhaustion untouched.
	var got *kindError
	if !errors.As(err, &got) {
		t.Fatalf("Do() error = %v, want *kindError", err)
	}
	if got != want {
		t.Errorf("Do() returned a different error instance: %v", got)
	}
}

func TestDoZeroRetriesRunsOnce(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 0, BaseDelay: time.Millisecond}, func() error {
		calls++
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("Do() = nil, want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, Config{MaxRetries: 10, BaseDelay: time.Hour}, func() error {
		calls++
		return errors.New("always fails")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (cancel should interrupt the backoff sleep)", calls)
	}
}

func TestDoBackoffDoubles(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: 10 * time.Millisecond, MaxDelay: time.Second}

	start := time.Now()
	_ = Do(context.Background(), cfg, func() error { return errors.New("fail") })
	elapsed := time.Since(start)

	// Delays: 10ms + 20ms + 40ms = 70ms minimum.
	if elapsed < 70*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 70ms of cumulative backoff", elapsed)
	}
}
