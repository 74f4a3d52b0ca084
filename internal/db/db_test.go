package db

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPollReady_Immediate(t *testing.T) {
	calls := 0
	err := PollReady(context.Background(), time.Second, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPollReady_EventuallyReady(t *testing.T) {
	calls := 0
	err := PollReady(context.Background(), 2*time.Second, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestPollReady_Timeout(t *testing.T) {
	err := PollReady(context.Background(), 250*time.Millisecond, func(context.Context) error {
		return errors.New("down")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestError_Unwrap(t *testing.T) {
	err := &Error{Op: OpHSet, Err: ErrClosed}
	if !errors.Is(err, ErrClosed) {
		t.Error("errors.Is should see the wrapped error")
	}
	if err.Error() != "HSET: db: store closed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
