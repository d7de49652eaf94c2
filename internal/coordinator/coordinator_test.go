package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartInitialRefresh(t *testing.T) {
	t.Run("success caches data", func(t *testing.T) {
		c := New("test", time.Hour, func(ctx context.Context) (int, error) {
			return 42, nil
		})
		if err := c.Start(context.Background()); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		defer c.Stop()

		if got := c.Data(); got != 42 {
			t.Errorf("Data() = %d, want 42", got)
		}
		if !c.LastUpdateSuccess() {
			t.Error("LastUpdateSuccess() = false, want true")
		}
		if c.LastUpdated().IsZero() {
			t.Error("LastUpdated() is zero after refresh")
		}
	})

	t.Run("failure aborts start", func(t *testing.T) {
		refreshErr := errors.New("cloud unreachable")
		c := New("test", time.Hour, func(ctx context.Context) (int, error) {
			return 0, refreshErr
		})

		err := c.Start(context.Background())
		if !errors.Is(err, refreshErr) {
			t.Errorf("Start() error = %v, want %v", err, refreshErr)
		}
		if c.LastUpdateSuccess() {
			t.Error("LastUpdateSuccess() = true after failed refresh")
		}
	})
}

func TestFailedRefreshKeepsPreviousData(t *testing.T) {
	var calls atomic.Int64
	c := New("test", time.Hour, func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "snapshot-1", nil
		}
		return "", errors.New("transient failure")
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer c.Stop()

	// Force a second, failing refresh.
	done := make(chan struct{})
	remove := c.AddListener(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	defer remove()

	c.RequestRefresh()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run")
	}

	if got := c.Data(); got != "snapshot-1" {
		t.Errorf("Data() = %q after failed refresh, want snapshot-1", got)
	}
	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess() = true, want false")
	}
}

func TestIntervalRefresh(t *testing.T) {
	var calls atomic.Int64
	c := New("test", 20*time.Millisecond, func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() < 3 {
		t.Errorf("refresh calls = %d, want at least 3", calls.Load())
	}
}

func TestListeners(t *testing.T) {
	c := New("test", time.Hour, func(ctx context.Context) (int, error) {
		return 1, nil
	})

	var mu sync.Mutex
	notified := 0
	remove := c.AddListener(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer c.Stop()

	mu.Lock()
	first := notified
	mu.Unlock()
	if first != 1 {
		t.Errorf("listener notified %d times after initial refresh, want 1", first)
	}

	// Removed listeners see no further notifications.
	remove()
	done := make(chan struct{})
	c.AddListener(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	c.RequestRefresh()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run")
	}

	mu.Lock()
	defer mu.Unlock()
	if notified != 1 {
		t.Errorf("removed listener notified %d times, want 1", notified)
	}
}

func TestStopIdempotent(t *testing.T) {
	c := New("test", time.Hour, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	c.Stop()
	c.Stop() // must not panic
}

func TestContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := New("test", 10*time.Millisecond, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()

	// Stop waits for the loop; returning means the goroutine exited.
	doneCh := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("polling loop did not exit on context cancel")
	}
}
