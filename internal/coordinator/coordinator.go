package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by coordinators.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// RefreshFunc fetches a fresh data snapshot from the backing service.
type RefreshFunc[T any] func(ctx context.Context) (T, error)

// Coordinator polls a data source on an interval and shares the latest
// snapshot with any number of entities.
//
// One coordinator serves many entities: a single cloud request feeds
// every sensor derived from it. A failed refresh keeps the previous
// snapshot and flips LastUpdateSuccess to false; entities stay on their
// last known values until the source recovers.
//
// All public methods are thread-safe.
type Coordinator[T any] struct {
	name     string
	interval time.Duration
	refresh  RefreshFunc[T]
	logger   Logger

	mu          sync.RWMutex
	data        T
	lastSuccess bool
	lastUpdated time.Time

	listenerMu   sync.Mutex
	listeners    map[int]func()
	nextListener int

	requestCh chan struct{}
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// New creates a coordinator that refreshes via fn every interval.
func New[T any](name string, interval time.Duration, fn RefreshFunc[T]) *Coordinator[T] {
	return &Coordinator[T]{
		name:      name,
		interval:  interval,
		refresh:   fn,
		logger:    noopLogger{},
		listeners: make(map[int]func()),
		requestCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// SetLogger sets the logger for the coordinator.
func (c *Coordinator[T]) SetLogger(logger Logger) {
	c.logger = logger
}

// Name returns the coordinator's name, used in log output.
func (c *Coordinator[T]) Name() string {
	return c.name
}

// Start performs the initial refresh and begins the polling loop.
//
// If the initial refresh fails, the error is returned and the loop is
// not started; the caller decides whether setup should abort.
func (c *Coordinator[T]) Start(ctx context.Context) error {
	if err := c.refreshOnce(ctx); err != nil {
		return fmt.Errorf("initial refresh for %s: %w", c.name, err)
	}

	c.wg.Add(1)
	go c.run(ctx)
	return nil
}

// run is the polling loop. It exits when the context is cancelled or
// Stop is called.
func (c *Coordinator[T]) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
		case <-c.requestCh:
		}

		if err := c.refreshOnce(ctx); err != nil {
			c.logger.Warn("coordinator refresh failed",
				"coordinator", c.name, "error", err)
		}
	}
}

// refreshOnce fetches a snapshot and updates shared state.
//
// On failure the previous snapshot is kept; only the success flag and
// timestamp change.
func (c *Coordinator[T]) refreshOnce(ctx context.Context) error {
	data, err := c.refresh(ctx)

	c.mu.Lock()
	c.lastUpdated = time.Now().UTC()
	if err != nil {
		c.lastSuccess = false
		c.mu.Unlock()
		c.notifyListeners()
		return err
	}
	c.data = data
	c.lastSuccess = true
	c.mu.Unlock()

	c.logger.Debug("coordinator refreshed", "coordinator", c.name)
	c.notifyListeners()
	return nil
}

// Data returns the most recent successful snapshot.
// The zero value is returned before the first successful refresh.
func (c *Coordinator[T]) Data() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// LastUpdateSuccess reports whether the most recent refresh succeeded.
func (c *Coordinator[T]) LastUpdateSuccess() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

// LastUpdated returns when the last refresh attempt finished.
func (c *Coordinator[T]) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}

// AddListener registers a callback invoked after every refresh attempt,
// successful or not. The returned function removes the listener.
func (c *Coordinator[T]) AddListener(fn func()) (remove func()) {
	c.listenerMu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

// notifyListeners invokes all registered listeners outside the data lock.
func (c *Coordinator[T]) notifyListeners() {
	c.listenerMu.Lock()
	callbacks := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		callbacks = append(callbacks, fn)
	}
	c.listenerMu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// RequestRefresh asks the polling loop to refresh ahead of schedule.
// Non-blocking; coalesces with any refresh already pending.
func (c *Coordinator[T]) RequestRefresh() {
	select {
	case c.requestCh <- struct{}{}:
	default:
	}
}

// Stop terminates the polling loop and waits for it to exit.
// Safe to call multiple times.
func (c *Coordinator[T]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.wg.Wait()
}
