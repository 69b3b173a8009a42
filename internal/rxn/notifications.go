package rxn

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// OverflowEvent describes a trigger call that had more matching reactions
// than its output could hold.
type OverflowEvent struct {
	ID        string `json:"id"`
	Trigger   string `json:"trigger"`
	Limit     int    `json:"limit"`
	Timestamp int64  `json:"timestamp"`
}

// JSON returns the event as JSON bytes
func (e OverflowEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface that all diagnostic channels must implement
type Notifier interface {
	// ID returns a unique identifier for this notifier
	ID() string

	// Type returns the type of notifier (e.g., "webhook", "websocket")
	Type() string

	// Notify delivers an event. The context can be used for cancellation and timeout.
	Notify(ctx context.Context, event OverflowEvent) error

	// Close closes the notifier and releases any resources
	Close() error
}

// NotificationManager fans overflow events out to registered notifiers.
// It implements Recorder: ObserveOverflow only enqueues, delivery happens on
// worker goroutines, so the triggers never wait on a slow notifier.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan OverflowEvent
	closed    bool
	dropped   atomic.Uint64
	wg        sync.WaitGroup
	logger    Logger
	now       func() time.Time
}

// NewNotificationManager creates a manager with one worker and a no-op logger
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a manager that reports delivery failures to logger
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	mgr := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan OverflowEvent, 1024),
		logger:    logger,
		now:       time.Now,
	}
	mgr.startWorkers(1)
	return mgr
}

// RegisterNotifier registers a notifier with the manager
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}

	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()

	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}

	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier closes and removes a notifier
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	if exists {
		delete(nm.notifiers, id)
	}
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}
	return nil
}

// GetNotifier retrieves a notifier by ID
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns a list of all registered notifier IDs
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Dropped returns how many events were discarded because the queue was full.
func (nm *NotificationManager) Dropped() uint64 {
	return nm.dropped.Load()
}

// ObserveTrigger is part of Recorder; plain calls are not forwarded.
func (nm *NotificationManager) ObserveTrigger(TriggerKind, int) {}

// ObserveOverflow enqueues an OverflowEvent for asynchronous delivery.
func (nm *NotificationManager) ObserveOverflow(kind TriggerKind, limit int) {
	nm.Enqueue(OverflowEvent{
		ID:        NewRandomID(),
		Trigger:   kind.String(),
		Limit:     limit,
		Timestamp: nm.now().Unix(),
	})
}

// Enqueue queues an event for the workers. It never blocks: when the queue
// is full the event is dropped and counted.
func (nm *NotificationManager) Enqueue(event OverflowEvent) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return
	}

	select {
	case nm.jobs <- event:
	default:
		nm.dropped.Add(1)
	}
}

// startWorkers starts n worker goroutines to process queued events
func (nm *NotificationManager) startWorkers(n int) {
	for range n {
		nm.wg.Add(1)
		go nm.worker()
	}
}

func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for event := range nm.jobs {
		nm.dispatch(event)
	}
}

// dispatch delivers one event to every registered notifier
func (nm *NotificationManager) dispatch(event OverflowEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nm.mu.RLock()
	targets := make([]Notifier, 0, len(nm.notifiers))
	for _, n := range nm.notifiers {
		targets = append(targets, n)
	}
	nm.mu.RUnlock()

	for _, n := range targets {
		nm.notifyWithRetry(ctx, n, event)
	}
}

// notifyWithRetry attempts delivery with exponential backoff
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifier Notifier, event OverflowEvent) {
	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifier.ID(), attempt+1, err)

		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifier.ID())
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Close drains the queue, stops the workers and closes every notifier
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	nm.wg.Wait()

	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}
	return nil
}
