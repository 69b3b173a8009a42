package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/daniacca/rxtrig/internal/rxn"
)

// DefaultWebhookTimeout bounds a single delivery attempt.
const DefaultWebhookTimeout = 5 * time.Second

// StatusError is returned when the webhook answers outside 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// WebhookNotifier posts overflow events as JSON to a URL.
// Every request carries the event ID in X-Rxtrig-Event so receivers can
// drop the duplicates that retries produce.
type WebhookNotifier struct {
	id     string
	url    string
	client *http.Client

	mu      sync.RWMutex
	headers http.Header
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithWebhookClient replaces the default client (timeout DefaultWebhookTimeout).
func WithWebhookClient(c *http.Client) WebhookOption {
	return func(wn *WebhookNotifier) {
		if c != nil {
			wn.client = c
		}
	}
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(id, url string, opts ...WebhookOption) *WebhookNotifier {
	wn := &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: DefaultWebhookTimeout},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(wn)
	}
	return wn
}

// SetHeader sets a custom header to include in webhook requests
func (wn *WebhookNotifier) SetHeader(key, value string) {
	wn.mu.Lock()
	defer wn.mu.Unlock()
	wn.headers.Set(key, value)
}

func (wn *WebhookNotifier) ID() string   { return wn.id }
func (wn *WebhookNotifier) Type() string { return "webhook" }
func (wn *WebhookNotifier) URL() string  { return wn.url }

// Notify posts the event; any non-2xx response is a *StatusError.
func (wn *WebhookNotifier) Notify(ctx context.Context, event rxn.OverflowEvent) error {
	body, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	wn.mu.RLock()
	maps.Copy(req.Header, wn.headers.Clone())
	wn.mu.RUnlock()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Rxtrig-Event", event.ID)

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close is a no-op for webhooks
func (wn *WebhookNotifier) Close() error {
	return nil
}
