// Package client is a Go client for the rxtrig-server HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to one rxtrig-server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method string, path []string, in, out any) error {
	u, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, []string{"healthz"}, nil, nil)
}

// Species lists every species and surface class known to the server.
func (c *Client) Species(ctx context.Context) ([]SpeciesInfo, error) {
	var out SpeciesList
	if err := c.do(ctx, http.MethodGet, []string{"species"}, nil, &out); err != nil {
		return nil, err
	}
	return out.Species, nil
}

// Reactions lists every reaction in table order.
func (c *Client) Reactions(ctx context.Context) ([]ReactionInfo, error) {
	var out ReactionList
	if err := c.do(ctx, http.MethodGet, []string{"reactions"}, nil, &out); err != nil {
		return nil, err
	}
	return out.Reactions, nil
}

func (c *Client) trigger(ctx context.Context, kind string, in any) (*TriggerResponse, error) {
	var out TriggerResponse
	if err := c.do(ctx, http.MethodPost, []string{"trigger", kind}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unimolecular asks for the unimolecular reaction of a molecule.
func (c *Client) Unimolecular(ctx context.Context, req UnimolecularRequest) (*TriggerResponse, error) {
	return c.trigger(ctx, "unimolecular", req)
}

// SurfaceUnimolecular asks for the reaction of a surface molecule with a wall.
func (c *Client) SurfaceUnimolecular(ctx context.Context, req SurfaceUnimolecularRequest) (*TriggerResponse, error) {
	return c.trigger(ctx, "surface-unimolecular", req)
}

// Bimolecular asks for the reactions between two molecules.
func (c *Client) Bimolecular(ctx context.Context, req BimolecularRequest) (*TriggerResponse, error) {
	return c.trigger(ctx, "bimolecular", req)
}

// Trimolecular asks for the reactions among three species.
func (c *Client) Trimolecular(ctx context.Context, req TrimolecularRequest) (*TriggerResponse, error) {
	return c.trigger(ctx, "trimolecular", req)
}

// Intersect asks for the reaction of a molecule crossing a wall.
func (c *Client) Intersect(ctx context.Context, req IntersectRequest) (*TriggerResponse, error) {
	return c.trigger(ctx, "intersect", req)
}

// Notifiers lists the registered diagnostics notifiers.
func (c *Client) Notifiers(ctx context.Context) ([]NotifierInfo, error) {
	var out NotifierList
	if err := c.do(ctx, http.MethodGet, []string{"notifiers"}, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifiers, nil
}

// RegisterWebhook registers a webhook that receives overflow events.
func (c *Client) RegisterWebhook(ctx context.Context, id, webhookURL string, headers map[string]string) error {
	req := RegisterNotifierRequest{
		Type:   "webhook",
		ID:     id,
		Config: WebhookConfig{URL: webhookURL, Headers: headers},
	}
	return c.do(ctx, http.MethodPost, []string{"notifiers"}, req, nil)
}

// UnregisterNotifier removes a notifier by ID.
func (c *Client) UnregisterNotifier(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, []string{"notifiers", id}, nil, nil)
}
