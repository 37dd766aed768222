// Package transport is the client's HTTP pipeline to the deal-pipeline
// backend. Every call flows through a fixed composition: the outbound
// Authenticator attaches the bearer token, the request is sent, and the
// fault handler inspects the outcome before the caller sees it.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/ports"
	"github.com/investbank/pipeline-client/internal/transport/metrics"
)

// Client issues JSON round-trips against the backend. It implements
// ports.Doer.
type Client struct {
	baseURL string
	http    *http.Client
	auth    *Authenticator
	fault   *faultHandler
	log     zerolog.Logger
}

// Config captures the settings for building a transport client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8081/api".
	BaseURL string
	// Timeout bounds a single round-trip. Zero means no timeout, matching
	// the pending-forever behaviour of the original client.
	Timeout time.Duration
	// Transport overrides the underlying RoundTripper beneath the
	// Authenticator; nil means http.DefaultTransport. Tests use this to
	// point at an in-process stub server.
	Transport http.RoundTripper
}

// NewClient builds the transport pipeline. sessions supplies the token for
// outbound attachment and may be nil at construction: the session store is
// itself built on top of this client, so the composition root wires the
// store back in with SetSessionReader and SetSessionInvalidator right after.
func NewClient(cfg Config, sessions ports.SessionReader, log zerolog.Logger) *Client {
	auth := NewAuthenticator(sessions, cfg.Transport)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: auth,
			Timeout:   cfg.Timeout,
		},
		auth:  auth,
		fault: &faultHandler{log: log},
		log:   log,
	}
}

// SetSessionReader wires the token source for the outbound authenticator.
func (c *Client) SetSessionReader(sessions ports.SessionReader) {
	c.auth.setSessions(sessions)
}

// SetSessionInvalidator wires the hook the fault handler invokes on a 401
// from a non-auth endpoint. Called once at composition time.
func (c *Client) SetSessionInvalidator(inv ports.SessionInvalidator) {
	c.fault.invalidator = inv
}

// Do implements ports.Doer: one JSON round-trip with the full interceptor
// pipeline applied.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "network_error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "network_error").Inc()
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.fault.handle(ctx, method, path, resp.StatusCode, raw)
	}

	metrics.RequestsTotal.WithLabelValues(method, "ok").Inc()

	if out == nil || len(raw) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
