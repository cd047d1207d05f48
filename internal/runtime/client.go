// Package runtime talks to the external inference runtime that actually
// holds model weights, over its load/unload HTTP API.
package runtime

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
)

// Default call timeouts. Loading large weights on a constrained host can
// legitimately take minutes; unloading should not.
const (
	DefaultLoadTimeout   = 2 * time.Minute
	DefaultUnloadTimeout = 15 * time.Second
)

// Config tunes the client. Zero values take the package defaults.
type Config struct {
	BaseURL       string
	LoadTimeout   time.Duration
	UnloadTimeout time.Duration
}

// Client issues load/unload calls against the runtime. Any non-200 response
// or transport error is a failure for that call, never a fatal condition.
type Client struct {
	base          string
	http          *http.Client
	loadTimeout   time.Duration
	unloadTimeout time.Duration
	log           zerolog.Logger
}

// New builds a runtime client.
func New(cfg Config, log zerolog.Logger) *Client {
	c := &Client{
		base:          strings.TrimRight(cfg.BaseURL, "/"),
		http:          &http.Client{},
		loadTimeout:   cfg.LoadTimeout,
		unloadTimeout: cfg.UnloadTimeout,
		log:           log,
	}
	if c.loadTimeout <= 0 {
		c.loadTimeout = DefaultLoadTimeout
	}
	if c.unloadTimeout <= 0 {
		c.unloadTimeout = DefaultUnloadTimeout
	}
	return c
}

// Load asks the runtime to load model weights. Blocks until the runtime
// answers or the load timeout elapses.
func (c *Client) Load(ctx context.Context, modelID string) error {
	return c.post(ctx, "/models/load", modelID, c.loadTimeout)
}

// Unload asks the runtime to release model weights.
func (c *Client) Unload(ctx context.Context, modelID string) error {
	return c.post(ctx, "/models/unload", modelID, c.unloadTimeout)
}

func (c *Client) post(ctx context.Context, path, modelID string, timeout time.Duration) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	body, err := json.Marshal(map[string]string{"model": modelID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("runtime %s: %w", path, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("runtime %s: status %d", path, resp.StatusCode)
	}
	c.log.Debug().Str("path", path).Str("model", modelID).
		Dur("dur", time.Since(start)).Msg("runtime call ok")
	return nil
}
