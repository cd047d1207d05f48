package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadSuccess(t *testing.T) {
	var gotPath, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		gotModel = body["model"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, zerolog.Nop())
	if err := c.Load(context.Background(), "llama3.1-8b"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotPath != "/models/load" || gotModel != "llama3.1-8b" {
		t.Fatalf("unexpected request: path=%q model=%q", gotPath, gotModel)
	}
}

func TestUnloadNon200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, zerolog.Nop())
	if err := c.Unload(context.Background(), "m"); err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestTransportErrorIsFailure(t *testing.T) {
	// Port is closed immediately.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(Config{BaseURL: srv.URL}, zerolog.Nop())
	if err := c.Load(context.Background(), "m"); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestLoadRespectsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, LoadTimeout: 50 * time.Millisecond}, zerolog.Nop())
	start := time.Now()
	err := c.Load(context.Background(), "m")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not applied, took %v", time.Since(start))
	}
}

func TestDefaultTimeouts(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	if c.loadTimeout != DefaultLoadTimeout || c.unloadTimeout != DefaultUnloadTimeout {
		t.Fatalf("defaults not applied: %v %v", c.loadTimeout, c.unloadTimeout)
	}
}
