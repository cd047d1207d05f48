package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetd/pkg/types"
)

// Service defines the scheduler methods required by the HTTP API layer.
type Service interface {
	Models() []types.ModelSpec
	Status() types.StatusResponse
	GetOrLoadModelForTask(ctx context.Context, task types.Task) (string, string, error)
	Load(ctx context.Context, id string) error
	Evict(ctx context.Context, id string) error
	CleanupIdle(ctx context.Context, maxIdle time.Duration) int
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.Models()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Post("/tasks/route", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.RouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Kind) == "" {
			writeJSONError(w, http.StatusBadRequest, "kind is required")
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelInfo {
			if zlog != nil {
				z := zlog.Info().Str("path", r.URL.Path).Str("kind", req.Kind).Int("prompt_len", len(req.Prompt))
				if rid := middleware.GetReqID(r.Context()); rid != "" {
					z = z.Str("request_id", rid)
				}
				z.Msg("route start")
			} else {
				log.Printf("route start kind=%s prompt_len=%d", req.Kind, len(req.Prompt))
			}
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if routeTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, time.Duration(routeTimeout)*time.Second)
			defer tcancel()
		}

		model, reason, err := svc.GetOrLoadModelForTask(ctx, types.Task{
			Kind:       req.Kind,
			Priority:   req.Priority,
			Prompt:     req.Prompt,
			ForceModel: req.ForceModel,
		})
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForError(err)
			if status == http.StatusConflict {
				IncrementRefusal("admission")
			}
			writeJSONError(w, status, err.Error())
			logRouteEnd(r, lvl, status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, types.RouteResponse{Model: model, Reason: reason})
		logRouteEnd(r, lvl, http.StatusOK, start, nil)
	})

	r.Post("/models/{id}/load", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Load(ctx, id); err != nil {
			status := statusForError(err)
			if status == http.StatusConflict {
				IncrementRefusal("admission")
			}
			writeJSONError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"model": id, "status": "loaded"})
	})

	r.Post("/models/{id}/unload", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Evict(ctx, id); err != nil {
			status := statusForError(err)
			if status == http.StatusConflict {
				IncrementRefusal("main_brain")
			}
			writeJSONError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"model": id, "status": "unloaded"})
	})

	r.Post("/cleanup", func(w http.ResponseWriter, r *http.Request) {
		maxIdle := time.Duration(defaultMaxIdleMinutes) * time.Minute
		if v := r.URL.Query().Get("max_idle_minutes"); v != "" {
			d, err := parseMinutes(v)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid max_idle_minutes")
				return
			}
			maxIdle = d
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		evicted := svc.CleanupIdle(ctx, maxIdle)
		writeJSON(w, http.StatusOK, map[string]any{"evicted": evicted})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("initializing"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func logRouteEnd(r *http.Request, lvl LogLevel, status int, start time.Time, err error) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg("route end")
		return
	}
	if err != nil {
		log.Printf("route end status=%d dur=%s err=%v", status, time.Since(start), err)
		return
	}
	log.Printf("route end status=%d dur=%s", status, time.Since(start))
}

func parseMinutes(v string) (time.Duration, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid minutes")
	}
	return time.Duration(n) * time.Minute, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}
