package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fleetd/internal/audit"
	"fleetd/internal/catalog"
	"fleetd/internal/config"
	"fleetd/internal/hardware"
	"fleetd/internal/httpapi"
	"fleetd/internal/resources"
	"fleetd/internal/runtime"
	"fleetd/internal/scheduler"
)

const (
	defaultAddr       = ":8090"
	defaultRuntimeURL = "http://127.0.0.1:11434"
	defaultIdleSweep  = 5 * time.Minute
)

func runServe(ctx context.Context, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Config{}
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}
	// Flags override file values; env fills what neither set.
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if cfg.Addr == "" {
		cfg.Addr = envOr("FLEETD_ADDR", defaultAddr)
	}
	if opts.runtimeURL != "" {
		cfg.RuntimeURL = opts.runtimeURL
	}
	if cfg.RuntimeURL == "" {
		cfg.RuntimeURL = envOr("FLEETD_RUNTIME_URL", defaultRuntimeURL)
	}
	if opts.catalogPath != "" {
		cfg.CatalogPath = opts.catalogPath
	}
	if opts.auditDBPath != "" {
		cfg.AuditDBPath = opts.auditDBPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger := newLogger(cfg.LogLevel)

	profiler := hardware.NewProfiler(logger)
	profile := profiler.Detect(ctx)
	if cfg.HardwareSnapshotPath != "" {
		profiler.SaveSnapshot(profile, cfg.HardwareSnapshotPath)
	}
	limits := hardware.LimitsForTier(profile.Tier)
	if cfg.Limits.MinFreeRAMGB > 0 {
		limits.MinFreeRAMGB = cfg.Limits.MinFreeRAMGB
	}
	if cfg.Limits.MinFreeVRAMGB > 0 {
		limits.MinFreeVRAMGB = cfg.Limits.MinFreeVRAMGB
	}
	if cfg.Limits.MaxModelsLoaded > 0 {
		limits.MaxModelsLoaded = cfg.Limits.MaxModelsLoaded
	}
	logger.Info().
		Str("tier", string(profile.Tier)).
		Float64("ram_gb", profile.TotalRAMGB).
		Float64("max_vram_gb", profile.MaxVRAMGB()).
		Int("cores", profile.LogicalCores).
		Int("max_models", limits.MaxModelsLoaded).
		Msg("hardware profile")

	cat := catalog.New(catalog.Builtin())
	if cfg.CatalogPath != "" {
		var err error
		cat, err = catalog.NewWithFile(catalog.Builtin(), cfg.CatalogPath)
		if err != nil {
			return err
		}
	}

	mon := resources.NewMonitor(logger)

	rtCfg := runtime.Config{BaseURL: cfg.RuntimeURL}
	if cfg.LoadTimeoutSec > 0 {
		rtCfg.LoadTimeout = time.Duration(cfg.LoadTimeoutSec) * time.Second
	}
	if cfg.UnloadTimeoutSec > 0 {
		rtCfg.UnloadTimeout = time.Duration(cfg.UnloadTimeoutSec) * time.Second
	}
	rt := runtime.New(rtCfg, logger)

	sinks := []audit.Sink{audit.NewLogSink(logger)}
	if cfg.AuditDBPath != "" {
		sq, err := audit.NewSQLiteSink(cfg.AuditDBPath)
		if err != nil {
			return err
		}
		sinks = append(sinks, sq)
	}
	recorder := audit.NewAsyncRecorder(logger, sinks...)
	defer recorder.Close()

	sched := scheduler.New(scheduler.Config{
		Catalog:     cat,
		Monitor:     mon,
		Runtime:     rt,
		Tier:        profile.Tier,
		Limits:      limits,
		Weights:     schedulerWeights(cfg.Weights),
		Recorder:    recorder,
		HistorySize: cfg.HistorySize,
	})

	if brain := sched.InitMainBrain(ctx, profile.RecommendedModels); brain != "" {
		logger.Info().Str("model", brain).Msg("main brain ready")
	} else {
		logger.Warn().Msg("no main brain candidate admitted, running degraded")
	}

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(ctx)
	if cfg.MaxIdleMinutes > 0 {
		httpapi.SetDefaultMaxIdleMinutes(int64(cfg.MaxIdleMinutes))
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(sched)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Str("runtime_url", cfg.RuntimeURL).Msg("fleetd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
		return nil
	})
	g.Go(func() error {
		sweep := defaultIdleSweep
		if cfg.IdleSweepMinutes > 0 {
			sweep = time.Duration(cfg.IdleSweepMinutes) * time.Minute
		}
		maxIdle := 30 * time.Minute
		if cfg.MaxIdleMinutes > 0 {
			maxIdle = time.Duration(cfg.MaxIdleMinutes) * time.Minute
		}
		ticker := time.NewTicker(sweep)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sched.CleanupIdle(gctx, maxIdle); n > 0 {
					logger.Info().Int("evicted", n).Msg("idle sweep")
				}
			}
		}
	})
	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		g.Go(func() error {
			return cat.Watch(gctx, logger)
		})
	}

	return g.Wait()
}

func newLogger(level string) zerolog.Logger {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "fleetd").Logger()
	if level == "" {
		level = envOr("FLEETD_LOG_LEVEL", "info")
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		logger = logger.Level(lvl)
	}
	return logger
}

func schedulerWeights(w config.Weights) scheduler.Weights {
	return scheduler.Weights{
		ReasoningBonus:      w.ReasoningBonus,
		CodingBonus:         w.CodingBonus,
		QuickTaskBonus:      w.QuickTaskBonus,
		HeavyTaskPenalty:    w.HeavyTaskPenalty,
		UsageBonusPerUse:    w.UsageBonusPerUse,
		UsageBonusCap:       w.UsageBonusCap,
		LoadedBonus:         w.LoadedBonus,
		SuitablePromptChars: w.SuitablePromptChars,
		QuickPromptChars:    w.QuickPromptChars,
		QuickFootprintGB:    w.QuickFootprintGB,
		HeavyFootprintGB:    w.HeavyFootprintGB,
		MaxCPUPercent:       w.MaxCPUPercent,
	}
}
