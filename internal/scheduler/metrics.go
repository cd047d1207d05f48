package scheduler

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetd",
		Subsystem: "scheduler",
		Name:      "loads_total",
		Help:      "Total successful model loads",
	})

	evictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetd",
		Subsystem: "scheduler",
		Name:      "evictions_total",
		Help:      "Total model evictions",
	})

	idleEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetd",
		Subsystem: "scheduler",
		Name:      "idle_evictions_total",
		Help:      "Evictions performed by the idle cleanup sweep",
	})

	fallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetd",
		Subsystem: "scheduler",
		Name:      "fallbacks_total",
		Help:      "Last-resort fallback selections",
	})

	loadedModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetd",
		Subsystem: "scheduler",
		Name:      "loaded_models",
		Help:      "Number of models currently loaded",
	})
)

func init() {
	prometheus.MustRegister(loadsTotal, evictionsTotal, idleEvictionsTotal, fallbacksTotal, loadedModels)
}
