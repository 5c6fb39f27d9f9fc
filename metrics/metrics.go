// Package metrics wires simulation activity into Prometheus
// gauges/counters (events notified, kernel time advances, task resumes,
// transactions in flight), grounded on the teacher's own prometheus
// package: same metric shapes (GaugeVec/CounterVec), same New/Handler
// split, but registered against a private *prometheus.Registry instead of
// the global default one, since a test binary commonly constructs more
// than one Registry in the same process and the teacher's
// prometheus.MustRegister on the default registry would panic on the
// second one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/payload"
)

// Registry owns one simulation run's metrics.
type Registry struct {
	reg *prometheus.Registry

	eventsNotified       prometheus.Counter
	kernelAdvances       prometheus.Counter
	taskResumes          *prometheus.CounterVec
	transactionsInFlight prometheus.Gauge
}

// New builds a Registry with every metric registered.
func New() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.eventsNotified = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tgsim_events_notified_total",
		Help: "Number of Event.Notify calls across the simulation.",
	})
	r.kernelAdvances = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tgsim_kernel_advances_total",
		Help: "Number of times simulated time advanced past a delta cycle.",
	})
	r.taskResumes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tgsim_task_resumes_total",
		Help: "Number of times a task was resumed, by task name.",
	}, []string{"task"})
	r.transactionsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tgsim_transactions_in_flight",
		Help: "Number of payload.Transaction objects currently allocated (not yet released).",
	})

	r.reg.MustRegister(r.eventsNotified, r.kernelAdvances, r.taskResumes, r.transactionsInFlight)
	return r
}

// KernelHooks returns the kernel.Hooks this registry wants wired into a
// Kernel via kernel.WithHooks.
func (r *Registry) KernelHooks() *kernel.Hooks {
	return &kernel.Hooks{
		OnResume:  func(task string) { r.taskResumes.WithLabelValues(task).Inc() },
		OnAdvance: func(kernel.Time) { r.kernelAdvances.Inc() },
		OnNotify:  func(kernel.Time) { r.eventsNotified.Inc() },
	}
}

// PoolHooks returns the payload.Hooks this registry wants wired into a
// payload.Pool via payload.WithHooks.
func (r *Registry) PoolHooks() *payload.Hooks {
	return &payload.Hooks{
		OnAllocate: func() { r.transactionsInFlight.Inc() },
		OnReclaim:  func() { r.transactionsInFlight.Dec() },
	}
}

// Handler serves the registry's metrics in the Prometheus exposition
// format, for mounting at e.g. "/metrics".
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
