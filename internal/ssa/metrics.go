package ssa

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors an Engine reports through, one
// set per registry so multiple Engines (and tests) can run without
// clashing global state.
type Metrics struct {
	stepsTotal   prometheus.Counter
	simTime      prometheus.Gauge
	a0           prometheus.Gauge
	groupSize    *prometheus.GaugeVec
	reacFirings  *prometheus.CounterVec
}

// NewMetrics builds and registers an Engine's collectors against reg. run
// labels every series so multiple Engines can share one registry.
func NewMetrics(reg prometheus.Registerer, run string) *Metrics {
	m := &Metrics{
		stepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tetexact",
			Name:        "steps_total",
			Help:        "Number of events fired.",
			ConstLabels: prometheus.Labels{"run": run},
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tetexact",
			Name:        "sim_time_seconds",
			Help:        "Current simulation time.",
			ConstLabels: prometheus.Labels{"run": run},
		}),
		a0: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tetexact",
			Name:        "propensity_sum",
			Help:        "Current total propensity (A0).",
			ConstLabels: prometheus.Labels{"run": run},
		}),
		groupSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "tetexact",
			Name:        "cr_group_size",
			Help:        "Occupancy of each composition-rejection bucket.",
			ConstLabels: prometheus.Labels{"run": run},
		}, []string{"polarity", "power"}),
		reacFirings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "tetexact",
			Name:        "kproc_firings_total",
			Help:        "Number of firings per KProc kind.",
			ConstLabels: prometheus.Labels{"run": run},
		}, []string{"kind"}),
	}
	reg.MustRegister(m.stepsTotal, m.simTime, m.a0, m.groupSize, m.reacFirings)
	return m
}

// Observe records one Step's outcome: the firing KProc's kind plus the
// Engine's post-step time/nsteps/A0 and CR group occupancy.
func (m *Metrics) Observe(e *Engine, kind kProcKind) {
	m.stepsTotal.Inc()
	m.simTime.Set(e.Time())
	m.a0.Set(e.A0())
	switch kind {
	case kindReac:
		m.reacFirings.WithLabelValues("reac").Inc()
	case kindSReac:
		m.reacFirings.WithLabelValues("sreac").Inc()
	case kindDiff:
		m.reacFirings.WithLabelValues("diff").Inc()
	}

	for i, g := range e.pGroups {
		m.groupSize.WithLabelValues("positive", strconv.Itoa(i)).Set(float64(len(g.indices)))
	}
	for i, g := range e.nGroups {
		m.groupSize.WithLabelValues("negative", strconv.Itoa(-i)).Set(float64(len(g.indices)))
	}
}
