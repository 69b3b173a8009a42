// Package metrics exports trigger activity to Prometheus.
package metrics

import (
	"fmt"

	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rxtrig"

// Recorder is an rxn.Recorder backed by Prometheus counters. Label values are
// bounded by the trigger kinds and resolved up front so that observing does
// not allocate.
type Recorder struct {
	calls     *prometheus.CounterVec
	matches   *prometheus.CounterVec
	overflows *prometheus.CounterVec

	callsBy     [rxn.NumTriggerKinds]prometheus.Counter
	matchesBy   [rxn.NumTriggerKinds]prometheus.Counter
	overflowsBy [rxn.NumTriggerKinds]prometheus.Counter
}

// New creates the counters and registers them with reg.
// A nil reg falls back to the default registerer.
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_calls_total",
			Help:      "Trigger invocations",
		}, []string{"trigger"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_matches_total",
			Help:      "Reactions returned by triggers",
		}, []string{"trigger"}),
		overflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_overflows_total",
			Help:      "Trigger calls that hit the matching reaction limit",
		}, []string{"trigger"}),
	}

	for _, c := range []prometheus.Collector{r.calls, r.matches, r.overflows} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register trigger metrics: %w", err)
		}
	}

	for k := range rxn.NumTriggerKinds {
		label := rxn.TriggerKind(k).String()
		r.callsBy[k] = r.calls.WithLabelValues(label)
		r.matchesBy[k] = r.matches.WithLabelValues(label)
		r.overflowsBy[k] = r.overflows.WithLabelValues(label)
	}
	return r, nil
}

// ObserveTrigger implements rxn.Recorder.
func (r *Recorder) ObserveTrigger(kind rxn.TriggerKind, matched int) {
	if int(kind) >= rxn.NumTriggerKinds {
		return
	}
	r.callsBy[kind].Inc()
	if matched > 0 {
		r.matchesBy[kind].Add(float64(matched))
	}
}

// ObserveOverflow implements rxn.Recorder.
func (r *Recorder) ObserveOverflow(kind rxn.TriggerKind, _ int) {
	if int(kind) >= rxn.NumTriggerKinds {
		return
	}
	r.overflowsBy[kind].Inc()
}
