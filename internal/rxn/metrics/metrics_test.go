package metrics

import (
	"strings"
	"testing"

	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := New(reg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rec.ObserveTrigger(rxn.Bimolecular, 3)
	rec.ObserveTrigger(rxn.Bimolecular, 0)
	rec.ObserveTrigger(rxn.Intersect, 1)
	rec.ObserveOverflow(rxn.Bimolecular, 64)

	if got := testutil.ToFloat64(rec.calls.WithLabelValues("bimolecular")); got != 2 {
		t.Errorf("Expected 2 bimolecular calls, got %v", got)
	}
	if got := testutil.ToFloat64(rec.matches.WithLabelValues("bimolecular")); got != 3 {
		t.Errorf("Expected 3 bimolecular matches, got %v", got)
	}
	if got := testutil.ToFloat64(rec.overflows.WithLabelValues("bimolecular")); got != 1 {
		t.Errorf("Expected 1 overflow, got %v", got)
	}
	if got := testutil.ToFloat64(rec.calls.WithLabelValues("intersect")); got != 1 {
		t.Errorf("Expected 1 intersect call, got %v", got)
	}

	expected := `
# HELP rxtrig_trigger_overflows_total Trigger calls that hit the matching reaction limit
# TYPE rxtrig_trigger_overflows_total counter
rxtrig_trigger_overflows_total{trigger="bimolecular"} 1
rxtrig_trigger_overflows_total{trigger="intersect"} 0
rxtrig_trigger_overflows_total{trigger="surface_unimolecular"} 0
rxtrig_trigger_overflows_total{trigger="trimolecular"} 0
rxtrig_trigger_overflows_total{trigger="unimolecular"} 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "rxtrig_trigger_overflows_total"); err != nil {
		t.Errorf("Unexpected metrics: %v", err)
	}
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Error("Expected error registering twice on the same registry")
	}
}

func TestRecorder_WiredIntoWorld(t *testing.T) {
	reg := rxn.NewRegistry()
	a, _ := reg.AddSpecies("A", rxn.CanVolVol)
	decay := &rxn.Reaction{Name: "A decay", Players: []rxn.SpeciesID{a.ID}, Geometries: []rxn.Geometry{0}}

	promReg := prometheus.NewRegistry()
	rec, err := New(promReg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w, err := rxn.Build(reg, rxn.DefaultConfig(), []*rxn.Reaction{decay}, rxn.WithRecorder(rec))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	m := rxn.NewVolumeMolecule(a.ID)
	for range 3 {
		w.TriggerUnimolecular(a.Hash, &m)
	}
	if got := testutil.ToFloat64(rec.matches.WithLabelValues("unimolecular")); got != 3 {
		t.Errorf("Expected 3 unimolecular matches, got %v", got)
	}
}

func TestRecorder_IgnoresUnknownKind(t *testing.T) {
	rec, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rec.ObserveTrigger(rxn.TriggerKind(99), 1)
	rec.ObserveOverflow(rxn.TriggerKind(99), 1)
}

func BenchmarkRecorder_ObserveTrigger(b *testing.B) {
	rec, err := New(prometheus.NewRegistry())
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	b.ReportAllocs()
	for b.Loop() {
		rec.ObserveTrigger(rxn.Bimolecular, 2)
	}
}
