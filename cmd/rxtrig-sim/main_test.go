package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/daniacca/rxtrig/internal/rxn"
)

func smallOptions() options {
	opts := defaultOptions()
	opts.params.Species = 10
	opts.params.Reactions = 60
	opts.params.HashSize = 64
	opts.encounters = 2000
	opts.workers = 3
	opts.logLevel = "error"
	return opts
}

func TestRun_PrintsSummary(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), smallOptions(), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Simulation finished (seed=1, encounters=2000, workers=3)",
		"Triggers:",
		"bimolecular",
		"intersect",
		"Bimolecular matches per encounter",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*options)
	}{
		{"no workers", func(o *options) { o.workers = 0 }},
		{"negative encounters", func(o *options) { o.encounters = -1 }},
		{"bad log level", func(o *options) { o.logLevel = "loud" }},
		{"bad hash size", func(o *options) { o.params.HashSize = 100 }},
		{"bad max matching", func(o *options) { o.maxMatching = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions()
			tt.mod(&opts)
			if err := run(context.Background(), opts, &bytes.Buffer{}); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, smallOptions(), &bytes.Buffer{}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{
		"--species", "8", "--reactions", "30", "--hash-size", "32",
		"--encounters", "500", "--workers", "2", "--seed", "9", "--log-level", "error",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "seed=9, encounters=500, workers=2") {
		t.Errorf("Expected flags to reach the run, got:\n%s", out.String())
	}
}

func TestTopReactions(t *testing.T) {
	mk := func(name string, n uint64) *rxn.Reaction {
		r := &rxn.Reaction{Name: name, Pathways: make([]rxn.Pathway, 1)}
		r.Pathways[0].SetOccurred(n)
		return r
	}
	rs := []*rxn.Reaction{mk("a", 1), mk("b", 5), mk("c", 0), mk("d", 5)}

	top := topReactions(rs, 2)
	if len(top) != 2 || top[0].Name != "b" || top[1].Name != "d" {
		t.Errorf("Expected [b d], got %v", names(top))
	}
	if all := topReactions(rs, 10); len(all) != 3 {
		t.Errorf("Expected reactions that never fired to be left out, got %v", names(all))
	}
}

func names(rs []*rxn.Reaction) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}
