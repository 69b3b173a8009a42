package rxn

import "fmt"

// World is the immutable context every trigger runs against: the species
// registry, the reaction table and the engine constants. A World never
// changes after NewWorld returns, so its triggers may be called from many
// goroutines at once as long as each call gets its own output buffer.
type World struct {
	registry *Registry
	table    *Table
	cfg      Config
	log      Logger
	rec      Recorder
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(l Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithRecorder sets the recorder notified of trigger activity.
func WithRecorder(r Recorder) Option {
	return func(w *World) {
		if r != nil {
			w.rec = r
		}
	}
}

// NewWorld binds a registry and a table built from it.
func NewWorld(reg *Registry, table *Table, cfg Config, opts ...Option) (*World, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if table == nil {
		return nil, fmt.Errorf("reaction table is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if table.Size() != cfg.HashSize {
		return nil, fmt.Errorf("table has %d buckets but config asks for %d", table.Size(), cfg.HashSize)
	}

	w := &World{
		registry: reg,
		table:    table,
		cfg:      cfg,
		log:      NewNoOpLogger(),
		rec:      noopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Build is a convenience that builds a table of cfg.HashSize buckets from
// reactions and wraps it in a World.
func Build(reg *Registry, cfg Config, reactions []*Reaction, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	b, err := NewBuilder(reg, cfg.HashSize)
	if err != nil {
		return nil, err
	}
	if err := b.AddAll(reactions...); err != nil {
		return nil, err
	}
	return NewWorld(reg, b.Build(), cfg, opts...)
}

func (w *World) Registry() *Registry { return w.registry }
func (w *World) Table() *Table       { return w.table }
func (w *World) Config() Config      { return w.cfg }

// NewMatchBuffer returns an output buffer sized to MaxMatchingRxns.
// Each concurrent caller needs its own.
func (w *World) NewMatchBuffer() []*Reaction {
	return make([]*Reaction, w.cfg.MaxMatchingRxns)
}

// SpeciesHash returns the bucket hash of a species, or 0 for an unknown ID.
func (w *World) SpeciesHash(id SpeciesID) uint32 {
	sp, ok := w.registry.Species(id)
	if !ok {
		return 0
	}
	return sp.Hash
}

func (w *World) limit(out []*Reaction) int {
	return min(len(out), w.cfg.MaxMatchingRxns)
}

func (w *World) overflow(kind TriggerKind, limit int) {
	w.log.Warnf("number of matching reactions exceeds the maximum allowed number (%d) in %s trigger", limit, kind)
	w.rec.ObserveOverflow(kind, limit)
}
