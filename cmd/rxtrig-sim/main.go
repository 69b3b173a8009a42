package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/daniacca/rxtrig/internal/synth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

type options struct {
	params      synth.Params
	maxMatching int
	encounters  int
	workers     int
	logLevel    string
}

func defaultOptions() options {
	return options{
		params:      synth.DefaultParams(),
		maxMatching: rxn.DefaultConfig().MaxMatchingRxns,
		encounters:  100000,
		workers:     4,
		logLevel:    "warn",
	}
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.IntVar(&o.params.Species, "species", o.params.Species, "number of molecule species")
	fs.IntVar(&o.params.SurfaceClasses, "classes", o.params.SurfaceClasses, "number of surface classes")
	fs.IntVar(&o.params.Reactions, "reactions", o.params.Reactions, "number of reactions")
	fs.IntVar(&o.params.HashSize, "hash-size", o.params.HashSize, "reaction table buckets (power of two)")
	fs.Uint64Var(&o.params.Seed, "seed", o.params.Seed, "random seed")
	fs.Float64Var(&o.params.SurfaceFraction, "surface-fraction", o.params.SurfaceFraction, "share of surface species")
	fs.Float64Var(&o.params.OrientedFraction, "oriented-fraction", o.params.OrientedFraction, "share of oriented reactant slots")
	fs.IntVar(&o.maxMatching, "max-matching", o.maxMatching, "maximum reactions returned per encounter")
	fs.IntVar(&o.encounters, "encounters", o.encounters, "number of random encounters")
	fs.IntVar(&o.workers, "workers", o.workers, "number of concurrent workers")
	fs.StringVar(&o.logLevel, "log-level", o.logLevel, "log level (debug, info, warn, error)")
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := defaultOptions()
	cmd := &cobra.Command{
		Use:   "rxtrig-sim",
		Short: "Drive the reaction triggers with random encounters.",
		Long: `Generates a synthetic reaction network, then feeds random unimolecular,
bimolecular, trimolecular and surface encounters to the triggers and
prints what matched.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, stdout)
		},
	}
	bindFlags(cmd.Flags(), &opts)
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// tally is an rxn.Recorder that counts per trigger kind.
type tally struct {
	calls     [rxn.NumTriggerKinds]atomic.Uint64
	matches   [rxn.NumTriggerKinds]atomic.Uint64
	overflows [rxn.NumTriggerKinds]atomic.Uint64
}

func (t *tally) ObserveTrigger(kind rxn.TriggerKind, matched int) {
	t.calls[kind].Add(1)
	t.matches[kind].Add(uint64(matched))
}

func (t *tally) ObserveOverflow(kind rxn.TriggerKind, _ int) {
	t.overflows[kind].Add(1)
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	return logger, nil
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	if opts.workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", opts.workers)
	}
	if opts.encounters < 0 {
		return fmt.Errorf("encounters must not be negative, got %d", opts.encounters)
	}
	logger, err := newLogger(opts.logLevel, os.Stderr)
	if err != nil {
		return err
	}

	model, err := synth.Generate(opts.params)
	if err != nil {
		return fmt.Errorf("generating model: %w", err)
	}
	logger.Infof("generated %d species, %d classes, %d reactions",
		len(model.Volume)+len(model.Surface), len(model.Classes), len(model.Reactions))

	counts := &tally{}
	cfg := rxn.Config{HashSize: opts.params.HashSize, MaxMatchingRxns: opts.maxMatching}
	w, err := rxn.NewWorld(model.Registry, model.Table, cfg, rxn.WithLogger(logger), rxn.WithRecorder(counts))
	if err != nil {
		return fmt.Errorf("creating world: %w", err)
	}

	bimol := make([][]float64, opts.workers)
	g, ctx := errgroup.WithContext(ctx)
	for i := range opts.workers {
		share := opts.encounters / opts.workers
		if i < opts.encounters%opts.workers {
			share++
		}
		g.Go(func() error {
			var err error
			bimol[i], err = drive(ctx, w, model, opts.params.Seed+uint64(i)+1, share)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSummary(stdout, opts, model, counts, slices.Concat(bimol...))
	return nil
}

// drive runs n encounters and returns the match count of each bimolecular one.
func drive(ctx context.Context, w *rxn.World, model *synth.Model, seed uint64, n int) ([]float64, error) {
	rng := rand.New(rand.NewPCG(seed, seed*31))
	out := w.NewMatchBuffer()
	var bimol []float64

	for i := range n {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		e := model.RandomEncounter(rng)
		matched, _ := e.Trigger(w, out)
		if e.Kind == rxn.Bimolecular {
			bimol = append(bimol, float64(matched))
		}
		if matched > 0 {
			out[rng.IntN(matched)].Pathways[0].RecordOccurrence()
		}
	}
	return bimol, nil
}

func printSummary(out io.Writer, opts options, model *synth.Model, counts *tally, bimol []float64) {
	fmt.Fprintf(out, "Simulation finished (seed=%d, encounters=%d, workers=%d)\n",
		opts.params.Seed, opts.encounters, opts.workers)
	fmt.Fprintf(out, "Network: %d volume species, %d surface species, %d classes, %d reactions\n",
		len(model.Volume), len(model.Surface), len(model.Classes), len(model.Reactions))

	fmt.Fprintln(out, "Triggers:")
	for k := range rxn.NumTriggerKinds {
		fmt.Fprintf(out, "  %-22s calls=%d matches=%d overflows=%d\n", rxn.TriggerKind(k),
			counts.calls[k].Load(), counts.matches[k].Load(), counts.overflows[k].Load())
	}

	if len(bimol) > 0 {
		mean, std := stat.MeanStdDev(bimol, nil)
		fmt.Fprintf(out, "Bimolecular matches per encounter: mean=%.3f stddev=%.3f\n", mean, std)
	}

	top := topReactions(model.Reactions, 10)
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(out, "Most frequent reactions:")
	for _, r := range top {
		fmt.Fprintf(out, "  %s (%s): %d\n", r.Name, r.Label(model.Registry), r.Pathways[0].Occurred())
	}
}

// topReactions returns up to n reactions that occurred, most frequent first.
func topReactions(rs []*rxn.Reaction, n int) []*rxn.Reaction {
	var fired []*rxn.Reaction
	for _, r := range rs {
		if r.Pathways[0].Occurred() > 0 {
			fired = append(fired, r)
		}
	}
	slices.SortFunc(fired, func(a, b *rxn.Reaction) int {
		oa, ob := a.Pathways[0].Occurred(), b.Pathways[0].Occurred()
		switch {
		case oa > ob:
			return -1
		case oa < ob:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return fired[:min(n, len(fired))]
}
