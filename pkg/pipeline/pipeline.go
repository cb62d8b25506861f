// Package pipeline assembles and runs the standard transpilation pipeline.
//
// This package implements the complete layout → route → optimize → schedule
// flow used by the CLI. By centralizing the pass ordering and its caching
// here, every entry point compiles circuits the same way.
//
// # Architecture
//
// The pipeline consists of up to four stages, each built from passes in
// pkg/transpiler/passes:
//
//  1. Layout: place virtual qubits on physical qubits (trivial placement)
//  2. Route: insert swaps until every two-qubit gate touches coupled qubits
//  3. Optimize: cancel gate pairs and fuse rotations to a fixed point
//  4. Schedule: assign start times and insert padding delays
//
// Optimization and scheduling are optional; routing always runs when a
// coupling map is given.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    CouplingEdges: [][2]int{{0, 1}, {1, 2}},
//	    Optimize:      true,
//	}
//	result, err := runner.Execute(ctx, circ, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := result.DAG
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/qompile/qompile/pkg/cache"
	"github.com/qompile/qompile/pkg/coupling"
	"github.com/qompile/qompile/pkg/transpiler"
	"github.com/qompile/qompile/pkg/transpiler/passes"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

const (
	// DefaultTrials is the number of routing attempts per compilation.
	DefaultTrials = passes.DefaultRoutingTrials

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = int64(42)

	// DefaultTimeUnit is the unit duration tables are expressed in.
	DefaultTimeUnit = "dt"

	// DefaultMaxIteration bounds optimization loop iterations.
	DefaultMaxIteration = transpiler.DefaultMaxIteration
)

// Options configures one pipeline execution.
//
// The zero value compiles against no device: no layout, no routing, no
// scheduling. Set CouplingEdges (or NumQubits) to target hardware.
type Options struct {
	// Target device.
	CouplingEdges [][2]int // directed coupling edges
	NumQubits     int      // device size; grown to cover CouplingEdges

	// Routing.
	Trials int   // routing attempts, defaulted to DefaultTrials
	Seed   int64 // base seed for the trial RNG streams

	// Optimization.
	Optimize     bool // run the cancellation loop to a fixed point
	MaxIteration int  // loop bound, defaulted to DefaultMaxIteration

	// Scheduling. Durations maps gate name to duration in TimeUnit; it must
	// cover every gate in the routed circuit except barriers and delays.
	Schedule  bool
	TimeUnit  string
	Durations map[string]float64

	// Refresh bypasses the cache for both reads and writes.
	Refresh bool

	// Logger used by the pass manager. Defaults to log.Default().
	Logger *log.Logger
}

// ValidateAndSetDefaults checks option consistency and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.Trials < 0 {
		return fmt.Errorf("trials must be positive, got %d", o.Trials)
	}
	if o.MaxIteration == 0 {
		o.MaxIteration = DefaultMaxIteration
	}
	if o.MaxIteration < 0 {
		return fmt.Errorf("max iterations must be positive, got %d", o.MaxIteration)
	}
	if o.TimeUnit == "" {
		o.TimeUnit = DefaultTimeUnit
	}
	for _, e := range o.CouplingEdges {
		if e[0] < 0 || e[1] < 0 {
			return fmt.Errorf("coupling edge (%d,%d) has a negative qubit", e[0], e[1])
		}
		if e[0] == e[1] {
			return fmt.Errorf("coupling edge (%d,%d) is a self-loop", e[0], e[1])
		}
		if n := e[0] + 1; n > o.NumQubits {
			o.NumQubits = n
		}
		if n := e[1] + 1; n > o.NumQubits {
			o.NumQubits = n
		}
	}
	if o.Schedule && len(o.Durations) == 0 {
		return fmt.Errorf("scheduling requested without a duration table")
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// HasTarget reports whether a device target is configured.
func (o *Options) HasTarget() bool {
	return o.NumQubits > 0 || len(o.CouplingEdges) > 0
}

// CouplingMap builds the device coupling map from the options.
func (o *Options) CouplingMap() *coupling.Map {
	cm := coupling.New(o.NumQubits)
	for _, e := range o.CouplingEdges {
		_ = cm.AddEdge(e[0], e[1]) // edges validated in ValidateAndSetDefaults
	}
	return cm
}

// DurationTable builds the instruction duration table from the options.
func (o *Options) DurationTable() *transpiler.InstructionDurations {
	tbl := transpiler.NewInstructionDurations(o.TimeUnit)
	for name, d := range o.Durations {
		tbl.Set(name, d)
	}
	return tbl
}

// TranspileKeyOpts derives the cache key components from the options.
func (o *Options) TranspileKeyOpts() cache.TranspileKeyOpts {
	edges := make([]string, len(o.CouplingEdges))
	for i, e := range o.CouplingEdges {
		edges[i] = fmt.Sprintf("%d-%d", e[0], e[1])
	}
	sort.Strings(edges)

	opts := cache.TranspileKeyOpts{
		CouplingEdges: strings.Join(edges, ","),
		Trials:        o.Trials,
		Seed:          o.Seed,
		Optimize:      o.Optimize,
		MaxIteration:  o.MaxIteration,
	}
	if o.Schedule {
		opts.ScheduleUnit = o.TimeUnit
		opts.DurationsHash = durationsHash(o.Durations)
	}
	return opts
}

func durationsHash(durations map[string]float64) string {
	names := make([]string, 0, len(durations))
	for name := range durations {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s=%g;", name, durations[name])
	}
	return cache.Hash([]byte(sb.String()))
}

// BuildPassManager assembles the pass pipeline the options describe.
func (o *Options) BuildPassManager() *transpiler.PassManager {
	pm := transpiler.NewPassManager(
		transpiler.WithLogger(o.Logger),
		transpiler.WithMaxIteration(o.MaxIteration),
	)

	if o.Optimize {
		pm.Append(
			[]transpiler.Pass{passes.NewGateCancellation(), passes.NewDAGFixedPoint()},
			transpiler.Until(passes.KeyDAGFixedPoint),
		)
	}

	if o.HasTarget() {
		cm := o.CouplingMap()
		pm.Append([]transpiler.Pass{
			passes.NewTrivialLayout(cm),
			passes.NewStochasticRouter(cm, o.Trials, o.Seed),
			passes.NewGateDirection(cm),
			passes.NewCheckMap(cm),
		})
	}

	if o.Schedule {
		pm.Append([]transpiler.Pass{
			passes.NewBarrierBeforeFinalMeasurements(),
			passes.NewASAPSchedule(o.DurationTable()),
		})
	}

	return pm
}
