package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qompile/qompile/pkg/cache"
	"github.com/qompile/qompile/pkg/dag"
	"github.com/qompile/qompile/pkg/observability"
	"github.com/qompile/qompile/pkg/qobj"
	"github.com/qompile/qompile/pkg/transpiler"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it does not store
// compilation results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result holds the output of one pipeline execution.
type Result struct {
	// DAG is the compiled circuit.
	DAG *dag.DAG

	// Properties holds the analysis results of the final pass manager run.
	// Nil when the result came from the cache.
	Properties *transpiler.PropertySet

	// CircuitHash identifies the input circuit (SHA-256 of its serialized
	// form).
	CircuitHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats captures timing and size information for one execution.
type Stats struct {
	TranspileTime time.Duration
	OpsIn         int
	OpsOut        int
	DepthOut      int
	SwapsAdded    int
}

// CacheInfo reports which results were served from cache.
type CacheInfo struct {
	TranspileHit bool
}

// Execute compiles the circuit through the configured pipeline with caching.
//
// The cache key covers the serialized input circuit and every option that
// changes the output, so a hit is always byte-equivalent to a recompilation.
func (r *Runner) Execute(ctx context.Context, circ *dag.DAG, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	input, err := qobj.MarshalCircuit(circ)
	if err != nil {
		return nil, fmt.Errorf("serialize input circuit: %w", err)
	}

	result := &Result{
		CircuitHash: cache.Hash(input),
		Stats:       Stats{OpsIn: circ.Size()},
	}
	cacheKey := r.Keyer.TranspileKey(result.CircuitHash, opts.TranspileKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := qobj.ReadCircuit(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "transpile")
				result.DAG = cached
				result.Stats.OpsOut = cached.Size()
				result.Stats.DepthOut = cached.Depth()
				result.Stats.SwapsAdded = cached.CountOps()["swap"]
				result.CacheInfo.TranspileHit = true
				return result, nil
			}
			// Undecodable entry: fall through and recompile over it.
		}
		observability.Cache().OnCacheMiss(ctx, "transpile")
	}

	start := time.Now()
	pm := opts.BuildPassManager()
	out, err := pm.Run(ctx, circ)
	if err != nil {
		return nil, fmt.Errorf("transpile: %w", err)
	}
	result.DAG = out
	result.Properties = pm.PropertySet()
	result.Stats.TranspileTime = time.Since(start)
	result.Stats.OpsOut = out.Size()
	result.Stats.DepthOut = out.Depth()
	result.Stats.SwapsAdded = out.CountOps()["swap"]

	r.Logger.Info("transpiled circuit",
		"ops_in", result.Stats.OpsIn,
		"ops_out", result.Stats.OpsOut,
		"depth", result.Stats.DepthOut,
		"swaps", result.Stats.SwapsAdded,
		"duration", result.Stats.TranspileTime)

	if !opts.Refresh {
		if data, err := qobj.MarshalCircuit(out); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTranspile); err == nil {
				observability.Cache().OnCacheSet(ctx, "transpile", len(data))
			}
		}
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
