package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qompile/qompile/pkg/pipeline"
	"github.com/qompile/qompile/pkg/qobj"
	"github.com/qompile/qompile/pkg/transpiler"
)

// transpileOpts holds the command-line flags for the transpile command.
type transpileOpts struct {
	target   string // target description file (TOML)
	output   string // output circuit file (stdout if empty)
	optimize bool   // run the cancellation loop
	schedule bool   // assign start times (needs durations in the target)
	trials   int    // routing attempts
	seed     int64  // routing seed
	maxIter  int    // optimization loop bound
	refresh  bool   // bypass the result cache
	noCache  bool   // disable the cache entirely
}

// transpileCommand creates the transpile command.
//
// Default options:
//   - trials: 20 routing attempts, seed 42
//   - optimize: off
//   - schedule: off
func (c *CLI) transpileCommand() *cobra.Command {
	opts := transpileOpts{
		trials: pipeline.DefaultTrials,
		seed:   pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "transpile <circuit.json>",
		Short: "Compile a circuit for a device target",
		Long: `Compile a circuit against a device described by a TOML target file.

The circuit is placed onto physical qubits, swaps are inserted until every
two-qubit gate touches coupled qubits, and directed couplings are honored by
flipping gates where needed. With --optimize, redundant gate pairs are
cancelled and z-rotations fused before routing. With --schedule, operations
get start times from the target's duration table.

Examples:
  qompile transpile bell.json --target line3.toml
  qompile transpile bell.json --target line3.toml --optimize -o routed.json
  qompile transpile bell.json --target device.toml --schedule`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTranspile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "target description file (TOML)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "cancel redundant gates before routing")
	cmd.Flags().BoolVar(&opts.schedule, "schedule", false, "assign start times from the target's durations")
	cmd.Flags().IntVar(&opts.trials, "trials", opts.trials, "routing attempts per compilation")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "routing random seed")
	cmd.Flags().IntVar(&opts.maxIter, "max-iterations", 0, "optimization loop bound (0 for default)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even on a cache hit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runTranspile(cmd *cobra.Command, circuitPath string, opts transpileOpts) error {
	circ, err := qobj.ReadCircuitFile(circuitPath)
	if err != nil {
		return fmt.Errorf("read circuit: %w", err)
	}

	popts := pipeline.Options{
		Trials:       opts.trials,
		Seed:         opts.seed,
		Optimize:     opts.optimize,
		Schedule:     opts.schedule,
		MaxIteration: opts.maxIter,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	}
	if opts.target != "" {
		if err := loadTarget(opts.target, &popts); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(cmd.Context(), "Transpiling...")
	spin.Start()
	result, err := runner.Execute(cmd.Context(), circ, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compiled %d operations", result.Stats.OpsOut))

	printTranspileStats(result)

	if opts.output == "" {
		return qobj.WriteCircuit(result.DAG, os.Stdout)
	}
	if err := qobj.WriteCircuitFile(result.DAG, opts.output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Wrote compiled circuit")
	printFile(opts.output)
	printNextStep("Draw it", fmt.Sprintf("qompile draw %s -o circuit.svg", opts.output))
	return nil
}

func printTranspileStats(result *pipeline.Result) {
	printCircuitStats(result.Stats.OpsOut, result.Stats.DepthOut, result.Stats.SwapsAdded,
		result.CacheInfo.TranspileHit)
	if result.Properties == nil {
		return
	}
	if dur := result.Properties.Float(transpiler.KeyDuration); dur > 0 {
		printDetail("schedule length: %g", dur)
	}
}
