package transpiler

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/observability"
)

// DefaultMaxIteration bounds every do-while loop. Reaching the bound is not
// an error: the loop stops and the run continues with whatever the passes
// achieved.
const DefaultMaxIteration = 10

// workItem is one scheduled group of passes plus its flow control.
type workItem struct {
	passes    []Pass
	doWhile   func(*PropertySet) bool
	condition func(*PropertySet) bool
}

// FlowOption configures flow control for one Append call.
type FlowOption func(*workItem)

// DoWhile repeats the appended passes while fn returns true, bounded by the
// manager's max iteration cap.
func DoWhile(fn func(*PropertySet) bool) FlowOption {
	return func(w *workItem) { w.doWhile = fn }
}

// Condition runs the appended passes only when fn returns true at the time
// the group is reached.
func Condition(fn func(*PropertySet) bool) FlowOption {
	return func(w *workItem) { w.condition = fn }
}

// Until is a DoWhile that loops until the named boolean property becomes
// true. The usual pairing is a transformation pass plus a fixed-point
// analysis pass writing the property.
func Until(key string) FlowOption {
	return DoWhile(func(ps *PropertySet) bool { return !ps.Bool(key) })
}

// PassManager schedules passes over a circuit.
//
// It keeps the set of passes whose results are currently valid: a pass whose
// ID is in the set is skipped when it comes up again, and a transformation
// pass shrinks the set to its Preserves list. Requirements are run on demand
// right before the pass that declared them.
//
// A PassManager is configured once and may then be reused for several
// circuits; each Run gets a fresh PropertySet and run ID.
type PassManager struct {
	items        []workItem
	maxIteration int
	logger       *log.Logger

	props *PropertySet
	valid map[string]bool
}

// Option configures a PassManager.
type Option func(*PassManager)

// WithLogger sets the logger used for per-pass reporting.
func WithLogger(logger *log.Logger) Option {
	return func(pm *PassManager) {
		if logger != nil {
			pm.logger = logger
		}
	}
}

// WithMaxIteration caps do-while loops at n iterations.
func WithMaxIteration(n int) Option {
	return func(pm *PassManager) {
		if n > 0 {
			pm.maxIteration = n
		}
	}
}

// NewPassManager creates an empty PassManager.
func NewPassManager(opts ...Option) *PassManager {
	pm := &PassManager{
		maxIteration: DefaultMaxIteration,
		logger:       log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// Append schedules a group of passes, optionally under flow control.
func (pm *PassManager) Append(passes []Pass, opts ...FlowOption) {
	item := workItem{passes: passes}
	for _, opt := range opts {
		opt(&item)
	}
	pm.items = append(pm.items, item)
}

// PropertySet returns the property set of the most recent Run, nil before
// the first Run. Callers read final analysis results (layout, schedule) from
// it after a run completes.
func (pm *PassManager) PropertySet() *PropertySet { return pm.props }

// Run executes the scheduled passes over d and returns the transformed
// circuit. The input DAG is owned by the run and may be mutated; callers
// that need the original must Copy first.
func (pm *PassManager) Run(ctx context.Context, d *dag.DAG) (*dag.DAG, error) {
	runID := uuid.NewString()
	pm.props = NewPropertySet()
	pm.props.Set(KeyRunID, runID)
	pm.valid = make(map[string]bool)

	logger := pm.logger.With("run", runID, "circuit", d.Name())
	hooks := observability.Transpiler()

	opCount := d.Size()
	start := time.Now()
	hooks.OnRunStart(ctx, runID, d.Name(), opCount)
	logger.Debug("transpile run started", "ops", opCount, "qubits", d.NumQubits())

	out, err := pm.runItems(ctx, logger, runID, d)
	hooks.OnRunComplete(ctx, runID, d.Name(), opCount, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Debug("transpile run finished",
		"ops", out.Size(), "depth", out.Depth(), "duration", time.Since(start))
	return out, nil
}

func (pm *PassManager) runItems(ctx context.Context, logger *log.Logger, runID string, d *dag.DAG) (*dag.DAG, error) {
	var err error
	for _, item := range pm.items {
		if item.condition != nil && !item.condition(pm.props) {
			continue
		}
		for iter := 0; ; iter++ {
			if item.doWhile != nil {
				// Loop bodies must rerun: the previous iteration's results
				// are what the loop is trying to change.
				for _, p := range item.passes {
					delete(pm.valid, p.ID())
				}
			}
			for _, p := range item.passes {
				d, err = pm.do(ctx, logger, runID, p, d, 0)
				if err != nil {
					return nil, err
				}
			}
			if item.doWhile == nil || !item.doWhile(pm.props) {
				break
			}
			if iter+1 >= pm.maxIteration {
				// Best effort reached; not an error.
				logger.Debug("do-while loop hit iteration cap", "cap", pm.maxIteration)
				break
			}
		}
	}
	return d, nil
}

// maxRequireDepth bounds the requires recursion so that mutually-requiring
// passes fail loudly instead of recursing forever.
const maxRequireDepth = 50

func (pm *PassManager) do(ctx context.Context, logger *log.Logger, runID string, p Pass, d *dag.DAG, depth int) (*dag.DAG, error) {
	if depth > maxRequireDepth {
		return nil, qerr.New(qerr.ErrCodeUnmetRequirement,
			"requirement chain of pass %q exceeds depth %d; requires cycle likely", p.Name(), maxRequireDepth)
	}

	var err error
	for _, req := range p.Requires() {
		d, err = pm.do(ctx, logger, runID, req, d, depth+1)
		if err != nil {
			return nil, qerr.Wrap(qerr.ErrCodeUnmetRequirement, err,
				"requirement %q of pass %q failed", req.Name(), p.Name())
		}
	}

	if pm.valid[p.ID()] {
		return d, nil
	}

	hooks := observability.Transpiler()
	hooks.OnPassStart(ctx, runID, p.Name())
	start := time.Now()
	out, err := p.Run(d, pm.props)
	hooks.OnPassComplete(ctx, runID, p.Name(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = d
	}
	logger.Debug("pass complete", "pass", p.Name(), "elapsed", time.Since(start), "ops", out.Size())

	pm.updateValid(p)
	return out, nil
}

func (pm *PassManager) updateValid(p Pass) {
	if !p.Analysis() {
		preserved := make(map[string]bool, len(p.Preserves()))
		for _, kept := range p.Preserves() {
			preserved[kept.ID()] = true
		}
		for id := range pm.valid {
			if !preserved[id] {
				delete(pm.valid, id)
			}
		}
	}
	// Non-idempotent passes (fixed-point trackers, passes whose output can
	// shrink further on a rerun) are never marked valid, so loops rerun them.
	if ni, ok := p.(interface{ Idempotent() bool }); ok && !ni.Idempotent() {
		return
	}
	pm.valid[p.ID()] = true
}
