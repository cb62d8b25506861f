package passes

import (
	"reflect"

	"github.com/qompile/qompile/pkg/dag"
	"github.com/qompile/qompile/pkg/transpiler"
)

// FixedPoint tracks whether a named property stopped changing between two
// consecutive runs of the pass, writing "<key>_fixed_point" into the
// property set. Pair it with a do-while controller to loop a transformation
// until an analysis result stabilizes.
type FixedPoint struct {
	transpiler.AnalysisPass
	key string
}

// NewFixedPoint creates a tracker for the given property key.
func NewFixedPoint(key string) *FixedPoint { return &FixedPoint{key: key} }

// Name implements transpiler.Pass.
func (p *FixedPoint) Name() string { return "fixed_point" }

// ID implements transpiler.Pass.
func (p *FixedPoint) ID() string { return transpiler.MakeID(p.Name(), p.key) }

// Idempotent reports false: each run updates the stored previous value.
func (p *FixedPoint) Idempotent() bool { return false }

// Run implements transpiler.Pass.
func (p *FixedPoint) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	prevKey := "_fixed_point_prev_" + p.key
	cur, _ := ps.Get(p.key)
	prev, had := ps.Get(prevKey)
	ps.Set(p.key+"_fixed_point", had && reflect.DeepEqual(prev, cur))
	ps.Set(prevKey, cur)
	return d, nil
}

// DAGFixedPoint tracks whether the circuit itself stopped changing shape
// between two consecutive runs, comparing operation counts per name and
// depth. Writes the bool under "dag_fixed_point". It is the usual loop
// condition for gate cancellation.
type DAGFixedPoint struct {
	transpiler.AnalysisPass
}

// NewDAGFixedPoint creates the pass.
func NewDAGFixedPoint() *DAGFixedPoint { return &DAGFixedPoint{} }

// Name implements transpiler.Pass.
func (p *DAGFixedPoint) Name() string { return "dag_fixed_point" }

// ID implements transpiler.Pass.
func (p *DAGFixedPoint) ID() string { return transpiler.MakeID(p.Name()) }

// Idempotent reports false: each run updates the stored previous shape.
func (p *DAGFixedPoint) Idempotent() bool { return false }

// KeyDAGFixedPoint is where DAGFixedPoint writes its verdict.
const KeyDAGFixedPoint = "dag_fixed_point"

type dagShape struct {
	depth  int
	counts map[string]int
}

// Run implements transpiler.Pass.
func (p *DAGFixedPoint) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	const prevKey = "_dag_fixed_point_prev"
	cur := dagShape{depth: d.Depth(), counts: d.CountOps()}
	prev, had := ps.Get(prevKey)
	ps.Set(KeyDAGFixedPoint, had && reflect.DeepEqual(prev, cur))
	ps.Set(prevKey, cur)
	return d, nil
}
