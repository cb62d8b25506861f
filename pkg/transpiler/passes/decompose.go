package passes

import (
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/transpiler"
)

// Decompose expands every operation with the given name into its owned
// definition sub-circuit. Operations of that name without a definition are
// left alone.
type Decompose struct {
	transpiler.TransformationPass
	gate string
}

// NewDecompose creates the pass for one gate name.
func NewDecompose(gate string) *Decompose { return &Decompose{gate: gate} }

// Name implements transpiler.Pass.
func (p *Decompose) Name() string { return "decompose" }

// ID implements transpiler.Pass.
func (p *Decompose) ID() string { return transpiler.MakeID(p.Name(), p.gate) }

// Run implements transpiler.Pass.
func (p *Decompose) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	for _, n := range d.OpNodes(p.gate) {
		def := n.Op().Definition
		if def == nil {
			continue
		}
		if err := d.SubstituteNodeWithDAG(n.ID(), def, nil); err != nil {
			return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "expanding %s", p.gate)
		}
	}
	return d, nil
}
