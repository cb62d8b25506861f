package passes

import (
	"github.com/qompile/qompile/pkg/coupling"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/layout"
	"github.com/qompile/qompile/pkg/transpiler"
)

// TrivialLayout assigns virtual qubit i to physical qubit i and stores the
// result under transpiler.KeyLayout.
type TrivialLayout struct {
	transpiler.AnalysisPass
	coupling *coupling.Map
}

// NewTrivialLayout creates the pass.
func NewTrivialLayout(cm *coupling.Map) *TrivialLayout {
	return &TrivialLayout{coupling: cm}
}

// Name implements transpiler.Pass.
func (p *TrivialLayout) Name() string { return "trivial_layout" }

// ID implements transpiler.Pass.
func (p *TrivialLayout) ID() string { return transpiler.MakeID(p.Name()) }

// Run implements transpiler.Pass.
func (p *TrivialLayout) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	if d.NumQubits() > p.coupling.Size() {
		return nil, qerr.New(qerr.ErrCodeCapacity,
			"circuit uses %d qubits but device has %d", d.NumQubits(), p.coupling.Size())
	}
	ps.Set(transpiler.KeyLayout, layout.GenerateTrivial(d.Qubits()))
	return d, nil
}

// CheckMap verifies that every two-qubit operation acts on coupling-adjacent
// physical qubits and stores the verdict as a bool under
// transpiler.KeyIsSwapMapped.
//
// The check interprets wire indices as physical qubits, which matches the
// circuits the router emits. Run it after routing, or on circuits already
// expressed over physical wires.
type CheckMap struct {
	transpiler.AnalysisPass
	coupling *coupling.Map
}

// NewCheckMap creates the pass.
func NewCheckMap(cm *coupling.Map) *CheckMap {
	return &CheckMap{coupling: cm}
}

// Name implements transpiler.Pass.
func (p *CheckMap) Name() string { return "check_map" }

// ID implements transpiler.Pass.
func (p *CheckMap) ID() string { return transpiler.MakeID(p.Name()) }

// Run implements transpiler.Pass.
func (p *CheckMap) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	mapped := true
	for _, n := range d.TwoQubitOps() {
		a := n.Qargs()[0].Index()
		b := n.Qargs()[1].Index()
		if !p.coupling.Connected(a, b) {
			mapped = false
			break
		}
	}
	ps.Set(transpiler.KeyIsSwapMapped, mapped)
	return d, nil
}
