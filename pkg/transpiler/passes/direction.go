package passes

import (
	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/coupling"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/transpiler"
)

// GateDirection flips CX gates that run against the direction of their
// coupling edge, conjugating control and target with Hadamards:
//
//	cx a,b  ->  h a; h b; cx b,a; h a; h b
//
// Like CheckMap, the pass reads wire indices as physical qubits, so it
// belongs after routing. A CX whose qubits are not coupled in either
// direction is a connectivity error; routing should have prevented it.
type GateDirection struct {
	transpiler.TransformationPass
	coupling *coupling.Map
}

// NewGateDirection creates the pass.
func NewGateDirection(cm *coupling.Map) *GateDirection {
	return &GateDirection{coupling: cm}
}

// Name implements transpiler.Pass.
func (p *GateDirection) Name() string { return "gate_direction" }

// ID implements transpiler.Pass.
func (p *GateDirection) ID() string { return transpiler.MakeID(p.Name()) }

// Run implements transpiler.Pass.
func (p *GateDirection) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	for _, n := range d.OpNodes(circuit.NameCX) {
		a := n.Qargs()[0].Index()
		b := n.Qargs()[1].Index()
		switch {
		case p.coupling.HasEdge(a, b):
			continue
		case p.coupling.HasEdge(b, a):
			if err := d.SubstituteNodeWithDAG(n.ID(), reversedCX(), nil); err != nil {
				return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "flipping cx %d->%d", a, b)
			}
		default:
			return nil, qerr.New(qerr.ErrCodeNoPath,
				"cx on qubits %d and %d, which share no coupling edge", a, b)
		}
	}
	return d, nil
}

// reversedCX builds the H-conjugated replacement for a wrong-direction CX.
// Wire 0 is the original control, wire 1 the original target.
func reversedCX() *dag.DAG {
	def := dag.New("cx_reversed")
	r := dag.NewQuantumRegister("d", 2)
	def.AddRegister(r)
	c, t := r.Bit(0), r.Bit(1)
	def.ApplyOperationBack(circuit.H(), []dag.Wire{c}, nil)
	def.ApplyOperationBack(circuit.H(), []dag.Wire{t}, nil)
	def.ApplyOperationBack(circuit.CX(), []dag.Wire{t, c}, nil)
	def.ApplyOperationBack(circuit.H(), []dag.Wire{c}, nil)
	def.ApplyOperationBack(circuit.H(), []dag.Wire{t}, nil)
	return def
}
