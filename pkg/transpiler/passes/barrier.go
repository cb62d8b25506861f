package passes

import (
	"sort"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/transpiler"
)

// BarrierBeforeFinalMeasurements inserts one barrier across every measured
// qubit right before the trailing measurement layer, so later scheduling and
// optimization cannot move gates past the readout.
//
// A measurement is final when nothing but other final measurements and
// barriers follow it on any of its wires.
type BarrierBeforeFinalMeasurements struct {
	transpiler.TransformationPass
}

// NewBarrierBeforeFinalMeasurements creates the pass.
func NewBarrierBeforeFinalMeasurements() *BarrierBeforeFinalMeasurements {
	return &BarrierBeforeFinalMeasurements{}
}

// Name implements transpiler.Pass.
func (p *BarrierBeforeFinalMeasurements) Name() string {
	return "barrier_before_final_measurements"
}

// ID implements transpiler.Pass.
func (p *BarrierBeforeFinalMeasurements) ID() string { return transpiler.MakeID(p.Name()) }

// Run implements transpiler.Pass.
func (p *BarrierBeforeFinalMeasurements) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	final := p.finalMeasurements(d)
	if len(final) == 0 {
		return d, nil
	}

	// Record the trailing measurements in topological order, then detach
	// them so the barrier lands before the readout layer.
	type measure struct {
		op    *dag.Operation
		qargs []dag.Wire
		cargs []dag.Wire
	}
	var detached []measure
	qubitSet := make(map[dag.Wire]bool)
	for _, n := range d.TopologicalOpNodes() {
		if !final[n.ID()] {
			continue
		}
		detached = append(detached, measure{op: n.Op(), qargs: n.Qargs(), cargs: n.Cargs()})
		for _, w := range n.Qargs() {
			qubitSet[w] = true
		}
		if err := d.RemoveOpNode(n.ID()); err != nil {
			return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "detaching final measurement")
		}
	}

	qubits := make([]dag.Wire, 0, len(qubitSet))
	for _, w := range d.Qubits() {
		if qubitSet[w] {
			qubits = append(qubits, w)
		}
	}
	sort.SliceStable(qubits, func(i, j int) bool { return qubits[i].Index() < qubits[j].Index() })

	if _, err := d.ApplyOperationBack(circuit.Barrier(len(qubits)), qubits, nil); err != nil {
		return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "inserting readout barrier")
	}
	for _, m := range detached {
		if _, err := d.ApplyOperationBack(m.op, m.qargs, m.cargs); err != nil {
			return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "reattaching final measurement")
		}
	}
	return d, nil
}

// finalMeasurements returns the IDs of measurements followed only by output
// nodes, barriers, or other final measurements on every wire they touch.
func (p *BarrierBeforeFinalMeasurements) finalMeasurements(d *dag.DAG) map[int]bool {
	final := make(map[int]bool)
	for {
		grew := false
		for _, n := range d.OpNodes(circuit.NameMeasure, circuit.NameBarrier) {
			if final[n.ID()] {
				continue
			}
			isFinal := true
			for _, succ := range d.Successors(n.ID()) {
				if succ.Kind() == dag.NodeOutput || final[succ.ID()] {
					continue
				}
				isFinal = false
				break
			}
			if isFinal {
				final[n.ID()] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}
	// Barriers were only markers for reachability; keep measurements.
	for id := range final {
		if n, ok := d.Node(id); ok && n.Op().Name != circuit.NameMeasure {
			delete(final, id)
		}
	}
	return final
}
