// Package passes implements the built-in compilation passes: commutation
// analysis and gate cancellation, layout selection and verification, swap
// routing, gate direction fixing, decomposition, barrier insertion, and ASAP
// scheduling.
package passes

import (
	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	"github.com/qompile/qompile/pkg/transpiler"
)

// matrixTol is the elementwise tolerance for the AB == BA commutation test.
const matrixTol = 1e-10

// CommutationSet is the result of commutation analysis: per wire, the
// operations partitioned into maximal runs of pairwise-commuting neighbors,
// in topological order.
type CommutationSet struct {
	groups map[dag.Wire][][]int
	index  map[groupKey]int
}

type groupKey struct {
	node int
	wire dag.Wire
}

// Groups returns the commutation groups on a wire as ordered lists of node
// IDs.
func (cs *CommutationSet) Groups(w dag.Wire) [][]int { return cs.groups[w] }

// GroupIndex returns the index of the group containing node id on wire w.
func (cs *CommutationSet) GroupIndex(id int, w dag.Wire) (int, bool) {
	idx, ok := cs.index[groupKey{node: id, wire: w}]
	return idx, ok
}

// CommutationAnalysis partitions each wire's operations into commutation
// groups and stores the result under transpiler.KeyCommutationSet.
//
// Two operations commute when their unitaries, restricted to the combined
// qubit support, satisfy AB == BA. Only the fixed gate set with known
// matrices participates; conditioned operations, operations touching
// classical bits, and operations without a known matrix are conservatively
// treated as commuting with nothing.
type CommutationAnalysis struct {
	transpiler.AnalysisPass
}

// NewCommutationAnalysis creates the pass.
func NewCommutationAnalysis() *CommutationAnalysis { return &CommutationAnalysis{} }

// Name implements transpiler.Pass.
func (p *CommutationAnalysis) Name() string { return "commutation_analysis" }

// ID implements transpiler.Pass.
func (p *CommutationAnalysis) ID() string { return transpiler.MakeID(p.Name()) }

// Run implements transpiler.Pass.
func (p *CommutationAnalysis) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	cs := &CommutationSet{
		groups: make(map[dag.Wire][][]int),
		index:  make(map[groupKey]int),
	}

	wires := append(append([]dag.Wire(nil), d.Qubits()...), d.Clbits()...)
	for _, w := range wires {
		var groups [][]int
		var lastInGroup *dag.Node

		id, _ := d.InputNode(w)
		for {
			n, ok := d.SuccessorOnWire(id, w)
			if !ok || n.Kind() == dag.NodeOutput {
				break
			}
			id = n.ID()
			if !n.IsOp() {
				continue
			}
			if lastInGroup == nil || !commute(n, lastInGroup) {
				groups = append(groups, []int{n.ID()})
			} else {
				groups[len(groups)-1] = append(groups[len(groups)-1], n.ID())
			}
			lastInGroup = n
			cs.index[groupKey{node: n.ID(), wire: w}] = len(groups) - 1
		}
		cs.groups[w] = groups
	}

	ps.Set(transpiler.KeyCommutationSet, cs)
	return d, nil
}

// commute reports whether two adjacent operations can be reordered.
func commute(a, b *dag.Node) bool {
	if !a.IsOp() || !b.IsOp() {
		return false
	}
	if a.Op().Condition != nil || b.Op().Condition != nil {
		return false
	}
	// Operations touching classical bits (measures) have no unitary and may
	// share a clbit even with disjoint qubits.
	if len(a.Cargs()) > 0 || len(b.Cargs()) > 0 {
		return false
	}
	if disjointQargs(a, b) {
		return true
	}
	ab, ok1 := product(a, b)
	ba, ok2 := product(b, a)
	if !ok1 || !ok2 {
		return false
	}
	return ab.Equal(ba, matrixTol)
}

func disjointQargs(a, b *dag.Node) bool {
	for _, qa := range a.Qargs() {
		for _, qb := range b.Qargs() {
			if qa == qb {
				return false
			}
		}
	}
	return true
}

// product computes the unitary of "first n2, then n1" restricted to the
// combined qubit support of the two operations. Supports one- and two-qubit
// operations with known matrices; anything else reports false.
func product(n1, n2 *dag.Node) (circuit.Matrix, bool) {
	q1, q2 := n1.Qargs(), n2.Qargs()
	u1, ok1 := circuit.Unitary(n1.Op())
	u2, ok2 := circuit.Unitary(n2.Op())
	if !ok1 || !ok2 {
		return circuit.Matrix{}, false
	}
	id2 := circuit.Identity(2)

	switch {
	case len(q1) == 1 && len(q2) == 1:
		return u1.Mul(u2), true

	case len(q1) == 2 && len(q2) == 2:
		switch {
		case q1[0] == q2[0] && q1[1] == q2[1]:
			return u1.Mul(u2), true
		case q1[0] == q2[1] && q1[1] == q2[0]:
			return u1.Mul(u2.SwapTensorFactors()), true
		case q1[0] == q2[1]:
			return u1.Kron(id2).Mul(id2.Kron(u2)), true
		case q1[1] == q2[0]:
			return id2.Kron(u1).Mul(u2.Kron(id2)), true
		case q1[0] == q2[0]:
			return u1.SwapTensorFactors().Kron(id2).Mul(id2.Kron(u2)), true
		case q1[1] == q2[1]:
			return id2.Kron(u1.SwapTensorFactors()).Mul(u2.Kron(id2)), true
		}

	case len(q1) == 2 && len(q2) == 1:
		switch {
		case q1[0] == q2[0]:
			return u1.Mul(u2.Kron(id2)), true
		case q1[1] == q2[0]:
			return u1.Mul(id2.Kron(u2)), true
		}

	case len(q1) == 1 && len(q2) == 2:
		switch {
		case q1[0] == q2[0]:
			return u1.Kron(id2).Mul(u2), true
		case q1[0] == q2[1]:
			return id2.Kron(u1).Mul(u2), true
		}
	}
	return circuit.Matrix{}, false
}
