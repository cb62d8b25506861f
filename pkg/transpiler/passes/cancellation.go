package passes

import (
	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/transpiler"
)

// GateCancellation removes redundant gates using the commutation groups:
//
//   - Self-inverse gates (h, x, y, z, cx, cy, cz, swap) appearing an even
//     number of times on the same qubits within one group cancel in pairs;
//     an odd count leaves one occurrence.
//   - Z-axis rotations (u1, rz) on one qubit within a group fuse into a
//     single u1 carrying the plain floating-point sum of the angles.
//
// Rerun under a fixed-point controller until the circuit stops shrinking.
type GateCancellation struct {
	transpiler.TransformationPass
}

// NewGateCancellation creates the pass.
func NewGateCancellation() *GateCancellation { return &GateCancellation{} }

// Name implements transpiler.Pass.
func (p *GateCancellation) Name() string { return "gate_cancellation" }

// ID implements transpiler.Pass.
func (p *GateCancellation) ID() string { return transpiler.MakeID(p.Name()) }

// Idempotent reports false: removing a pair can bring new neighbors into
// one commutation group, so a rerun with fresh analysis may cancel more.
func (p *GateCancellation) Idempotent() bool { return false }

// Requires implements transpiler.Pass: cancellation reads the commutation
// groups.
func (p *GateCancellation) Requires() []transpiler.Pass {
	return []transpiler.Pass{NewCommutationAnalysis()}
}

// cancelKey buckets candidate nodes: gates cancel only against gates with
// the same name, the same qubit arguments, and membership in the same
// commutation group on every shared wire.
type cancelKey struct {
	name       string
	wire       dag.Wire
	group      int
	otherWire  dag.Wire
	otherGroup int
}

// Run implements transpiler.Pass.
func (p *GateCancellation) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	raw, ok := ps.Get(transpiler.KeyCommutationSet)
	if !ok {
		return nil, qerr.New(qerr.ErrCodeUnmetRequirement, "commutation_set not in property set")
	}
	cs, ok := raw.(*CommutationSet)
	if !ok {
		return nil, qerr.New(qerr.ErrCodeInternal, "commutation_set has unexpected type %T", raw)
	}

	// Bucket candidates. Keys are kept in first-seen order so the pass
	// rewrites deterministically.
	buckets := make(map[cancelKey][]int)
	var order []cancelKey
	add := func(key cancelKey, id int) {
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], id)
	}

	for _, w := range d.Qubits() {
		for groupIdx, group := range cs.Groups(w) {
			for _, id := range group {
				n, ok := d.Node(id)
				if !ok || n.Op().Condition != nil {
					continue
				}
				op := n.Op()
				switch {
				case len(n.Qargs()) == 1 && circuit.SelfInverse(op.Name):
					add(cancelKey{name: op.Name, wire: w, group: groupIdx}, id)
				case len(n.Qargs()) == 1 && (op.Name == circuit.NameU1 || op.Name == circuit.NameRZ):
					add(cancelKey{name: "z_rotation", wire: w, group: groupIdx}, id)
				case len(n.Qargs()) == 2 && n.Qargs()[0] == w && circuit.SelfInverse(op.Name):
					other := n.Qargs()[1]
					otherIdx, ok := cs.GroupIndex(id, other)
					if !ok {
						continue
					}
					add(cancelKey{
						name: op.Name, wire: w, group: groupIdx,
						otherWire: other, otherGroup: otherIdx,
					}, id)
				}
			}
		}
	}

	for _, key := range order {
		ids := buckets[key]
		if len(ids) < 2 {
			continue
		}
		if key.name == "z_rotation" {
			if err := p.fuseZRotations(d, ids); err != nil {
				return nil, err
			}
			continue
		}
		// Pairs cancel; an odd count keeps the last occurrence.
		for _, id := range ids[:(len(ids)/2)*2] {
			if err := d.RemoveOpNode(id); err != nil {
				return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "cancelling %s pair", key.name)
			}
		}
	}
	return d, nil
}

// fuseZRotations replaces a run of u1/rz nodes on one qubit with a single u1
// holding the summed angle.
func (p *GateCancellation) fuseZRotations(d *dag.DAG, ids []int) error {
	first, ok := d.Node(ids[0])
	if !ok {
		return qerr.New(qerr.ErrCodeInternal, "z-rotation run head %d vanished", ids[0])
	}
	runQarg := first.Qargs()[0]

	total := 0.0
	for _, id := range ids {
		n, ok := d.Node(id)
		if !ok {
			return qerr.New(qerr.ErrCodeInternal, "z-rotation run member %d vanished", id)
		}
		op := n.Op()
		if op.Condition != nil || len(n.Qargs()) != 1 || n.Qargs()[0] != runQarg {
			return qerr.New(qerr.ErrCodeInternal,
				"z-rotation run on %s contains inconsistent node %d (%s)", runQarg, id, op.Name)
		}
		if len(op.Params) != 1 || op.Params[0].Symbolic() {
			return qerr.New(qerr.ErrCodeMalformedParam,
				"z-rotation %s at node %d has no bound angle", op.Name, id)
		}
		total += op.Params[0].Value
	}

	fused := dag.New("z_fused")
	reg := dag.NewQuantumRegister("q", 1)
	if err := fused.AddRegister(reg); err != nil {
		return qerr.Wrap(qerr.ErrCodeInternal, err, "building fused rotation")
	}
	if _, err := fused.ApplyOperationBack(circuit.U1(dag.Float(total)), []dag.Wire{reg.Bit(0)}, nil); err != nil {
		return qerr.Wrap(qerr.ErrCodeInternal, err, "building fused rotation")
	}

	if err := d.SubstituteNodeWithDAG(ids[0], fused, nil); err != nil {
		return qerr.Wrap(qerr.ErrCodeInternal, err, "splicing fused rotation")
	}
	for _, id := range ids[1:] {
		if err := d.RemoveOpNode(id); err != nil {
			return qerr.Wrap(qerr.ErrCodeInternal, err, "removing fused rotation member")
		}
	}
	return nil
}
