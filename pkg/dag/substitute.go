package dag

import (
	qerr "github.com/qompile/qompile/pkg/errors"
)

// SubstituteNodeWithDAG replaces one operation node with the contents of sub.
//
// wireOrder gives sub's wires in the order that matches the replaced node's
// wires: qargs first, then cargs, then condition bits. Passing nil uses sub's
// wires in registration order (qubits, then clbits). Every wire of sub must be
// covered exactly once.
//
// If the replaced node carries a classical condition, the condition is
// propagated onto every operation copied from sub. It is an error if any
// copied operation writes one of the condition's bits: that would silently
// corrupt the conditioning semantics.
//
// All validation happens before the graph is touched; on error the DAG is
// unchanged. sub's global phase is accumulated onto the receiver.
func (d *DAG) SubstituteNodeWithDAG(id int, sub *DAG, wireOrder []Wire) error {
	n, ok := d.nodes[id]
	if !ok {
		return qerr.New(qerr.ErrCodeUnknownNode, "node %d not in circuit", id)
	}
	if n.kind != NodeOp {
		return qerr.New(qerr.ErrCodeNotOpNode, "node %d is a %s node, not an operation", id, n.kind)
	}

	if wireOrder == nil {
		wireOrder = append(append([]Wire(nil), sub.qubits...), sub.clbits...)
	}
	if len(wireOrder) != len(n.wires) {
		return qerr.New(qerr.ErrCodeWireCountMismatch,
			"replacement carries %d wires, node %d touches %d", len(wireOrder), id, len(n.wires))
	}
	if sub.Width() != len(wireOrder) {
		return qerr.New(qerr.ErrCodeWireCountMismatch,
			"wire order covers %d wires, replacement has %d", len(wireOrder), sub.Width())
	}

	// sub wire -> wire of the replaced node, position by position.
	wireMap := make(map[Wire]Wire, len(wireOrder))
	for i, sw := range wireOrder {
		if !sub.HasWire(sw) {
			return qerr.New(qerr.ErrCodeUnknownWire, "wire %s not in replacement circuit", sw)
		}
		if _, dup := wireMap[sw]; dup {
			return qerr.New(qerr.ErrCodeDuplicateArgs, "wire %s repeated in wire order", sw)
		}
		target := n.wires[i]
		if sw.Classical() != target.Classical() {
			return qerr.New(qerr.ErrCodeInvalidParameter,
				"wire order maps %s onto %s across the quantum/classical boundary", sw, target)
		}
		wireMap[sw] = target
	}

	subOps := sub.TopologicalOpNodes()

	outer := n.op.Condition
	if outer != nil {
		condBits := make(map[Wire]bool)
		for _, w := range outer.Bits() {
			condBits[w] = true
		}
		for _, sn := range subOps {
			if sn.op.Condition != nil {
				return qerr.New(qerr.ErrCodeConditionConflict,
					"replacement operation %s carries its own condition", sn.op.Name)
			}
			for _, c := range sn.cargs {
				if condBits[wireMap[c]] {
					return qerr.New(qerr.ErrCodeConditionConflict,
						"replacement operation %s writes condition bit %s", sn.op.Name, wireMap[c])
				}
			}
		}
	}

	// Save the frontier around the node, then detach it.
	fullPred := make(map[Wire]int, len(n.wires))
	succ := make(map[Wire]int, len(n.wires))
	for _, w := range n.wires {
		fullPred[w] = n.preds[w]
		succ[w] = n.succs[w]
	}
	delete(d.nodes, id)

	// Splice in sub's operations between the saved predecessors and
	// successors, wire by wire.
	for _, sn := range subOps {
		op := sn.op.Clone()
		if outer != nil {
			cond := *outer
			op.Condition = &cond
		}

		nn := d.newNode(NodeOp)
		nn.op = op
		nn.qargs = mapWires(sn.qargs, wireMap)
		nn.cargs = mapWires(sn.cargs, wireMap)

		wires := append(append([]Wire(nil), nn.qargs...), nn.cargs...)
		if outer != nil {
			present := make(map[Wire]bool, len(wires))
			for _, w := range wires {
				present[w] = true
			}
			for _, w := range outer.Bits() {
				if !present[w] {
					wires = append(wires, w)
				}
			}
		}
		nn.wires = wires

		for _, w := range wires {
			p := d.nodes[fullPred[w]]
			p.succs[w] = nn.id
			nn.preds[w] = p.id
			fullPred[w] = nn.id
		}
	}

	// Close the frontier.
	for _, w := range n.wires {
		p := d.nodes[fullPred[w]]
		s := d.nodes[succ[w]]
		p.succs[w] = s.id
		s.preds[w] = p.id
	}

	d.AddGlobalPhase(sub.globalPhase)
	return nil
}

func mapWires(ws []Wire, m map[Wire]Wire) []Wire {
	out := make([]Wire, len(ws))
	for i, w := range ws {
		out[i] = m[w]
	}
	return out
}

// Compose grafts other's operations onto the receiver's output frontier.
//
// qubitMap and clbitMap translate other's wires into the receiver's; nil maps
// default to positional identity (other's i-th qubit onto the receiver's
// i-th). other may not be wider than the receiver, and a map's value set may
// not contain duplicates. Conditions are translated through the classical
// map. Global phase accumulates additively mod 2π.
//
// With inPlace the receiver is mutated and returned; otherwise the receiver
// is left untouched and a composed copy is returned.
func (d *DAG) Compose(other *DAG, qubitMap, clbitMap map[Wire]Wire, inPlace bool) (*DAG, error) {
	if other.NumQubits() > d.NumQubits() {
		return nil, qerr.New(qerr.ErrCodeCapacity,
			"composed circuit has %d qubits, target has %d", other.NumQubits(), d.NumQubits())
	}
	if other.NumClbits() > d.NumClbits() {
		return nil, qerr.New(qerr.ErrCodeCapacity,
			"composed circuit has %d clbits, target has %d", other.NumClbits(), d.NumClbits())
	}

	qm, err := composeMap(qubitMap, other.qubits, d.qubits)
	if err != nil {
		return nil, err
	}
	cm, err := composeMap(clbitMap, other.clbits, d.clbits)
	if err != nil {
		return nil, err
	}

	ops := other.TopologicalOpNodes()

	// Pre-validate every insertion so a failure cannot leave the receiver
	// half-composed. Wire registration does not change during the walk, so
	// checkArgs results stay valid.
	type staged struct {
		op     *Operation
		qargs  []Wire
		cargs  []Wire
	}
	plan := make([]staged, 0, len(ops))
	for _, sn := range ops {
		op := sn.op.Clone()
		if op.Condition != nil {
			cond, err := mapCondition(op.Condition, cm)
			if err != nil {
				return nil, err
			}
			op.Condition = cond
		}
		qargs := mapWires(sn.qargs, qm)
		cargs := mapWires(sn.cargs, cm)
		if _, err := d.checkArgs(op, qargs, cargs); err != nil {
			return nil, err
		}
		plan = append(plan, staged{op: op, qargs: qargs, cargs: cargs})
	}

	target := d
	if !inPlace {
		target = d.Copy()
	}
	for _, st := range plan {
		if _, err := target.ApplyOperationBack(st.op, st.qargs, st.cargs); err != nil {
			// checkArgs accepted this exact insertion above.
			return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "compose re-validation failed")
		}
	}
	target.AddGlobalPhase(other.globalPhase)
	return target, nil
}

// composeMap fills in the positional default and checks injectivity.
func composeMap(m map[Wire]Wire, from, to []Wire) (map[Wire]Wire, error) {
	if m == nil {
		m = make(map[Wire]Wire, len(from))
		for i, w := range from {
			m[w] = to[i]
		}
		return m, nil
	}
	for _, w := range from {
		if _, ok := m[w]; !ok {
			return nil, qerr.New(qerr.ErrCodeUnknownWire, "wire %s missing from compose map", w)
		}
	}
	seen := make(map[Wire]bool, len(m))
	for _, v := range m {
		if seen[v] {
			return nil, qerr.New(qerr.ErrCodeDuplicateArgs, "wire %s mapped twice in compose map", v)
		}
		seen[v] = true
	}
	return m, nil
}

// mapCondition translates a condition's register through the classical wire
// map. The source register's bits must land on a single register, in index
// order and covering it completely, for the compared value to keep its
// meaning.
func mapCondition(cond *Condition, cm map[Wire]Wire) (*Condition, error) {
	bits := cond.Bits()
	first, ok := cm[bits[0]]
	if !ok {
		return nil, qerr.New(qerr.ErrCodeUnknownWire, "condition bit %s missing from compose map", bits[0])
	}
	target := first.Register()
	if target.Size() != len(bits) {
		return nil, qerr.New(qerr.ErrCodeUnknownRegister,
			"condition register %q does not map onto a whole register", cond.Register.Name())
	}
	for i, b := range bits {
		mapped, ok := cm[b]
		if !ok || mapped != target.Bit(i) {
			return nil, qerr.New(qerr.ErrCodeUnknownRegister,
				"condition register %q does not map onto a whole register", cond.Register.Name())
		}
	}
	return &Condition{Register: target, Value: cond.Value}, nil
}
