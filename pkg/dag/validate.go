package dag

import (
	qerr "github.com/qompile/qompile/pkg/errors"
)

// Validate checks the structural invariants of the circuit graph:
//
//  1. Every registered wire has exactly one input and one output node.
//  2. Per-wire adjacency is mutually consistent (a's successor on w names a,
//     and vice versa).
//  3. The multigraph is acyclic.
//  4. Every node touching wire w lies on the single directed path from w's
//     input node to w's output node.
//
// These hold by construction after every public mutation; Validate exists for
// tests and for catching corruption early when developing new passes.
func (d *DAG) Validate() error {
	if len(d.inputs) != d.Width() || len(d.outputs) != d.Width() {
		return qerr.New(qerr.ErrCodeInternal,
			"have %d input and %d output nodes for %d wires", len(d.inputs), len(d.outputs), d.Width())
	}

	// Adjacency consistency.
	for id, n := range d.nodes {
		for w, s := range n.succs {
			succ, ok := d.nodes[s]
			if !ok {
				return qerr.New(qerr.ErrCodeInternal, "node %d points at missing successor %d on %s", id, s, w)
			}
			if succ.preds[w] != id {
				return qerr.New(qerr.ErrCodeInternal,
					"node %d names %d as successor on %s, but %d disagrees", id, s, w, s)
			}
		}
		for w, p := range n.preds {
			pred, ok := d.nodes[p]
			if !ok {
				return qerr.New(qerr.ErrCodeInternal, "node %d points at missing predecessor %d on %s", id, p, w)
			}
			if pred.succs[w] != id {
				return qerr.New(qerr.ErrCodeInternal,
					"node %d names %d as predecessor on %s, but %d disagrees", id, p, w, p)
			}
		}
	}

	// Acyclicity: a topological sort that cannot place every node means a
	// cycle.
	if len(d.TopologicalNodes()) != len(d.nodes) {
		return qerr.New(qerr.ErrCodeCycle, "circuit graph contains a cycle")
	}

	// Path coverage: walking each wire from input to output must visit every
	// node that claims to touch the wire.
	touching := make(map[Wire]int)
	for _, n := range d.nodes {
		for _, w := range n.wires {
			touching[w]++
		}
	}
	for _, w := range append(append([]Wire(nil), d.qubits...), d.clbits...) {
		inID, ok := d.inputs[w]
		if !ok {
			return qerr.New(qerr.ErrCodeInternal, "wire %s has no input node", w)
		}
		outID, ok := d.outputs[w]
		if !ok {
			return qerr.New(qerr.ErrCodeInternal, "wire %s has no output node", w)
		}
		visited := 0
		id := inID
		for {
			visited++
			if id == outID {
				break
			}
			n := d.nodes[id]
			next, ok := n.succs[w]
			if !ok {
				return qerr.New(qerr.ErrCodeInternal, "wire %s path breaks at node %d", w, id)
			}
			if visited > len(d.nodes) {
				return qerr.New(qerr.ErrCodeCycle, "wire %s path does not terminate", w)
			}
			id = next
		}
		if visited != touching[w] {
			return qerr.New(qerr.ErrCodeInternal,
				"wire %s path visits %d nodes but %d touch the wire", w, visited, touching[w])
		}
	}

	return nil
}
