package dag

import "fmt"

// NodeKind distinguishes the three node variants of the circuit graph.
type NodeKind int

const (
	// NodeInput marks the start of a wire. Exactly one per registered wire.
	NodeInput NodeKind = iota
	// NodeOutput marks the end of a wire. Exactly one per registered wire.
	NodeOutput
	// NodeOp is an operation applied to one or more wires.
	NodeOp
)

func (k NodeKind) String() string {
	switch k {
	case NodeInput:
		return "in"
	case NodeOutput:
		return "out"
	case NodeOp:
		return "op"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is a vertex in the circuit graph, stored in the DAG's arena and
// referenced by a stable integer ID. IDs are assigned from a monotonic
// counter and never reused within one DAG instance, so a stale ID after a
// removal fails loudly instead of silently aliasing a new node.
//
// Nodes are created only through DAG mutation methods; the zero value is not
// usable.
type Node struct {
	id   int
	kind NodeKind

	wire  Wire       // input/output nodes only
	op    *Operation // op nodes only
	qargs []Wire
	cargs []Wire
	wires []Wire // every wire the node touches, in qargs, cargs, condition order

	// Per-wire adjacency. A node occupies exactly one position on each of its
	// wires, so one predecessor and one successor entry per wire encodes the
	// whole labeled multigraph.
	preds map[Wire]int
	succs map[Wire]int
}

// ID returns the node's stable arena ID.
func (n *Node) ID() int { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() NodeKind { return n.kind }

// IsOp reports whether the node is an operation node.
func (n *Node) IsOp() bool { return n.kind == NodeOp }

// Wire returns the wire of an input or output node; the zero Wire for op nodes.
func (n *Node) Wire() Wire { return n.wire }

// Op returns the node's operation, or nil for input/output nodes.
func (n *Node) Op() *Operation { return n.op }

// Qargs returns the qubit arguments of an op node. The returned slice is a
// read-only view.
func (n *Node) Qargs() []Wire { return n.qargs }

// Cargs returns the classical bit arguments of an op node. The returned slice
// is a read-only view.
func (n *Node) Cargs() []Wire { return n.cargs }

// Wires returns every wire the node touches: qargs, then cargs, then any
// condition bits not already present. For input/output nodes it is the single
// carried wire.
func (n *Node) Wires() []Wire { return n.wires }

// Name returns the operation name for op nodes, or the kind tag otherwise.
func (n *Node) Name() string {
	if n.kind == NodeOp {
		return n.op.Name
	}
	return n.kind.String()
}

// String formats the node for debugging.
func (n *Node) String() string {
	switch n.kind {
	case NodeOp:
		return fmt.Sprintf("#%d %s %v", n.id, n.op, n.qargs)
	default:
		return fmt.Sprintf("#%d %s %s", n.id, n.kind, n.wire)
	}
}
