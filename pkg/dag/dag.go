package dag

import (
	"math"
	"sort"

	qerr "github.com/qompile/qompile/pkg/errors"
)

// DAG is the circuit intermediate representation: a directed acyclic
// multigraph whose edges carry wire labels. Every registered wire runs as a
// single directed path from its input node to its output node, and every
// operation touching the wire sits on that path.
//
// Nodes live in an arena keyed by stable integer IDs; there are no owning
// node-to-node pointers, which keeps mutation free of aliasing hazards.
//
// The zero value is not usable - use New. A DAG is owned by one compilation
// run and is not safe for concurrent mutation.
type DAG struct {
	name        string
	globalPhase float64

	nextID int
	nodes  map[int]*Node

	qubits    []Wire
	clbits    []Wire
	registers map[string]*Register

	inputs  map[Wire]int
	outputs map[Wire]int
}

// New creates an empty circuit DAG.
func New(name string) *DAG {
	return &DAG{
		name:      name,
		nodes:     make(map[int]*Node),
		registers: make(map[string]*Register),
		inputs:    make(map[Wire]int),
		outputs:   make(map[Wire]int),
	}
}

// Name returns the circuit name.
func (d *DAG) Name() string { return d.name }

// SetName sets the circuit name.
func (d *DAG) SetName(name string) { d.name = name }

// GlobalPhase returns the circuit-wide phase angle in [0, 2π).
func (d *DAG) GlobalPhase() float64 { return d.globalPhase }

// SetGlobalPhase sets the circuit-wide phase, normalized mod 2π.
func (d *DAG) SetGlobalPhase(angle float64) { d.globalPhase = mod2pi(angle) }

// AddGlobalPhase accumulates angle onto the circuit-wide phase mod 2π.
func (d *DAG) AddGlobalPhase(angle float64) { d.globalPhase = mod2pi(d.globalPhase + angle) }

func mod2pi(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AddRegister registers every wire of reg, in index order.
// Returns a STRUCTURAL_DUPLICATE_WIRE error if any wire is already present;
// no wires are added in that case.
func (d *DAG) AddRegister(reg *Register) error {
	for _, w := range reg.Bits() {
		if _, ok := d.inputs[w]; ok {
			return qerr.New(qerr.ErrCodeDuplicateWire, "wire %s already in circuit", w)
		}
	}
	if existing, ok := d.registers[reg.name]; ok && existing != reg {
		return qerr.New(qerr.ErrCodeDuplicateWire, "register name %q already in circuit", reg.name)
	}
	for _, w := range reg.Bits() {
		d.addWire(w)
	}
	d.registers[reg.name] = reg
	return nil
}

// AddWire registers a single wire, creating its input/output node pair and
// the direct edge between them.
// Returns a STRUCTURAL_DUPLICATE_WIRE error if the wire is already present.
func (d *DAG) AddWire(w Wire) error {
	if w.Zero() {
		return qerr.New(qerr.ErrCodeUnknownWire, "cannot add the zero wire")
	}
	if _, ok := d.inputs[w]; ok {
		return qerr.New(qerr.ErrCodeDuplicateWire, "wire %s already in circuit", w)
	}
	if existing, ok := d.registers[w.Register().Name()]; ok && existing != w.Register() {
		return qerr.New(qerr.ErrCodeDuplicateWire, "register name %q already in circuit", w.Register().Name())
	}
	d.addWire(w)
	d.registers[w.Register().Name()] = w.Register()
	return nil
}

func (d *DAG) addWire(w Wire) {
	in := d.newNode(NodeInput)
	out := d.newNode(NodeOutput)
	in.wire, out.wire = w, w
	in.wires, out.wires = []Wire{w}, []Wire{w}

	in.succs[w] = out.id
	out.preds[w] = in.id

	d.inputs[w] = in.id
	d.outputs[w] = out.id
	if w.Classical() {
		d.clbits = append(d.clbits, w)
	} else {
		d.qubits = append(d.qubits, w)
	}
}

func (d *DAG) newNode(kind NodeKind) *Node {
	n := &Node{
		id:    d.nextID,
		kind:  kind,
		preds: make(map[Wire]int),
		succs: make(map[Wire]int),
	}
	d.nextID++
	d.nodes[n.id] = n
	return n
}

// HasWire reports whether w is registered in the circuit.
func (d *DAG) HasWire(w Wire) bool {
	_, ok := d.inputs[w]
	return ok
}

// Qubits returns the circuit's qubits in registration order.
func (d *DAG) Qubits() []Wire { return d.qubits }

// Clbits returns the circuit's classical bits in registration order.
func (d *DAG) Clbits() []Wire { return d.clbits }

// NumQubits returns the number of registered qubits.
func (d *DAG) NumQubits() int { return len(d.qubits) }

// NumClbits returns the number of registered classical bits.
func (d *DAG) NumClbits() int { return len(d.clbits) }

// Width returns the total number of registered wires.
func (d *DAG) Width() int { return len(d.qubits) + len(d.clbits) }

// Register returns the registered register with the given name.
func (d *DAG) Register(name string) (*Register, bool) {
	r, ok := d.registers[name]
	return r, ok
}

// checkArgs validates an operation application without mutating the graph.
// On success it returns the complete, duplicate-free wire list the new node
// will occupy: qargs, then cargs, then condition bits not already in cargs.
func (d *DAG) checkArgs(op *Operation, qargs, cargs []Wire) ([]Wire, error) {
	if op == nil {
		return nil, qerr.New(qerr.ErrCodeInvalidParameter, "nil operation")
	}
	if len(qargs) != op.NumQubits || len(cargs) != op.NumClbits {
		return nil, qerr.New(qerr.ErrCodeArityMismatch,
			"%s expects %d qubits and %d clbits, got %d and %d",
			op.Name, op.NumQubits, op.NumClbits, len(qargs), len(cargs))
	}

	seen := make(map[Wire]bool, len(qargs)+len(cargs))
	wires := make([]Wire, 0, len(qargs)+len(cargs))
	for _, w := range qargs {
		if w.Classical() {
			return nil, qerr.New(qerr.ErrCodeInvalidParameter, "classical wire %s passed as qubit argument", w)
		}
		if seen[w] {
			return nil, qerr.New(qerr.ErrCodeDuplicateArgs, "duplicate qubit argument %s for %s", w, op.Name)
		}
		if !d.HasWire(w) {
			return nil, qerr.New(qerr.ErrCodeUnknownWire, "qubit %s not in circuit", w)
		}
		seen[w] = true
		wires = append(wires, w)
	}
	for _, w := range cargs {
		if !w.Classical() {
			return nil, qerr.New(qerr.ErrCodeInvalidParameter, "quantum wire %s passed as clbit argument", w)
		}
		if seen[w] {
			return nil, qerr.New(qerr.ErrCodeDuplicateArgs, "duplicate clbit argument %s for %s", w, op.Name)
		}
		if !d.HasWire(w) {
			return nil, qerr.New(qerr.ErrCodeUnknownWire, "clbit %s not in circuit", w)
		}
		seen[w] = true
		wires = append(wires, w)
	}

	if cond := op.Condition; cond != nil {
		reg, ok := d.registers[cond.Register.Name()]
		if !ok || reg != cond.Register {
			return nil, qerr.New(qerr.ErrCodeUnknownRegister,
				"condition register %q not in circuit", cond.Register.Name())
		}
		if !cond.Register.Classical() {
			return nil, qerr.New(qerr.ErrCodeInvalidParameter,
				"condition register %q is not classical", cond.Register.Name())
		}
		for _, w := range cond.Bits() {
			if !seen[w] {
				seen[w] = true
				wires = append(wires, w)
			}
		}
	}

	return wires, nil
}

// ApplyOperationBack appends op at the current end of every wire it touches
// and returns the new node. The operation's condition bits count as touched
// wires.
//
// All argument validation happens before any edge is modified: either the
// whole insertion completes or the graph is untouched.
func (d *DAG) ApplyOperationBack(op *Operation, qargs, cargs []Wire) (*Node, error) {
	wires, err := d.checkArgs(op, qargs, cargs)
	if err != nil {
		return nil, err
	}

	n := d.newNode(NodeOp)
	n.op = op
	n.qargs = append([]Wire(nil), qargs...)
	n.cargs = append([]Wire(nil), cargs...)
	n.wires = wires

	for _, w := range wires {
		out := d.nodes[d.outputs[w]]
		pred := d.nodes[out.preds[w]]

		pred.succs[w] = n.id
		n.preds[w] = pred.id
		n.succs[w] = out.id
		out.preds[w] = n.id
	}
	return n, nil
}

// ApplyOperationFront inserts op at the start of every wire it touches,
// adjacent to the input nodes, and returns the new node.
func (d *DAG) ApplyOperationFront(op *Operation, qargs, cargs []Wire) (*Node, error) {
	wires, err := d.checkArgs(op, qargs, cargs)
	if err != nil {
		return nil, err
	}

	n := d.newNode(NodeOp)
	n.op = op
	n.qargs = append([]Wire(nil), qargs...)
	n.cargs = append([]Wire(nil), cargs...)
	n.wires = wires

	for _, w := range wires {
		in := d.nodes[d.inputs[w]]
		succ := d.nodes[in.succs[w]]

		in.succs[w] = n.id
		n.preds[w] = in.id
		n.succs[w] = succ.id
		succ.preds[w] = n.id
	}
	return n, nil
}

// RemoveOpNode removes one operation node, reconnecting each wire's
// predecessor directly to its successor. The node's ID is retired and never
// reused.
// Returns a STRUCTURAL_NOT_OP_NODE error if id references an input or output
// node, or STRUCTURAL_UNKNOWN_NODE if it references nothing.
func (d *DAG) RemoveOpNode(id int) error {
	n, ok := d.nodes[id]
	if !ok {
		return qerr.New(qerr.ErrCodeUnknownNode, "node %d not in circuit", id)
	}
	if n.kind != NodeOp {
		return qerr.New(qerr.ErrCodeNotOpNode, "node %d is a %s node, not an operation", id, n.kind)
	}

	for _, w := range n.wires {
		pred := d.nodes[n.preds[w]]
		succ := d.nodes[n.succs[w]]
		pred.succs[w] = succ.id
		succ.preds[w] = pred.id
	}
	delete(d.nodes, id)
	return nil
}

// Node returns the node with the given ID.
func (d *DAG) Node(id int) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodeCount returns the number of live nodes, including input/output pairs.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// Size returns the number of operation nodes.
func (d *DAG) Size() int {
	count := 0
	for _, n := range d.nodes {
		if n.kind == NodeOp {
			count++
		}
	}
	return count
}

// InputNode returns the input node ID for a wire.
func (d *DAG) InputNode(w Wire) (int, bool) {
	id, ok := d.inputs[w]
	return id, ok
}

// OutputNode returns the output node ID for a wire.
func (d *DAG) OutputNode(w Wire) (int, bool) {
	id, ok := d.outputs[w]
	return id, ok
}

// PredecessorOnWire returns the node immediately before id on wire w.
func (d *DAG) PredecessorOnWire(id int, w Wire) (*Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, false
	}
	p, ok := n.preds[w]
	if !ok {
		return nil, false
	}
	return d.nodes[p], true
}

// SuccessorOnWire returns the node immediately after id on wire w.
func (d *DAG) SuccessorOnWire(id int, w Wire) (*Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, false
	}
	s, ok := n.succs[w]
	if !ok {
		return nil, false
	}
	return d.nodes[s], true
}

// Predecessors returns the distinct nodes with an edge into id, ordered by
// node ID.
func (d *DAG) Predecessors(id int) []*Node {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	return d.distinctNeighbors(n.preds)
}

// Successors returns the distinct nodes with an edge out of id, ordered by
// node ID.
func (d *DAG) Successors(id int) []*Node {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	return d.distinctNeighbors(n.succs)
}

func (d *DAG) distinctNeighbors(adj map[Wire]int) []*Node {
	seen := make(map[int]bool, len(adj))
	out := make([]*Node, 0, len(adj))
	for _, id := range adj {
		if !seen[id] {
			seen[id] = true
			out = append(out, d.nodes[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Copy returns a deep copy of the DAG. Node IDs are preserved, so IDs taken
// from the original resolve to the corresponding nodes in the copy.
// Operations are cloned; definition sub-DAGs are shared as read-only.
func (d *DAG) Copy() *DAG {
	cp := &DAG{
		name:        d.name,
		globalPhase: d.globalPhase,
		nextID:      d.nextID,
		nodes:       make(map[int]*Node, len(d.nodes)),
		qubits:      append([]Wire(nil), d.qubits...),
		clbits:      append([]Wire(nil), d.clbits...),
		registers:   make(map[string]*Register, len(d.registers)),
		inputs:      make(map[Wire]int, len(d.inputs)),
		outputs:     make(map[Wire]int, len(d.outputs)),
	}
	for name, reg := range d.registers {
		cp.registers[name] = reg
	}
	for w, id := range d.inputs {
		cp.inputs[w] = id
	}
	for w, id := range d.outputs {
		cp.outputs[w] = id
	}
	for id, n := range d.nodes {
		nn := &Node{
			id:    n.id,
			kind:  n.kind,
			wire:  n.wire,
			op:    n.op.Clone(),
			qargs: append([]Wire(nil), n.qargs...),
			cargs: append([]Wire(nil), n.cargs...),
			wires: append([]Wire(nil), n.wires...),
			preds: make(map[Wire]int, len(n.preds)),
			succs: make(map[Wire]int, len(n.succs)),
		}
		for w, p := range n.preds {
			nn.preds[w] = p
		}
		for w, s := range n.succs {
			nn.succs[w] = s
		}
		cp.nodes[id] = nn
	}
	return cp
}
