package circuit

import (
	"github.com/qompile/qompile/pkg/dag"

	qerr "github.com/qompile/qompile/pkg/errors"
)

// Builder assembles a circuit DAG over one quantum and one classical
// register. The first error sticks: later calls become no-ops and Err
// returns it, so a chain of gate calls needs a single check at the end.
type Builder struct {
	d   *dag.DAG
	q   *dag.Register
	c   *dag.Register
	err error
}

// NewBuilder creates a builder over numQubits qubits and numClbits classical
// bits, registered as "q" and "c".
func NewBuilder(name string, numQubits, numClbits int) *Builder {
	b := &Builder{d: dag.New(name)}
	b.q = dag.NewQuantumRegister("q", numQubits)
	b.err = b.d.AddRegister(b.q)
	if b.err == nil && numClbits > 0 {
		b.c = dag.NewClassicalRegister("c", numClbits)
		b.err = b.d.AddRegister(b.c)
	}
	return b
}

// DAG returns the circuit built so far.
func (b *Builder) DAG() *dag.DAG { return b.d }

// Err returns the first error encountered while building.
func (b *Builder) Err() error { return b.err }

// QuantumRegister returns the builder's quantum register.
func (b *Builder) QuantumRegister() *dag.Register { return b.q }

// ClassicalRegister returns the builder's classical register, nil if the
// builder was created without classical bits.
func (b *Builder) ClassicalRegister() *dag.Register { return b.c }

// Qubit returns qubit wire i.
func (b *Builder) Qubit(i int) dag.Wire { return b.q.Bit(i) }

// Clbit returns classical wire i.
func (b *Builder) Clbit(i int) dag.Wire { return b.c.Bit(i) }

// Apply appends op on the given qubit indices.
func (b *Builder) Apply(op *dag.Operation, qubits ...int) *Builder {
	if b.err != nil {
		return b
	}
	qargs := make([]dag.Wire, len(qubits))
	for i, q := range qubits {
		if q < 0 || q >= b.q.Size() {
			b.err = qerr.New(qerr.ErrCodeUnknownWire, "qubit index %d out of range [0, %d)", q, b.q.Size())
			return b
		}
		qargs[i] = b.q.Bit(q)
	}
	_, b.err = b.d.ApplyOperationBack(op, qargs, nil)
	return b
}

// H appends a Hadamard on qubit q.
func (b *Builder) H(q int) *Builder { return b.Apply(H(), q) }

// X appends a Pauli-X on qubit q.
func (b *Builder) X(q int) *Builder { return b.Apply(X(), q) }

// Y appends a Pauli-Y on qubit q.
func (b *Builder) Y(q int) *Builder { return b.Apply(Y(), q) }

// Z appends a Pauli-Z on qubit q.
func (b *Builder) Z(q int) *Builder { return b.Apply(Z(), q) }

// S appends a phase gate on qubit q.
func (b *Builder) S(q int) *Builder { return b.Apply(S(), q) }

// T appends a T gate on qubit q.
func (b *Builder) T(q int) *Builder { return b.Apply(T(), q) }

// CX appends a controlled-X with the given control and target.
func (b *Builder) CX(control, target int) *Builder { return b.Apply(CX(), control, target) }

// CZ appends a controlled-Z on the given qubits.
func (b *Builder) CZ(a, bq int) *Builder { return b.Apply(CZ(), a, bq) }

// SWAP appends a swap on the given qubits.
func (b *Builder) SWAP(a, bq int) *Builder { return b.Apply(SWAP(), a, bq) }

// RZ appends a Z rotation by theta on qubit q.
func (b *Builder) RZ(theta float64, q int) *Builder { return b.Apply(RZ(dag.Float(theta)), q) }

// U1 appends a phase rotation by lambda on qubit q.
func (b *Builder) U1(lambda float64, q int) *Builder { return b.Apply(U1(dag.Float(lambda)), q) }

// Barrier appends a barrier across all qubits.
func (b *Builder) Barrier() *Builder {
	if b.err != nil {
		return b
	}
	qubits := make([]int, b.q.Size())
	for i := range qubits {
		qubits[i] = i
	}
	return b.Apply(Barrier(len(qubits)), qubits...)
}

// Measure appends a measurement of qubit q into classical bit c.
func (b *Builder) Measure(q, c int) *Builder {
	if b.err != nil {
		return b
	}
	if b.c == nil {
		b.err = qerr.New(qerr.ErrCodeInvalidParameter, "circuit %q has no classical register", b.d.Name())
		return b
	}
	if c < 0 || c >= b.c.Size() {
		b.err = qerr.New(qerr.ErrCodeUnknownWire, "clbit index %d out of range [0, %d)", c, b.c.Size())
		return b
	}
	if q < 0 || q >= b.q.Size() {
		b.err = qerr.New(qerr.ErrCodeUnknownWire, "qubit index %d out of range [0, %d)", q, b.q.Size())
		return b
	}
	_, b.err = b.d.ApplyOperationBack(Measure(), []dag.Wire{b.q.Bit(q)}, []dag.Wire{b.c.Bit(c)})
	return b
}

// MeasureAll measures qubit i into classical bit i for every qubit. The
// classical register must be at least as wide as the quantum one.
func (b *Builder) MeasureAll() *Builder {
	if b.err != nil {
		return b
	}
	if b.c == nil || b.c.Size() < b.q.Size() {
		b.err = qerr.New(qerr.ErrCodeArityMismatch,
			"measure_all needs %d classical bits, have %d", b.q.Size(), b.clbitCount())
		return b
	}
	for i := 0; i < b.q.Size(); i++ {
		if b.Measure(i, i); b.err != nil {
			return b
		}
	}
	return b
}

func (b *Builder) clbitCount() int {
	if b.c == nil {
		return 0
	}
	return b.c.Size()
}

// SWAPWithDefinition returns a swap operation carrying its standard
// three-CX decomposition, for use with the decompose pass.
func SWAPWithDefinition() *dag.Operation {
	op := SWAP()
	def := dag.New("swap_def")
	r := dag.NewQuantumRegister("sw", 2)
	if err := def.AddRegister(r); err != nil {
		return op
	}
	a, bq := r.Bit(0), r.Bit(1)
	def.ApplyOperationBack(CX(), []dag.Wire{a, bq}, nil)
	def.ApplyOperationBack(CX(), []dag.Wire{bq, a}, nil)
	def.ApplyOperationBack(CX(), []dag.Wire{a, bq}, nil)
	op.Definition = def
	return op
}
