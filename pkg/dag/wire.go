package dag

import "fmt"

// Register is a named block of qubits or classical bits. Wires derive their
// identity from the register they belong to: two registers with the same name
// and size are still distinct wires sources, because identity is the register
// pointer, not its value.
type Register struct {
	name      string
	size      int
	classical bool
}

// NewQuantumRegister creates a register of size qubits.
func NewQuantumRegister(name string, size int) *Register {
	return &Register{name: name, size: size}
}

// NewClassicalRegister creates a register of size classical bits.
func NewClassicalRegister(name string, size int) *Register {
	return &Register{name: name, size: size, classical: true}
}

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Size returns the number of bits in the register.
func (r *Register) Size() int { return r.size }

// Classical reports whether the register holds classical bits.
func (r *Register) Classical() bool { return r.classical }

// Bit returns the wire for index i. Panics if i is out of range; register
// indices are fixed at construction and an out-of-range access is a
// programming error, not an input error.
func (r *Register) Bit(i int) Wire {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("dag: bit index %d out of range for register %s[%d]", i, r.name, r.size))
	}
	return Wire{reg: r, index: i}
}

// Bits returns all wires of the register in index order.
func (r *Register) Bits() []Wire {
	bits := make([]Wire, r.size)
	for i := range bits {
		bits[i] = Wire{reg: r, index: i}
	}
	return bits
}

// Wire identifies one qubit or one classical bit slot. Wires are immutable
// values; equality is by register identity plus index, so they are usable as
// map keys. The zero value is not a valid wire.
type Wire struct {
	reg   *Register
	index int
}

// Register returns the register the wire belongs to.
func (w Wire) Register() *Register { return w.reg }

// Index returns the wire's index within its register.
func (w Wire) Index() int { return w.index }

// Classical reports whether the wire is a classical bit.
func (w Wire) Classical() bool { return w.reg != nil && w.reg.classical }

// Zero reports whether the wire is the zero value.
func (w Wire) Zero() bool { return w.reg == nil }

// String formats the wire as name[index], e.g. "q[0]".
func (w Wire) String() string {
	if w.reg == nil {
		return "<nil wire>"
	}
	return fmt.Sprintf("%s[%d]", w.reg.name, w.index)
}
