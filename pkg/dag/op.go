package dag

import (
	"fmt"
	"strconv"
	"strings"
)

// Param is one gate parameter: either a concrete angle or an unbound symbol.
// Symbolic parameters survive through the pipeline untouched; analysis passes
// treat gates carrying them as opaque.
type Param struct {
	Value  float64
	Symbol string // non-empty means the parameter is symbolic
}

// Float returns a numeric parameter.
func Float(v float64) Param { return Param{Value: v} }

// Symbol returns a symbolic parameter.
func Symbol(name string) Param { return Param{Symbol: name} }

// Symbolic reports whether the parameter is unbound.
func (p Param) Symbolic() bool { return p.Symbol != "" }

// String formats the parameter for display.
func (p Param) String() string {
	if p.Symbolic() {
		return p.Symbol
	}
	return strconv.FormatFloat(p.Value, 'g', -1, 64)
}

// Condition gates an operation on a classical register holding an exact value.
type Condition struct {
	Register *Register
	Value    int64
}

// Bits returns the classical wires the condition reads.
func (c *Condition) Bits() []Wire {
	if c == nil {
		return nil
	}
	return c.Register.Bits()
}

// String formats the condition as "name==value".
func (c *Condition) String() string {
	return fmt.Sprintf("%s==%d", c.Register.Name(), c.Value)
}

// Operation is one instruction applied to qubits and classical bits. It is a
// tagged value rather than a class hierarchy: capabilities (arity, known
// matrix, self-inverse) are looked up by name in fixed tables, not dispatched
// virtually.
//
// An Operation is owned by the node it is attached to. Definition, when
// present, is an independent owned DAG describing the operation in terms of
// finer-grained operations; it holds no back-reference to the parent.
type Operation struct {
	Name       string
	NumQubits  int
	NumClbits  int
	Params     []Param
	Definition *DAG       // optional decomposition
	Condition  *Condition // optional classical condition
}

// Clone returns a copy of the operation with its own params slice. The
// definition sub-DAG is shared; it is treated as read-only once attached.
func (op *Operation) Clone() *Operation {
	if op == nil {
		return nil
	}
	cp := *op
	if op.Params != nil {
		cp.Params = make([]Param, len(op.Params))
		copy(cp.Params, op.Params)
	}
	if op.Condition != nil {
		cond := *op.Condition
		cp.Condition = &cond
	}
	return &cp
}

// Symbolic reports whether any parameter is unbound.
func (op *Operation) Symbolic() bool {
	for _, p := range op.Params {
		if p.Symbolic() {
			return true
		}
	}
	return false
}

// String formats the operation as name(params).
func (op *Operation) String() string {
	if len(op.Params) == 0 {
		return op.Name
	}
	parts := make([]string, len(op.Params))
	for i, p := range op.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", op.Name, strings.Join(parts, ","))
}
