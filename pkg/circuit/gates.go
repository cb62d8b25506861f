// Package circuit provides the standard gate set, the unitary matrices known
// to the analysis passes, and a builder for assembling circuits wire by wire.
package circuit

import (
	"math"

	"github.com/qompile/qompile/pkg/dag"
)

// Standard gate names. Passes match operations by these names; anything else
// is treated as opaque.
const (
	NameH       = "h"
	NameX       = "x"
	NameY       = "y"
	NameZ       = "z"
	NameS       = "s"
	NameSdg     = "sdg"
	NameT       = "t"
	NameTdg     = "tdg"
	NameCX      = "cx"
	NameCY      = "cy"
	NameCZ      = "cz"
	NameSWAP    = "swap"
	NameRX      = "rx"
	NameRY      = "ry"
	NameRZ      = "rz"
	NameU1      = "u1"
	NameU2      = "u2"
	NameU3      = "u3"
	NameMeasure = "measure"
	NameReset   = "reset"
	NameBarrier = "barrier"
	NameDelay   = "delay"
)

func oneQubit(name string, params ...dag.Param) *dag.Operation {
	return &dag.Operation{Name: name, NumQubits: 1, Params: params}
}

func twoQubit(name string) *dag.Operation {
	return &dag.Operation{Name: name, NumQubits: 2}
}

// H returns a Hadamard gate.
func H() *dag.Operation { return oneQubit(NameH) }

// X returns a Pauli-X gate.
func X() *dag.Operation { return oneQubit(NameX) }

// Y returns a Pauli-Y gate.
func Y() *dag.Operation { return oneQubit(NameY) }

// Z returns a Pauli-Z gate.
func Z() *dag.Operation { return oneQubit(NameZ) }

// S returns a phase gate (sqrt(Z)).
func S() *dag.Operation { return oneQubit(NameS) }

// Sdg returns the adjoint of S.
func Sdg() *dag.Operation { return oneQubit(NameSdg) }

// T returns a T gate (fourth root of Z).
func T() *dag.Operation { return oneQubit(NameT) }

// Tdg returns the adjoint of T.
func Tdg() *dag.Operation { return oneQubit(NameTdg) }

// CX returns a controlled-X gate; the first qubit argument is the control.
func CX() *dag.Operation { return twoQubit(NameCX) }

// CY returns a controlled-Y gate.
func CY() *dag.Operation { return twoQubit(NameCY) }

// CZ returns a controlled-Z gate.
func CZ() *dag.Operation { return twoQubit(NameCZ) }

// SWAP returns a swap gate.
func SWAP() *dag.Operation { return twoQubit(NameSWAP) }

// RX returns an X-axis rotation by theta.
func RX(theta dag.Param) *dag.Operation { return oneQubit(NameRX, theta) }

// RY returns a Y-axis rotation by theta.
func RY(theta dag.Param) *dag.Operation { return oneQubit(NameRY, theta) }

// RZ returns a Z-axis rotation by theta.
func RZ(theta dag.Param) *dag.Operation { return oneQubit(NameRZ, theta) }

// U1 returns a diagonal phase rotation by lambda.
func U1(lambda dag.Param) *dag.Operation { return oneQubit(NameU1, lambda) }

// U2 returns a single-qubit gate with two Euler angles.
func U2(phi, lambda dag.Param) *dag.Operation { return oneQubit(NameU2, phi, lambda) }

// U3 returns a generic single-qubit gate with three Euler angles.
func U3(theta, phi, lambda dag.Param) *dag.Operation { return oneQubit(NameU3, theta, phi, lambda) }

// Measure returns a measurement of one qubit into one classical bit.
func Measure() *dag.Operation {
	return &dag.Operation{Name: NameMeasure, NumQubits: 1, NumClbits: 1}
}

// Reset returns a qubit reset to |0>.
func Reset() *dag.Operation { return oneQubit(NameReset) }

// Barrier returns a barrier across numQubits qubits. Barriers carry no
// unitary; they only constrain reordering.
func Barrier(numQubits int) *dag.Operation {
	return &dag.Operation{Name: NameBarrier, NumQubits: numQubits}
}

// Delay returns an idle period of the given duration (in the schedule's time
// unit) on one qubit.
func Delay(duration float64) *dag.Operation {
	return oneQubit(NameDelay, dag.Float(duration))
}

// selfInverse lists the gates G with G*G = identity. Adjacent equal pairs of
// these cancel exactly.
var selfInverse = map[string]bool{
	NameH:    true,
	NameX:    true,
	NameY:    true,
	NameZ:    true,
	NameCX:   true,
	NameCY:   true,
	NameCZ:   true,
	NameSWAP: true,
}

// SelfInverse reports whether a gate name is its own inverse.
func SelfInverse(name string) bool { return selfInverse[name] }

// zRotationAngle returns the Z-rotation angle contributed by a diagonal
// single-qubit gate, up to global phase. The second return is false for gates
// that are not diagonal Z rotations or that carry a symbolic parameter.
func zRotationAngle(op *dag.Operation) (float64, bool) {
	switch op.Name {
	case NameZ:
		return math.Pi, true
	case NameS:
		return math.Pi / 2, true
	case NameSdg:
		return -math.Pi / 2, true
	case NameT:
		return math.Pi / 4, true
	case NameTdg:
		return -math.Pi / 4, true
	case NameRZ, NameU1:
		if len(op.Params) != 1 || op.Params[0].Symbolic() {
			return 0, false
		}
		return op.Params[0].Value, true
	}
	return 0, false
}

// ZRotationAngle returns the Z-rotation angle of a diagonal single-qubit gate
// (z, s, sdg, t, tdg, rz, u1) and whether the gate is one.
func ZRotationAngle(op *dag.Operation) (float64, bool) {
	return zRotationAngle(op)
}
