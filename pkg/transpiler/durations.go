package transpiler

import (
	"fmt"
	"strings"

	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
)

// InstructionDurations maps (operation name, physical qubits) to a duration
// in the table's time unit. A name-level default covers all qubit tuples;
// qubit-specific entries override it. Lookup is strict: scheduling an
// operation with no entry is a DATA_MISSING_DURATION error, never a silent
// zero.
//
// Barriers always take zero time and delays carry their duration as a
// parameter; neither needs a table entry.
type InstructionDurations struct {
	unit      string
	defaults  map[string]float64
	overrides map[string]float64 // key: name + "@" + qubit tuple
}

// NewInstructionDurations creates an empty table with the given time unit
// (for example "dt" or "ns").
func NewInstructionDurations(unit string) *InstructionDurations {
	return &InstructionDurations{
		unit:      unit,
		defaults:  make(map[string]float64),
		overrides: make(map[string]float64),
	}
}

// Unit returns the table's time unit.
func (t *InstructionDurations) Unit() string { return t.unit }

// Set records the default duration for an operation name.
func (t *InstructionDurations) Set(name string, duration float64) {
	t.defaults[name] = duration
}

// SetOnQubits records a duration for an operation name on a specific qubit
// tuple, overriding the name-level default.
func (t *InstructionDurations) SetOnQubits(name string, qubits []int, duration float64) {
	t.overrides[qubitKey(name, qubits)] = duration
}

func qubitKey(name string, qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprint(q)
	}
	return name + "@" + strings.Join(parts, ",")
}

// Get returns the duration of an operation on the given physical qubits.
// Returns a DATA_MISSING_DURATION error when neither a qubit-specific entry
// nor a name-level default exists.
func (t *InstructionDurations) Get(name string, qubits []int) (float64, error) {
	if name == "barrier" {
		return 0, nil
	}
	if d, ok := t.overrides[qubitKey(name, qubits)]; ok {
		return d, nil
	}
	if d, ok := t.defaults[name]; ok {
		return d, nil
	}
	return 0, qerr.New(qerr.ErrCodeMissingDuration,
		"no duration for %q on qubits %v", name, qubits)
}

// GetOp returns the duration of an applied operation node's instruction.
// Delay operations read their duration from the first parameter.
func (t *InstructionDurations) GetOp(op *dag.Operation, qubits []int) (float64, error) {
	if op.Name == "delay" {
		if len(op.Params) != 1 || op.Params[0].Symbolic() {
			return 0, qerr.New(qerr.ErrCodeMalformedParam, "delay needs one bound duration parameter")
		}
		return op.Params[0].Value, nil
	}
	return t.Get(op.Name, qubits)
}
