// Package qobj serializes circuits to and from a flat JSON interchange form.
//
// The format records registers plus a topologically ordered instruction list.
// Qubit and clbit references are indices into the flattened wire lists, so the
// bytes are stable across runs and usable as cache keys.
package qobj

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
)

// =============================================================================
// Circuit Serialization API
// =============================================================================

// MarshalCircuit converts a circuit DAG to JSON bytes.
// Instructions are emitted in deterministic topological order.
func MarshalCircuit(d *dag.DAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCircuitTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCircuitFile writes a circuit DAG to a JSON file.
// The file is created with 0644 permissions.
func WriteCircuitFile(d *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeCircuitTo(d, f)
}

// WriteCircuit writes a circuit DAG as JSON to an io.Writer.
// Use MarshalCircuit for in-memory serialization or WriteCircuitFile for files.
func WriteCircuit(d *dag.DAG, w io.Writer) error {
	return writeCircuitTo(d, w)
}

// ReadCircuitFile reads a JSON file and returns the decoded circuit DAG.
// Returns structural errors for references to undeclared registers or wires.
func ReadCircuitFile(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readCircuitFrom(f)
}

// ReadCircuit decodes a JSON circuit from an io.Reader into a DAG.
// Use ReadCircuitFile for files or pass bytes.NewReader for in-memory data.
func ReadCircuit(r io.Reader) (*dag.DAG, error) {
	return readCircuitFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeCircuitTo(d *dag.DAG, w io.Writer) error {
	out := FromDAG(d)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readCircuitFrom(r io.Reader) (*dag.DAG, error) {
	var data Circuit
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, qerr.Wrap(qerr.ErrCodeMalformedParam, err, "decoding circuit JSON")
	}
	return ToDAG(data)
}

// FromDAG converts a circuit DAG to its serialized form. Registers appear in
// wire registration order and instructions in topological order with node IDs
// breaking ties, so serializing the same DAG twice yields identical output.
func FromDAG(d *dag.DAG) Circuit {
	c := Circuit{
		Name:        d.Name(),
		GlobalPhase: d.GlobalPhase(),
	}

	qindex := make(map[dag.Wire]int, d.NumQubits())
	cindex := make(map[dag.Wire]int, d.NumClbits())
	seen := make(map[*dag.Register]bool)
	for i, w := range d.Qubits() {
		qindex[w] = i
		if reg := w.Register(); !seen[reg] {
			seen[reg] = true
			c.QRegs = append(c.QRegs, Register{Name: reg.Name(), Size: reg.Size()})
		}
	}
	for i, w := range d.Clbits() {
		cindex[w] = i
		if reg := w.Register(); !seen[reg] {
			seen[reg] = true
			c.CRegs = append(c.CRegs, Register{Name: reg.Name(), Size: reg.Size()})
		}
	}

	c.Instructions = make([]Instruction, 0, d.Size())
	for _, n := range d.TopologicalOpNodes() {
		op := n.Op()
		inst := Instruction{
			Name:   op.Name,
			Qubits: make([]int, len(n.Qargs())),
		}
		for i, w := range n.Qargs() {
			inst.Qubits[i] = qindex[w]
		}
		for _, w := range n.Cargs() {
			inst.Clbits = append(inst.Clbits, cindex[w])
		}
		for _, p := range op.Params {
			inst.Params = append(inst.Params, Param{Value: p.Value, Symbol: p.Symbol})
		}
		if cond := op.Condition; cond != nil {
			inst.Condition = &Condition{
				Register: cond.Register.Name(),
				Value:    cond.Value,
			}
		}
		c.Instructions = append(c.Instructions, inst)
	}
	return c
}

// ToDAG reconstructs a circuit DAG from its serialized form.
// Instruction wire references must index into the declared registers; the
// condition register must name a declared classical register.
func ToDAG(c Circuit) (*dag.DAG, error) {
	d := dag.New(c.Name)
	d.SetGlobalPhase(c.GlobalPhase)

	cregs := make(map[string]*dag.Register, len(c.CRegs))
	for _, r := range c.QRegs {
		if r.Size <= 0 {
			return nil, qerr.New(qerr.ErrCodeMalformedParam,
				"quantum register %q has size %d", r.Name, r.Size)
		}
		if err := d.AddRegister(dag.NewQuantumRegister(r.Name, r.Size)); err != nil {
			return nil, err
		}
	}
	for _, r := range c.CRegs {
		if r.Size <= 0 {
			return nil, qerr.New(qerr.ErrCodeMalformedParam,
				"classical register %q has size %d", r.Name, r.Size)
		}
		reg := dag.NewClassicalRegister(r.Name, r.Size)
		if err := d.AddRegister(reg); err != nil {
			return nil, err
		}
		cregs[r.Name] = reg
	}
	qubits := d.Qubits()
	clbits := d.Clbits()

	for i, inst := range c.Instructions {
		op := &dag.Operation{
			Name:      inst.Name,
			NumQubits: len(inst.Qubits),
			NumClbits: len(inst.Clbits),
		}
		for _, p := range inst.Params {
			op.Params = append(op.Params, dag.Param{Value: p.Value, Symbol: p.Symbol})
		}
		if cond := inst.Condition; cond != nil {
			reg, ok := cregs[cond.Register]
			if !ok {
				return nil, qerr.New(qerr.ErrCodeUnknownRegister,
					"instruction %d: condition register %q not declared", i, cond.Register)
			}
			op.Condition = &dag.Condition{Register: reg, Value: cond.Value}
		}

		qargs := make([]dag.Wire, len(inst.Qubits))
		for j, q := range inst.Qubits {
			if q < 0 || q >= len(qubits) {
				return nil, qerr.New(qerr.ErrCodeUnknownWire,
					"instruction %d: qubit index %d out of range [0,%d)", i, q, len(qubits))
			}
			qargs[j] = qubits[q]
		}
		var cargs []dag.Wire
		for _, cl := range inst.Clbits {
			if cl < 0 || cl >= len(clbits) {
				return nil, qerr.New(qerr.ErrCodeUnknownWire,
					"instruction %d: clbit index %d out of range [0,%d)", i, cl, len(clbits))
			}
			cargs = append(cargs, clbits[cl])
		}

		if _, err := d.ApplyOperationBack(op, qargs, cargs); err != nil {
			return nil, qerr.Wrap(qerr.GetCode(err), err, "instruction %d (%s)", i, inst.Name)
		}
	}
	return d, nil
}
