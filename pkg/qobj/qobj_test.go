package qobj

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
)

func bellCircuit(t *testing.T) *dag.DAG {
	t.Helper()
	b := circuit.NewBuilder("bell", 2, 2)
	b.H(0).CX(0, 1).MeasureAll()
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	return b.DAG()
}

func TestRoundTrip(t *testing.T) {
	d := bellCircuit(t)
	d.SetGlobalPhase(math.Pi / 4)

	data, err := MarshalCircuit(d)
	if err != nil {
		t.Fatalf("MarshalCircuit = %v", err)
	}
	back, err := ReadCircuit(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCircuit = %v", err)
	}

	if back.Name() != "bell" {
		t.Errorf("name = %q, want bell", back.Name())
	}
	if got := back.GlobalPhase(); math.Abs(got-math.Pi/4) > 1e-12 {
		t.Errorf("global phase = %v, want π/4", got)
	}
	if back.NumQubits() != 2 || back.NumClbits() != 2 {
		t.Errorf("width = %d+%d, want 2+2", back.NumQubits(), back.NumClbits())
	}

	want := d.CountOps()
	got := back.CountOps()
	for name, n := range want {
		if got[name] != n {
			t.Errorf("op %s: count = %d, want %d", name, got[name], n)
		}
	}
	if err := back.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestRoundTripPreservesOrder(t *testing.T) {
	d := bellCircuit(t)
	back, err := ToDAG(FromDAG(d))
	if err != nil {
		t.Fatal(err)
	}
	orig := d.TopologicalOpNodes()
	decoded := back.TopologicalOpNodes()
	if len(orig) != len(decoded) {
		t.Fatalf("op count = %d, want %d", len(decoded), len(orig))
	}
	for i := range orig {
		if orig[i].Op().Name != decoded[i].Op().Name {
			t.Errorf("op %d = %s, want %s", i, decoded[i].Op().Name, orig[i].Op().Name)
		}
	}
}

func TestRoundTripCondition(t *testing.T) {
	d := dag.New("cond")
	qr := dag.NewQuantumRegister("q", 1)
	cr := dag.NewClassicalRegister("c", 2)
	if err := d.AddRegister(qr); err != nil {
		t.Fatal(err)
	}
	if err := d.AddRegister(cr); err != nil {
		t.Fatal(err)
	}
	op := circuit.X()
	op.Condition = &dag.Condition{Register: cr, Value: 3}
	if _, err := d.ApplyOperationBack(op, []dag.Wire{qr.Bit(0)}, nil); err != nil {
		t.Fatal(err)
	}

	back, err := ToDAG(FromDAG(d))
	if err != nil {
		t.Fatal(err)
	}
	nodes := back.TopologicalOpNodes()
	if len(nodes) != 1 {
		t.Fatalf("op count = %d, want 1", len(nodes))
	}
	cond := nodes[0].Op().Condition
	if cond == nil {
		t.Fatal("condition dropped in round trip")
	}
	if cond.Register.Name() != "c" || cond.Value != 3 {
		t.Errorf("condition = %s, want c==3", cond)
	}
}

func TestRoundTripSymbolicParam(t *testing.T) {
	d := dag.New("sym")
	qr := dag.NewQuantumRegister("q", 1)
	if err := d.AddRegister(qr); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ApplyOperationBack(circuit.RZ(dag.Symbol("theta")),
		[]dag.Wire{qr.Bit(0)}, nil); err != nil {
		t.Fatal(err)
	}

	back, err := ToDAG(FromDAG(d))
	if err != nil {
		t.Fatal(err)
	}
	p := back.TopologicalOpNodes()[0].Op().Params[0]
	if !p.Symbolic() || p.Symbol != "theta" {
		t.Errorf("param = %v, want symbolic theta", p)
	}
}

func TestDeterministicBytes(t *testing.T) {
	d := bellCircuit(t)
	first, err := MarshalCircuit(d)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := MarshalCircuit(d)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different bytes", i)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.json")
	d := bellCircuit(t)
	if err := WriteCircuitFile(d, path); err != nil {
		t.Fatalf("WriteCircuitFile = %v", err)
	}
	back, err := ReadCircuitFile(path)
	if err != nil {
		t.Fatalf("ReadCircuitFile = %v", err)
	}
	if back.Size() != d.Size() {
		t.Errorf("size = %d, want %d", back.Size(), d.Size())
	}
}

func TestReadMalformedJSON(t *testing.T) {
	_, err := ReadCircuit(strings.NewReader("{not json"))
	if !qerr.Is(err, qerr.ErrCodeMalformedParam) {
		t.Errorf("err = %v, want DATA_MALFORMED_PARAM", err)
	}
}

func TestToDAGErrors(t *testing.T) {
	tests := []struct {
		name string
		c    Circuit
		code qerr.Code
	}{
		{
			name: "qubit index out of range",
			c: Circuit{
				Name:  "bad",
				QRegs: []Register{{Name: "q", Size: 1}},
				Instructions: []Instruction{
					{Name: "h", Qubits: []int{5}},
				},
			},
			code: qerr.ErrCodeUnknownWire,
		},
		{
			name: "condition register undeclared",
			c: Circuit{
				Name:  "bad",
				QRegs: []Register{{Name: "q", Size: 1}},
				Instructions: []Instruction{
					{Name: "x", Qubits: []int{0}, Condition: &Condition{Register: "ghost", Value: 1}},
				},
			},
			code: qerr.ErrCodeUnknownRegister,
		},
		{
			name: "register with zero size",
			c: Circuit{
				Name:  "bad",
				QRegs: []Register{{Name: "q", Size: 0}},
			},
			code: qerr.ErrCodeMalformedParam,
		},
		{
			name: "duplicate qubit arguments",
			c: Circuit{
				Name:  "bad",
				QRegs: []Register{{Name: "q", Size: 2}},
				Instructions: []Instruction{
					{Name: "cx", Qubits: []int{0, 0}},
				},
			},
			code: qerr.ErrCodeDuplicateArgs,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToDAG(tt.c)
			if !qerr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
