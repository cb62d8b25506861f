package transpiler

import (
	"testing"

	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
)

func TestDurationsLookup(t *testing.T) {
	tbl := NewInstructionDurations("dt")
	tbl.Set("cx", 800)
	tbl.Set("h", 160)
	tbl.SetOnQubits("cx", []int{1, 2}, 960)

	tests := []struct {
		name   string
		qubits []int
		want   float64
	}{
		{"h", []int{0}, 160},
		{"cx", []int{0, 1}, 800},
		{"cx", []int{1, 2}, 960}, // qubit-specific override
		{"barrier", []int{0, 1, 2}, 0},
	}
	for _, tt := range tests {
		got, err := tbl.Get(tt.name, tt.qubits)
		if err != nil {
			t.Fatalf("Get(%s, %v) = %v", tt.name, tt.qubits, err)
		}
		if got != tt.want {
			t.Errorf("Get(%s, %v) = %v, want %v", tt.name, tt.qubits, got, tt.want)
		}
	}
}

func TestDurationsStrictMiss(t *testing.T) {
	tbl := NewInstructionDurations("dt")
	if _, err := tbl.Get("cx", []int{0, 1}); !qerr.Is(err, qerr.ErrCodeMissingDuration) {
		t.Errorf("Get(missing) = %v, want DATA_MISSING_DURATION", err)
	}
}

func TestDurationsDelay(t *testing.T) {
	tbl := NewInstructionDurations("dt")

	op := &dag.Operation{Name: "delay", NumQubits: 1, Params: []dag.Param{dag.Float(120)}}
	got, err := tbl.GetOp(op, []int{0})
	if err != nil {
		t.Fatalf("GetOp(delay) = %v", err)
	}
	if got != 120 {
		t.Errorf("GetOp(delay) = %v, want 120", got)
	}

	bad := &dag.Operation{Name: "delay", NumQubits: 1, Params: []dag.Param{dag.Symbol("d")}}
	if _, err := tbl.GetOp(bad, []int{0}); !qerr.Is(err, qerr.ErrCodeMalformedParam) {
		t.Errorf("GetOp(symbolic delay) = %v, want DATA_MALFORMED_PARAM", err)
	}
}

func TestDurationsUnit(t *testing.T) {
	if u := NewInstructionDurations("ns").Unit(); u != "ns" {
		t.Errorf("Unit = %q, want ns", u)
	}
}
