package passes

import (
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/transpiler"
)

func analyze(t *testing.T, b *circuit.Builder) (*CommutationSet, *transpiler.PropertySet) {
	t.Helper()
	if err := b.Err(); err != nil {
		t.Fatalf("building circuit: %v", err)
	}
	ps := transpiler.NewPropertySet()
	if _, err := NewCommutationAnalysis().Run(b.DAG(), ps); err != nil {
		t.Fatalf("commutation analysis: %v", err)
	}
	raw, _ := ps.Get(transpiler.KeyCommutationSet)
	return raw.(*CommutationSet), ps
}

func TestCommutationGroupsSameGate(t *testing.T) {
	b := circuit.NewBuilder("hh", 1, 0)
	b.H(0).H(0)
	cs, _ := analyze(t, b)

	groups := cs.Groups(b.Qubit(0))
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1 (a gate commutes with itself)", len(groups))
	}
	if len(groups[0]) != 2 {
		t.Errorf("group size = %d, want 2", len(groups[0]))
	}
}

func TestCommutationGroupsNonCommuting(t *testing.T) {
	b := circuit.NewBuilder("hx", 1, 0)
	b.H(0).X(0)
	cs, _ := analyze(t, b)

	groups := cs.Groups(b.Qubit(0))
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2 (h and x do not commute)", len(groups))
	}
}

func TestCommutationZWithCXControl(t *testing.T) {
	// Z on the control commutes with CX; X on the control does not.
	b := circuit.NewBuilder("zcx", 2, 0)
	b.Z(0).CX(0, 1)
	cs, _ := analyze(t, b)
	if got := len(cs.Groups(b.Qubit(0))); got != 1 {
		t.Errorf("z/cx groups on control = %d, want 1", got)
	}

	b2 := circuit.NewBuilder("xcx", 2, 0)
	b2.X(0).CX(0, 1)
	cs2, _ := analyze(t, b2)
	if got := len(cs2.Groups(b2.Qubit(0))); got != 2 {
		t.Errorf("x/cx groups on control = %d, want 2", got)
	}
}

func TestCommutationXWithCXTarget(t *testing.T) {
	// X on the target commutes with CX.
	b := circuit.NewBuilder("xcxt", 2, 0)
	b.X(1).CX(0, 1)
	cs, _ := analyze(t, b)
	if got := len(cs.Groups(b.Qubit(1))); got != 1 {
		t.Errorf("x/cx groups on target = %d, want 1", got)
	}
}

func TestCommutationSharedCXControls(t *testing.T) {
	// Two CX sharing a control commute; sharing control against target
	// does not.
	b := circuit.NewBuilder("cxcx", 3, 0)
	b.CX(0, 1).CX(0, 2)
	cs, _ := analyze(t, b)
	if got := len(cs.Groups(b.Qubit(0))); got != 1 {
		t.Errorf("shared-control cx groups = %d, want 1", got)
	}

	b2 := circuit.NewBuilder("cxchain", 3, 0)
	b2.CX(0, 1).CX(1, 2)
	cs2, _ := analyze(t, b2)
	if got := len(cs2.Groups(b2.Qubit(1))); got != 2 {
		t.Errorf("chained cx groups on shared qubit = %d, want 2", got)
	}
}

func TestCommutationUnknownGateBlocks(t *testing.T) {
	// Measure has no unitary: it must start its own group even between
	// commuting gates.
	b := circuit.NewBuilder("zz", 1, 1)
	b.Z(0).Measure(0, 0).Z(0)
	cs, _ := analyze(t, b)
	if got := len(cs.Groups(b.Qubit(0))); got != 3 {
		t.Errorf("groups = %d, want 3 (measure blocks)", got)
	}
}

func TestCommutationMeasuresSharingClbit(t *testing.T) {
	// Two measures into the same clbit act on disjoint qubits, but reordering
	// them changes which result the bit holds.
	b := circuit.NewBuilder("mm", 2, 1)
	b.Measure(0, 0).Measure(1, 0)
	cs, _ := analyze(t, b)
	if got := len(cs.Groups(b.Clbit(0))); got != 2 {
		t.Errorf("groups on clbit = %d, want 2 (measures never commute)", got)
	}
}

func TestCommutationGroupIndex(t *testing.T) {
	b := circuit.NewBuilder("hx", 1, 0)
	b.H(0).X(0)
	cs, _ := analyze(t, b)

	ops := b.DAG().TopologicalOpNodes()
	idx0, ok0 := cs.GroupIndex(ops[0].ID(), b.Qubit(0))
	idx1, ok1 := cs.GroupIndex(ops[1].ID(), b.Qubit(0))
	if !ok0 || !ok1 || idx0 != 0 || idx1 != 1 {
		t.Errorf("GroupIndex = (%d,%v), (%d,%v); want (0,true), (1,true)", idx0, ok0, idx1, ok1)
	}
}
