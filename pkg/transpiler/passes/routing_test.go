package passes

import (
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/coupling"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/layout"
	"github.com/qompile/qompile/pkg/transpiler"
)

func route(t *testing.T, b *circuit.Builder, cm *coupling.Map) (*dag.DAG, *transpiler.PropertySet) {
	t.Helper()
	if err := b.Err(); err != nil {
		t.Fatalf("building circuit: %v", err)
	}
	ps := transpiler.NewPropertySet()
	out, err := NewStochasticRouter(cm, 4, 7).Run(b.DAG(), ps)
	if err != nil {
		t.Fatalf("routing: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate after routing: %v", err)
	}
	return out, ps
}

func assertMapped(t *testing.T, d *dag.DAG, cm *coupling.Map) {
	t.Helper()
	for _, n := range d.TwoQubitOps() {
		a, b := n.Qargs()[0].Index(), n.Qargs()[1].Index()
		if !cm.Connected(a, b) {
			t.Errorf("%s on physical qubits %d and %d, which are not coupled", n.Op().Name, a, b)
		}
	}
}

func TestRouteAdjacentNeedsNoSwap(t *testing.T) {
	b := circuit.NewBuilder("adj", 2, 0)
	b.CX(0, 1)
	out, _ := route(t, b, coupling.Line(3))

	if got := out.CountOps()["swap"]; got != 0 {
		t.Errorf("swap count = %d, want 0", got)
	}
	assertMapped(t, out, coupling.Line(3))
}

func TestRouteDistantInsertsOneSwap(t *testing.T) {
	// Line 0-1-2: cx between 0 and 2 needs exactly one swap.
	b := circuit.NewBuilder("far", 3, 0)
	b.CX(0, 2)
	cm := coupling.Line(3)
	out, ps := route(t, b, cm)

	if got := out.CountOps()["swap"]; got != 1 {
		t.Errorf("swap count = %d, want 1", got)
	}
	assertMapped(t, out, cm)

	raw, ok := ps.Get(transpiler.KeyFinalLayout)
	if !ok {
		t.Fatal("final_layout not written")
	}
	final := raw.(*layout.Layout)
	if final.Len() != 3 {
		t.Errorf("final layout has %d entries, want 3", final.Len())
	}
}

func TestRouteNarrowCircuitThroughIdleQubit(t *testing.T) {
	// Star 0-2, 1-2: the circuit only uses two qubits, so the path between
	// them crosses a device qubit no virtual qubit occupies.
	cm := coupling.New(3)
	cm.AddEdge(0, 2)
	cm.AddEdge(1, 2)

	b := circuit.NewBuilder("star", 2, 0)
	b.CX(0, 1)
	out, _ := route(t, b, cm)

	if got := out.CountOps()["swap"]; got != 1 {
		t.Errorf("swap count = %d, want 1", got)
	}
	assertMapped(t, out, cm)
}

func TestRouteDeterministic(t *testing.T) {
	cm := coupling.Line(4)
	build := func() *circuit.Builder {
		b := circuit.NewBuilder("det", 4, 0)
		b.CX(0, 3).CX(1, 3).CX(0, 2)
		return b
	}

	first, _ := route(t, build(), cm)
	for i := 0; i < 3; i++ {
		again, _ := route(t, build(), cm)
		a, bnames := opSequence(first), opSequence(again)
		if len(a) != len(bnames) {
			t.Fatalf("run %d: %d ops, want %d", i, len(bnames), len(a))
		}
		for j := range a {
			if a[j] != bnames[j] {
				t.Fatalf("run %d: op %d = %s, want %s", i, j, bnames[j], a[j])
			}
		}
	}
}

func opSequence(d *dag.DAG) []string {
	var out []string
	for _, n := range d.TopologicalOpNodes() {
		s := n.Op().Name
		for _, w := range n.Qargs() {
			s += w.String()
		}
		out = append(out, s)
	}
	return out
}

func TestRouteCapacityError(t *testing.T) {
	b := circuit.NewBuilder("wide", 4, 0)
	b.CX(0, 3)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	_, err := NewStochasticRouter(coupling.Line(2), 1, 0).Run(b.DAG(), transpiler.NewPropertySet())
	if !qerr.Is(err, qerr.ErrCodeCapacity) {
		t.Errorf("err = %v, want CAPACITY_EXCEEDED", err)
	}
}

func TestRouteConnectivityError(t *testing.T) {
	cm := coupling.New(4)
	cm.AddEdge(0, 1)
	cm.AddEdge(2, 3)

	b := circuit.NewBuilder("split", 4, 0)
	b.CX(0, 3)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	_, err := NewStochasticRouter(cm, 3, 0).Run(b.DAG(), transpiler.NewPropertySet())
	if !qerr.Is(err, qerr.ErrCodeNoPath) {
		t.Errorf("err = %v, want CONNECTIVITY_NO_PATH", err)
	}
}

func TestRoutePreservesMeasurements(t *testing.T) {
	b := circuit.NewBuilder("meas", 2, 2)
	b.H(0).CX(0, 1).MeasureAll()
	out, _ := route(t, b, coupling.Line(2))

	counts := out.CountOps()
	if counts["measure"] != 2 || counts["h"] != 1 || counts["cx"] != 1 {
		t.Errorf("CountOps = %v, want all operations preserved", counts)
	}
	if out.NumClbits() != 2 {
		t.Errorf("clbits = %d, want 2 carried over", out.NumClbits())
	}
}

func TestRouteRespectsExistingLayout(t *testing.T) {
	// With q0 already on physical 2 and q1 on physical 1 (adjacent on the
	// line), no swap is needed even though a trivial layout would need one.
	b := circuit.NewBuilder("laid", 2, 0)
	b.CX(0, 1)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	l := layout.New()
	l.Set(b.Qubit(0), 2)
	l.Set(b.Qubit(1), 1)
	ps := transpiler.NewPropertySet()
	ps.Set(transpiler.KeyLayout, l)

	out, err := NewStochasticRouter(coupling.Line(3), 2, 0).Run(b.DAG(), ps)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.CountOps()["swap"]; got != 0 {
		t.Errorf("swap count = %d, want 0 under the provided layout", got)
	}
	cx := out.TwoQubitOps()[0]
	if cx.Qargs()[0].Index() != 2 || cx.Qargs()[1].Index() != 1 {
		t.Errorf("cx on physical (%d,%d), want (2,1)",
			cx.Qargs()[0].Index(), cx.Qargs()[1].Index())
	}
}
