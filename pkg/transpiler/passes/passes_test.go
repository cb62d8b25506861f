package passes

import (
	"context"
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/coupling"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/layout"
	"github.com/qompile/qompile/pkg/transpiler"
)

func TestTrivialLayout(t *testing.T) {
	b := circuit.NewBuilder("triv", 3, 0)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	ps := transpiler.NewPropertySet()
	if _, err := NewTrivialLayout(coupling.Line(3)).Run(b.DAG(), ps); err != nil {
		t.Fatal(err)
	}
	raw, ok := ps.Get(transpiler.KeyLayout)
	if !ok {
		t.Fatal("layout not written")
	}
	l := raw.(*layout.Layout)
	for i := 0; i < 3; i++ {
		if p, _ := l.Physical(b.Qubit(i)); p != i {
			t.Errorf("Physical(q[%d]) = %d, want %d", i, p, i)
		}
	}
}

func TestTrivialLayoutCapacity(t *testing.T) {
	b := circuit.NewBuilder("wide", 3, 0)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	_, err := NewTrivialLayout(coupling.Line(2)).Run(b.DAG(), transpiler.NewPropertySet())
	if !qerr.Is(err, qerr.ErrCodeCapacity) {
		t.Errorf("err = %v, want CAPACITY_EXCEEDED", err)
	}
}

func TestCheckMap(t *testing.T) {
	cm := coupling.Line(3)

	adj := circuit.NewBuilder("adj", 2, 0)
	adj.CX(0, 1)
	ps := transpiler.NewPropertySet()
	if _, err := NewCheckMap(cm).Run(adj.DAG(), ps); err != nil {
		t.Fatal(err)
	}
	if !ps.Bool(transpiler.KeyIsSwapMapped) {
		t.Error("is_swap_mapped = false for adjacent cx, want true")
	}

	far := circuit.NewBuilder("far", 3, 0)
	far.CX(0, 2)
	ps2 := transpiler.NewPropertySet()
	if _, err := NewCheckMap(cm).Run(far.DAG(), ps2); err != nil {
		t.Fatal(err)
	}
	if ps2.Bool(transpiler.KeyIsSwapMapped) {
		t.Error("is_swap_mapped = true for distant cx, want false")
	}
}

func TestFixedPointTracksProperty(t *testing.T) {
	ps := transpiler.NewPropertySet()
	fp := NewFixedPoint("size")
	d := dag.New("empty")

	ps.Set("size", 5)
	fp.Run(d, ps)
	if ps.Bool("size_fixed_point") {
		t.Error("fixed point true on first observation")
	}

	ps.Set("size", 4)
	fp.Run(d, ps)
	if ps.Bool("size_fixed_point") {
		t.Error("fixed point true while still changing")
	}

	fp.Run(d, ps)
	if !ps.Bool("size_fixed_point") {
		t.Error("fixed point false after value stabilized")
	}
}

func TestBarrierBeforeFinalMeasurements(t *testing.T) {
	b := circuit.NewBuilder("readout", 2, 2)
	b.H(0).CX(0, 1).MeasureAll()
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	d, err := NewBarrierBeforeFinalMeasurements().Run(b.DAG(), transpiler.NewPropertySet())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate = %v", err)
	}

	if got := d.CountOps()["barrier"]; got != 1 {
		t.Fatalf("barrier count = %d, want 1", got)
	}
	// The barrier must precede both measurements on every shared wire.
	barrier := d.OpNodes("barrier")[0]
	for _, m := range d.OpNodes("measure") {
		w := m.Qargs()[0]
		pred, ok := d.PredecessorOnWire(m.ID(), w)
		if !ok || pred.ID() != barrier.ID() {
			t.Errorf("measure on %s not directly preceded by the barrier", w)
		}
	}
}

func TestBarrierSkipsMidCircuitMeasure(t *testing.T) {
	// A measurement followed by a gate is not final: no barrier inserted
	// for it.
	b := circuit.NewBuilder("mid", 1, 1)
	b.Measure(0, 0).X(0)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	d, err := NewBarrierBeforeFinalMeasurements().Run(b.DAG(), transpiler.NewPropertySet())
	if err != nil {
		t.Fatal(err)
	}
	if got := d.CountOps()["barrier"]; got != 0 {
		t.Errorf("barrier count = %d, want 0", got)
	}
}

func TestDecomposeSwap(t *testing.T) {
	d := dag.New("sw")
	qr := dag.NewQuantumRegister("q", 2)
	if err := d.AddRegister(qr); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ApplyOperationBack(circuit.SWAPWithDefinition(),
		[]dag.Wire{qr.Bit(0), qr.Bit(1)}, nil); err != nil {
		t.Fatal(err)
	}

	out, err := NewDecompose(circuit.NameSWAP).Run(d, transpiler.NewPropertySet())
	if err != nil {
		t.Fatal(err)
	}
	counts := out.CountOps()
	if counts["swap"] != 0 || counts["cx"] != 3 {
		t.Errorf("CountOps = %v, want swap:0 cx:3", counts)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestDecomposeWithoutDefinitionKept(t *testing.T) {
	b := circuit.NewBuilder("plain", 2, 0)
	b.SWAP(0, 1)
	d, err := NewDecompose(circuit.NameSWAP).Run(b.DAG(), transpiler.NewPropertySet())
	if err != nil {
		t.Fatal(err)
	}
	if got := d.CountOps()["swap"]; got != 1 {
		t.Errorf("swap count = %d, want 1 (no definition, left alone)", got)
	}
}

func TestGateDirectionFlips(t *testing.T) {
	// Only 1->0 exists; a cx 0->1 must be flipped and conjugated.
	cm := coupling.New(2)
	cm.AddEdge(1, 0)

	b := circuit.NewBuilder("flip", 2, 0)
	b.CX(0, 1)
	d, err := NewGateDirection(cm).Run(b.DAG(), transpiler.NewPropertySet())
	if err != nil {
		t.Fatal(err)
	}

	counts := d.CountOps()
	if counts["cx"] != 1 || counts["h"] != 4 {
		t.Fatalf("CountOps = %v, want cx:1 h:4", counts)
	}
	cx := d.OpNodes("cx")[0]
	if cx.Qargs()[0].Index() != 1 || cx.Qargs()[1].Index() != 0 {
		t.Errorf("cx on (%d,%d), want flipped to (1,0)",
			cx.Qargs()[0].Index(), cx.Qargs()[1].Index())
	}
}

func TestGateDirectionCorrectKept(t *testing.T) {
	cm := coupling.New(2)
	cm.AddEdge(0, 1)

	b := circuit.NewBuilder("ok", 2, 0)
	b.CX(0, 1)
	d, err := NewGateDirection(cm).Run(b.DAG(), transpiler.NewPropertySet())
	if err != nil {
		t.Fatal(err)
	}
	if got := d.CountOps()["h"]; got != 0 {
		t.Errorf("h count = %d, want 0 (edge direction already correct)", got)
	}
}

func TestGateDirectionUncoupled(t *testing.T) {
	b := circuit.NewBuilder("bad", 3, 0)
	b.CX(0, 2)
	_, err := NewGateDirection(coupling.Line(3)).Run(b.DAG(), transpiler.NewPropertySet())
	if !qerr.Is(err, qerr.ErrCodeNoPath) {
		t.Errorf("err = %v, want CONNECTIVITY_NO_PATH", err)
	}
}

func TestEndToEndPipeline(t *testing.T) {
	// 3-qubit circuit on a 0-1-2 line: h q0, cx q0 q2, measure all. After
	// routing the cx operands are adjacent, exactly one swap was inserted,
	// and the op count is 2 gates + 1 swap + 3 measures.
	cm := coupling.Line(3)
	b := circuit.NewBuilder("e2e", 3, 3)
	b.H(0).CX(0, 2).MeasureAll()
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	pm := transpiler.NewPassManager()
	pm.Append([]transpiler.Pass{
		NewTrivialLayout(cm),
		NewStochasticRouter(cm, 4, 11),
		NewCheckMap(cm),
	})

	out, err := pm.Run(context.Background(), b.DAG())
	if err != nil {
		t.Fatalf("Run = %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate = %v", err)
	}

	counts := out.CountOps()
	if counts["swap"] != 1 {
		t.Errorf("swap count = %d, want 1", counts["swap"])
	}
	if out.Size() != 6 {
		t.Errorf("op count = %d, want 6 (h + cx + swap + 3 measures)", out.Size())
	}
	for _, n := range out.TwoQubitOps() {
		a, bq := n.Qargs()[0].Index(), n.Qargs()[1].Index()
		if !cm.Connected(a, bq) {
			t.Errorf("%s on (%d,%d) not coupled", n.Op().Name, a, bq)
		}
	}
	if !pm.PropertySet().Bool(transpiler.KeyIsSwapMapped) {
		t.Error("is_swap_mapped = false after routing")
	}
}
