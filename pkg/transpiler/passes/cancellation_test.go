package passes

import (
	"context"
	"math"
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	"github.com/qompile/qompile/pkg/transpiler"
)

func cancel(t *testing.T, b *circuit.Builder) *dag.DAG {
	t.Helper()
	if err := b.Err(); err != nil {
		t.Fatalf("building circuit: %v", err)
	}
	d := b.DAG()
	ps := transpiler.NewPropertySet()
	if _, err := NewCommutationAnalysis().Run(d, ps); err != nil {
		t.Fatalf("commutation analysis: %v", err)
	}
	out, err := NewGateCancellation().Run(d, ps)
	if err != nil {
		t.Fatalf("gate cancellation: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate after cancellation: %v", err)
	}
	return out
}

func TestCancelHPair(t *testing.T) {
	b := circuit.NewBuilder("hh", 1, 0)
	b.H(0).H(0)
	d := cancel(t, b)
	if d.Size() != 0 {
		t.Errorf("size = %d, want 0 (hh cancels)", d.Size())
	}
}

func TestCancelHTripleLeavesOne(t *testing.T) {
	b := circuit.NewBuilder("hhh", 1, 0)
	b.H(0).H(0).H(0)
	d := cancel(t, b)
	if got := d.CountOps()["h"]; got != 1 {
		t.Errorf("h count = %d, want 1", got)
	}
}

func TestCancelBlockedByNonCommuting(t *testing.T) {
	// h x h: x does not commute with h, so nothing cancels.
	b := circuit.NewBuilder("hxh", 1, 0)
	b.H(0).X(0).H(0)
	d := cancel(t, b)
	if d.Size() != 3 {
		t.Errorf("size = %d, want 3 (x blocks the pair)", d.Size())
	}
}

func TestCancelAcrossCommutingGate(t *testing.T) {
	// z z with a commuting z between group members: all three in one group,
	// pair of z cancels... all three are the same name, so 3 -> 1.
	b := circuit.NewBuilder("zzz", 1, 0)
	b.Z(0).Z(0).Z(0)
	d := cancel(t, b)
	if got := d.CountOps()["z"]; got != 1 {
		t.Errorf("z count = %d, want 1", got)
	}
}

func TestCancelCXPair(t *testing.T) {
	b := circuit.NewBuilder("cxcx", 2, 0)
	b.CX(0, 1).CX(0, 1)
	d := cancel(t, b)
	if d.Size() != 0 {
		t.Errorf("size = %d, want 0 (cx pair cancels)", d.Size())
	}
}

func TestCancelCXDifferentQubitsKept(t *testing.T) {
	b := circuit.NewBuilder("cx2", 3, 0)
	b.CX(0, 1).CX(0, 2)
	d := cancel(t, b)
	if d.Size() != 2 {
		t.Errorf("size = %d, want 2 (different targets do not pair)", d.Size())
	}
}

func TestFuseU1Run(t *testing.T) {
	b := circuit.NewBuilder("u1s", 1, 0)
	b.U1(0.1, 0).U1(0.2, 0).U1(0.3, 0)
	d := cancel(t, b)

	ops := d.TopologicalOpNodes()
	if len(ops) != 1 || ops[0].Op().Name != "u1" {
		t.Fatalf("ops = %v, want a single u1", d.CountOps())
	}
	got := ops[0].Op().Params[0].Value
	if math.Abs(got-0.6) > 1e-12 {
		t.Errorf("fused angle = %v, want 0.6", got)
	}
}

func TestFuseU1AndRZ(t *testing.T) {
	b := circuit.NewBuilder("mix", 1, 0)
	b.U1(1.0, 0).RZ(0.5, 0)
	d := cancel(t, b)

	ops := d.TopologicalOpNodes()
	if len(ops) != 1 || ops[0].Op().Name != "u1" {
		t.Fatalf("ops = %v, want a single u1", d.CountOps())
	}
	got := ops[0].Op().Params[0].Value
	if math.Abs(got-1.5) > 1e-12 {
		t.Errorf("fused angle = %v, want 1.5 (no modulo reduction)", got)
	}
}

func TestFuseU1NoModulo(t *testing.T) {
	b := circuit.NewBuilder("big", 1, 0)
	b.U1(4.0, 0).U1(4.0, 0)
	d := cancel(t, b)

	ops := d.TopologicalOpNodes()
	if len(ops) != 1 {
		t.Fatalf("ops = %d, want 1", len(ops))
	}
	got := ops[0].Op().Params[0].Value
	if math.Abs(got-8.0) > 1e-12 {
		t.Errorf("fused angle = %v, want 8.0 (plain sum, no mod 2π)", got)
	}
}

func TestSingleU1Untouched(t *testing.T) {
	b := circuit.NewBuilder("one", 1, 0)
	b.U1(0.7, 0)
	d := cancel(t, b)
	if got := d.CountOps()["u1"]; got != 1 {
		t.Errorf("u1 count = %d, want 1", got)
	}
	if got := d.TopologicalOpNodes()[0].Op().Params[0].Value; got != 0.7 {
		t.Errorf("angle = %v, want 0.7 unchanged", got)
	}
}

func TestCancellationFixedPointLoop(t *testing.T) {
	// h h z z: everything cancels within two loop iterations; the
	// fixed-point controller stops the loop without hitting the cap.
	b := circuit.NewBuilder("loop", 1, 0)
	b.H(0).H(0).Z(0).Z(0)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	pm := transpiler.NewPassManager(transpiler.WithMaxIteration(10))
	pm.Append(
		[]transpiler.Pass{NewGateCancellation(), NewDAGFixedPoint()},
		transpiler.Until(KeyDAGFixedPoint),
	)
	out, err := pm.Run(context.Background(), b.DAG())
	if err != nil {
		t.Fatalf("Run = %v", err)
	}
	if out.Size() != 0 {
		t.Errorf("size = %d, want 0", out.Size())
	}
}
