package passes

import (
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/transpiler"
)

func testDurations() *transpiler.InstructionDurations {
	tbl := transpiler.NewInstructionDurations("dt")
	tbl.Set("h", 10)
	tbl.Set("x", 10)
	tbl.Set("cx", 100)
	tbl.Set("measure", 300)
	return tbl
}

func schedule(t *testing.T, b *circuit.Builder, tbl *transpiler.InstructionDurations) (*dag.DAG, map[int]float64, float64) {
	t.Helper()
	if err := b.Err(); err != nil {
		t.Fatalf("building circuit: %v", err)
	}
	ps := transpiler.NewPropertySet()
	out, err := NewASAPSchedule(tbl).Run(b.DAG(), ps)
	if err != nil {
		t.Fatalf("scheduling: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate after scheduling: %v", err)
	}
	raw, _ := ps.Get(transpiler.KeySchedule)
	return out, raw.(map[int]float64), ps.Float(transpiler.KeyDuration)
}

func startOf(t *testing.T, d *dag.DAG, sched map[int]float64, name string) float64 {
	t.Helper()
	ops := d.OpNodes(name)
	if len(ops) != 1 {
		t.Fatalf("found %d %s ops, want 1", len(ops), name)
	}
	return sched[ops[0].ID()]
}

func TestScheduleIndependentOpsStartTogether(t *testing.T) {
	b := circuit.NewBuilder("par", 2, 0)
	b.H(0).X(1)
	d, sched, total := schedule(t, b, testDurations())

	if got := startOf(t, d, sched, "h"); got != 0 {
		t.Errorf("h start = %v, want 0", got)
	}
	if got := startOf(t, d, sched, "x"); got != 0 {
		t.Errorf("x start = %v, want 0", got)
	}
	if total != 10 {
		t.Errorf("total = %v, want 10", total)
	}
}

func TestScheduleDependentOpWaits(t *testing.T) {
	// q1 runs a slow measure (300); the cx joining q0 and q1 must wait for
	// it even though q0 is free after its h (10).
	b := circuit.NewBuilder("dep", 2, 2)
	b.H(0).Measure(1, 1).CX(0, 1)
	d, sched, _ := schedule(t, b, testDurations())

	if got := startOf(t, d, sched, "cx"); got != 300 {
		t.Errorf("cx start = %v, want 300 (max over operand availability)", got)
	}
}

func TestScheduleInsertsPaddingDelay(t *testing.T) {
	b := circuit.NewBuilder("pad", 2, 2)
	b.H(0).Measure(1, 1).CX(0, 1)
	d, sched, _ := schedule(t, b, testDurations())

	// q0 idles from 10 to 300 before the cx: one delay of 290.
	delays := d.OpNodes("delay")
	found := false
	for _, n := range delays {
		if n.Qargs()[0] == b.Qubit(0) && sched[n.ID()] == 10 {
			if dur := n.Op().Params[0].Value; dur != 290 {
				t.Errorf("padding delay duration = %v, want 290", dur)
			}
			found = true
		}
	}
	if !found {
		t.Errorf("no padding delay on q[0] at t=10; delays: %d", len(delays))
	}
}

func TestScheduleEqualizesTimelines(t *testing.T) {
	b := circuit.NewBuilder("eq", 2, 0)
	b.H(0).CX(0, 1).H(0)
	d, _, total := schedule(t, b, testDurations())

	// q0 ends at 10+100+10=120, q1 at 110: q1 gets a trailing delay of 10.
	if total != 120 {
		t.Fatalf("total = %v, want 120", total)
	}
	trailing := false
	for _, n := range d.OpNodes("delay") {
		if n.Qargs()[0] == b.Qubit(1) && n.Op().Params[0].Value == 10 {
			trailing = true
		}
	}
	if !trailing {
		t.Error("q[1] missing its trailing equalization delay")
	}
}

func TestScheduleMissingDurationFatal(t *testing.T) {
	b := circuit.NewBuilder("miss", 1, 0)
	b.T(0)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	_, err := NewASAPSchedule(testDurations()).Run(b.DAG(), transpiler.NewPropertySet())
	if !qerr.Is(err, qerr.ErrCodeMissingDuration) {
		t.Errorf("err = %v, want DATA_MISSING_DURATION", err)
	}
}

func TestScheduleBarrierTakesNoTime(t *testing.T) {
	b := circuit.NewBuilder("bar", 2, 0)
	b.H(0).Barrier().X(1)
	d, sched, _ := schedule(t, b, testDurations())

	// The barrier starts when the slowest operand is free (10) and the x
	// follows immediately.
	if got := startOf(t, d, sched, "barrier"); got != 10 {
		t.Errorf("barrier start = %v, want 10", got)
	}
	if got := startOf(t, d, sched, "x"); got != 10 {
		t.Errorf("x start = %v, want 10 (barrier adds no time)", got)
	}
}
