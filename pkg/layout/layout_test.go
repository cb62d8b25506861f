package layout

import (
	"testing"

	"github.com/qompile/qompile/pkg/dag"
)

func TestGenerateTrivial(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 3)
	l := GenerateTrivial(qr.Bits())

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	for i := 0; i < 3; i++ {
		p, ok := l.Physical(qr.Bit(i))
		if !ok || p != i {
			t.Errorf("Physical(q[%d]) = %d, %v; want %d, true", i, p, ok, i)
		}
		v, ok := l.Virtual(i)
		if !ok || v != qr.Bit(i) {
			t.Errorf("Virtual(%d) = %v, %v; want q[%d], true", i, v, ok, i)
		}
	}
}

func TestSetEvictsConflicts(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 3)
	l := New()
	l.Set(qr.Bit(0), 0)
	l.Set(qr.Bit(1), 1)

	// Remap q[0] onto physical 1: both the old q[0]->0 pair and the old
	// q[1]->1 pair must go.
	l.Set(qr.Bit(0), 1)

	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if p, ok := l.Physical(qr.Bit(0)); !ok || p != 1 {
		t.Errorf("Physical(q[0]) = %d, %v; want 1, true", p, ok)
	}
	if _, ok := l.Physical(qr.Bit(1)); ok {
		t.Error("q[1] should have been evicted")
	}
	if _, ok := l.Virtual(0); ok {
		t.Error("physical 0 should have been evicted")
	}
}

func TestSwapPhysical(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 2)
	l := GenerateTrivial(qr.Bits())

	if err := l.SwapPhysical(0, 1); err != nil {
		t.Fatalf("SwapPhysical = %v", err)
	}

	if p, _ := l.Physical(qr.Bit(0)); p != 1 {
		t.Errorf("Physical(q[0]) = %d, want 1", p)
	}
	if p, _ := l.Physical(qr.Bit(1)); p != 0 {
		t.Errorf("Physical(q[1]) = %d, want 0", p)
	}
	if v, _ := l.Virtual(0); v != qr.Bit(1) {
		t.Errorf("Virtual(0) = %v, want q[1]", v)
	}

	// Swapping back restores the identity.
	if err := l.SwapPhysical(1, 0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if p, _ := l.Physical(qr.Bit(i)); p != i {
			t.Errorf("after double swap, Physical(q[%d]) = %d, want %d", i, p, i)
		}
	}
}

func TestSwapPhysicalUnmapped(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 1)
	l := GenerateTrivial(qr.Bits())
	if err := l.SwapPhysical(0, 7); err == nil {
		t.Error("SwapPhysical(unmapped) = nil, want error")
	}
}

func TestCopyIndependence(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 2)
	l := GenerateTrivial(qr.Bits())
	cp := l.Copy()

	cp.SwapPhysical(0, 1)

	if p, _ := l.Physical(qr.Bit(0)); p != 0 {
		t.Errorf("mutating the copy changed the original: Physical(q[0]) = %d", p)
	}
	if p, _ := cp.Physical(qr.Bit(0)); p != 1 {
		t.Errorf("copy Physical(q[0]) = %d, want 1", p)
	}
}

func TestDelete(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 2)
	l := GenerateTrivial(qr.Bits())
	l.Delete(qr.Bit(0))

	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if _, ok := l.Virtual(0); ok {
		t.Error("physical 0 still mapped after Delete")
	}
}

func TestVirtualsOrdering(t *testing.T) {
	qr := dag.NewQuantumRegister("q", 3)
	l := New()
	l.Set(qr.Bit(2), 0)
	l.Set(qr.Bit(0), 2)
	l.Set(qr.Bit(1), 1)

	vs := l.Virtuals()
	want := []dag.Wire{qr.Bit(2), qr.Bit(1), qr.Bit(0)}
	for i := range want {
		if vs[i] != want[i] {
			t.Fatalf("Virtuals = %v, want %v", vs, want)
		}
	}
}
