// Package layout tracks the assignment of a circuit's virtual qubits to the
// device's physical qubits. Routing permutes the assignment as it inserts
// swaps; the final layout tells callers where each virtual qubit ended up.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
)

// Layout is a two-way map between virtual qubits (circuit wires) and
// physical qubits (device indices). Both directions stay consistent under
// every mutation: each virtual qubit maps to at most one physical qubit and
// vice versa.
type Layout struct {
	vToP map[dag.Wire]int
	pToV map[int]dag.Wire
}

// New creates an empty layout.
func New() *Layout {
	return &Layout{
		vToP: make(map[dag.Wire]int),
		pToV: make(map[int]dag.Wire),
	}
}

// GenerateTrivial creates the identity layout: virtual qubit i (in the given
// order) on physical qubit i.
func GenerateTrivial(virtuals []dag.Wire) *Layout {
	l := New()
	for i, v := range virtuals {
		l.Set(v, i)
	}
	return l
}

// Len returns the number of mapped pairs.
func (l *Layout) Len() int { return len(l.vToP) }

// Physical returns the physical qubit assigned to a virtual qubit.
func (l *Layout) Physical(v dag.Wire) (int, bool) {
	p, ok := l.vToP[v]
	return p, ok
}

// Virtual returns the virtual qubit assigned to a physical qubit.
func (l *Layout) Virtual(p int) (dag.Wire, bool) {
	v, ok := l.pToV[p]
	return v, ok
}

// Set maps virtual qubit v to physical qubit p. Existing pairs involving
// either side are removed first, keeping the two directions consistent.
func (l *Layout) Set(v dag.Wire, p int) {
	if old, ok := l.vToP[v]; ok {
		delete(l.pToV, old)
	}
	if old, ok := l.pToV[p]; ok {
		delete(l.vToP, old)
	}
	l.vToP[v] = p
	l.pToV[p] = v
}

// Delete removes the pair containing virtual qubit v, if present.
func (l *Layout) Delete(v dag.Wire) {
	if p, ok := l.vToP[v]; ok {
		delete(l.pToV, p)
		delete(l.vToP, v)
	}
}

// SwapPhysical exchanges the virtual qubits sitting on two physical qubits.
// This is the layout-side effect of inserting a swap gate during routing.
// Both physical qubits must currently be mapped.
func (l *Layout) SwapPhysical(p1, p2 int) error {
	v1, ok1 := l.pToV[p1]
	v2, ok2 := l.pToV[p2]
	if !ok1 {
		return qerr.New(qerr.ErrCodeUnknownQubit, "physical qubit %d not in layout", p1)
	}
	if !ok2 {
		return qerr.New(qerr.ErrCodeUnknownQubit, "physical qubit %d not in layout", p2)
	}
	l.vToP[v1], l.vToP[v2] = p2, p1
	l.pToV[p1], l.pToV[p2] = v2, v1
	return nil
}

// Copy returns an independent copy of the layout.
func (l *Layout) Copy() *Layout {
	cp := New()
	for v, p := range l.vToP {
		cp.vToP[v] = p
		cp.pToV[p] = v
	}
	return cp
}

// Virtuals returns the mapped virtual qubits ordered by their physical
// assignment.
func (l *Layout) Virtuals() []dag.Wire {
	ps := make([]int, 0, len(l.pToV))
	for p := range l.pToV {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	out := make([]dag.Wire, len(ps))
	for i, p := range ps {
		out[i] = l.pToV[p]
	}
	return out
}

// String formats the layout as "q[0]->0, q[1]->2" ordered by physical qubit.
func (l *Layout) String() string {
	ps := make([]int, 0, len(l.pToV))
	for p := range l.pToV {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s->%d", l.pToV[p], p)
	}
	return strings.Join(parts, ", ")
}
