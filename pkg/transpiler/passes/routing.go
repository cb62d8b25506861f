package passes

import (
	"math/rand"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/coupling"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/layout"
	"github.com/qompile/qompile/pkg/transpiler"
)

// DefaultRoutingTrials is the number of randomized routing attempts when the
// caller does not choose.
const DefaultRoutingTrials = 20

// StochasticRouter rewrites a circuit so every two-qubit operation acts on
// coupling-adjacent physical qubits, inserting swap gates where needed.
//
// The output circuit runs over a fresh physical quantum register of the
// device's size: wire i is physical qubit i, so adjacency is checkable
// against the coupling map directly. Classical wires carry over unchanged.
// The final virtual-to-physical layout is stored under
// transpiler.KeyFinalLayout; downstream consumers need it to reinterpret
// readout bits.
//
// Routing runs several trials, each inserting swaps along shortest paths
// with trial-seeded random tie-breaking among equal-length paths, and keeps
// the best result: fewest swaps, then lowest weighted gate cost, then lowest
// trial index. Given a fixed seed the outcome is deterministic.
type StochasticRouter struct {
	transpiler.TransformationPass
	coupling *coupling.Map
	trials   int
	seed     int64
}

// NewStochasticRouter creates the pass. trials <= 0 selects
// DefaultRoutingTrials.
func NewStochasticRouter(cm *coupling.Map, trials int, seed int64) *StochasticRouter {
	if trials <= 0 {
		trials = DefaultRoutingTrials
	}
	return &StochasticRouter{coupling: cm, trials: trials, seed: seed}
}

// Name implements transpiler.Pass.
func (p *StochasticRouter) Name() string { return "stochastic_router" }

// ID implements transpiler.Pass.
func (p *StochasticRouter) ID() string {
	return transpiler.MakeID(p.Name(), p.trials, p.seed)
}

// Run implements transpiler.Pass.
func (p *StochasticRouter) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	if d.NumQubits() > p.coupling.Size() {
		return nil, qerr.New(qerr.ErrCodeCapacity,
			"circuit uses %d qubits but device has %d", d.NumQubits(), p.coupling.Size())
	}
	for _, n := range d.TopologicalOpNodes() {
		if len(n.Qargs()) > 2 && n.Op().Name != circuit.NameBarrier {
			return nil, qerr.New(qerr.ErrCodeInvalidParameter,
				"cannot route %d-qubit operation %q; decompose first", len(n.Qargs()), n.Op().Name)
		}
	}

	initial := p.initialLayout(d, ps)

	// Fail before any trial when the device cannot host the circuit at all.
	if err := p.checkReachability(d, initial); err != nil {
		return nil, err
	}

	type result struct {
		d      *dag.DAG
		final  *layout.Layout
		swaps  int
		cost   int
	}
	var best *result
	for trial := 0; trial < p.trials; trial++ {
		rng := rand.New(rand.NewSource(p.seed + int64(trial)))
		routed, final, swaps, err := p.route(d, initial.Copy(), rng)
		if err != nil {
			return nil, err
		}
		cost := gateCost(routed)
		if best == nil || swaps < best.swaps || (swaps == best.swaps && cost < best.cost) {
			best = &result{d: routed, final: final, swaps: swaps, cost: cost}
		}
	}

	ps.Set(transpiler.KeyFinalLayout, best.final)
	return best.d, nil
}

func (p *StochasticRouter) initialLayout(d *dag.DAG, ps *transpiler.PropertySet) *layout.Layout {
	var l *layout.Layout
	if raw, ok := ps.Get(transpiler.KeyLayout); ok {
		if existing, ok := raw.(*layout.Layout); ok && existing.Len() >= d.NumQubits() {
			l = existing.Copy()
		}
	}
	if l == nil {
		l = layout.GenerateTrivial(d.Qubits())
	}
	p.fillAncillas(l)
	return l
}

// fillAncillas assigns a fresh ancilla wire to every device qubit the layout
// leaves unoccupied. Swap paths may pass through idle qubits, and SwapPhysical
// needs both slots populated.
func (p *StochasticRouter) fillAncillas(l *layout.Layout) {
	var free []int
	for q := 0; q < p.coupling.Size(); q++ {
		if _, ok := l.Virtual(q); !ok {
			free = append(free, q)
		}
	}
	if len(free) == 0 {
		return
	}
	anc := dag.NewQuantumRegister("ancilla", len(free))
	for i, q := range free {
		l.Set(anc.Bit(i), q)
	}
}

func (p *StochasticRouter) checkReachability(d *dag.DAG, l *layout.Layout) error {
	for _, n := range d.TwoQubitOps() {
		pa, oka := l.Physical(n.Qargs()[0])
		pb, okb := l.Physical(n.Qargs()[1])
		if !oka || !okb {
			return qerr.New(qerr.ErrCodeUnknownQubit,
				"operation %q uses a qubit missing from the layout", n.Op().Name)
		}
		if _, err := p.coupling.Distance(pa, pb); err != nil {
			return err
		}
	}
	return nil
}

// route performs one routing attempt over a fresh physical-wire circuit.
func (p *StochasticRouter) route(d *dag.DAG, l *layout.Layout, rng *rand.Rand) (*dag.DAG, *layout.Layout, int, error) {
	out := dag.New(d.Name())
	phys := dag.NewQuantumRegister("p", p.coupling.Size())
	if err := out.AddRegister(phys); err != nil {
		return nil, nil, 0, qerr.Wrap(qerr.ErrCodeInternal, err, "building routed circuit")
	}
	for _, w := range d.Clbits() {
		if !out.HasWire(w) {
			if err := out.AddWire(w); err != nil {
				return nil, nil, 0, qerr.Wrap(qerr.ErrCodeInternal, err, "carrying classical wire")
			}
		}
	}
	out.SetGlobalPhase(d.GlobalPhase())

	swaps := 0
	for _, layer := range d.Layers() {
		for _, n := range layer {
			op := n.Op().Clone()
			if len(n.Qargs()) == 2 {
				pa, _ := l.Physical(n.Qargs()[0])
				pb, _ := l.Physical(n.Qargs()[1])
				if !p.coupling.Connected(pa, pb) {
					path, err := p.randomShortestPath(pa, pb, rng)
					if err != nil {
						return nil, nil, 0, err
					}
					// Swap along the path, leaving the last edge to host
					// the operation itself.
					for i := 0; i+2 < len(path); i++ {
						sa, sb := path[i], path[i+1]
						swapArgs := []dag.Wire{phys.Bit(sa), phys.Bit(sb)}
						if _, err := out.ApplyOperationBack(circuit.SWAP(), swapArgs, nil); err != nil {
							return nil, nil, 0, qerr.Wrap(qerr.ErrCodeInternal, err, "inserting swap")
						}
						if err := l.SwapPhysical(sa, sb); err != nil {
							return nil, nil, 0, qerr.Wrap(qerr.ErrCodeInternal, err, "updating layout")
						}
						swaps++
					}
				}
			}

			qargs := make([]dag.Wire, len(n.Qargs()))
			for i, v := range n.Qargs() {
				pq, ok := l.Physical(v)
				if !ok {
					return nil, nil, 0, qerr.New(qerr.ErrCodeUnknownQubit,
						"virtual qubit %s missing from layout", v)
				}
				qargs[i] = phys.Bit(pq)
			}
			if _, err := out.ApplyOperationBack(op, qargs, n.Cargs()); err != nil {
				return nil, nil, 0, qerr.Wrap(qerr.ErrCodeInternal, err, "replaying %s", op.Name)
			}
		}
	}
	return out, l, swaps, nil
}

// randomShortestPath returns a shortest path between two physical qubits,
// breaking ties among equal-length continuations uniformly with rng.
func (p *StochasticRouter) randomShortestPath(a, b int, rng *rand.Rand) ([]int, error) {
	if _, err := p.coupling.Distance(a, b); err != nil {
		return nil, err
	}
	path := []int{a}
	cur := a
	for cur != b {
		remaining, err := p.coupling.Distance(cur, b)
		if err != nil {
			return nil, err
		}
		var candidates []int
		for _, n := range p.coupling.Neighbors(cur) {
			if dn, err := p.coupling.Distance(n, b); err == nil && dn == remaining-1 {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			return nil, qerr.New(qerr.ErrCodeInternal, "shortest-path walk stuck at qubit %d", cur)
		}
		next := candidates[rng.Intn(len(candidates))]
		path = append(path, next)
		cur = next
	}
	return path, nil
}

// gateCost scores a routed circuit for trial selection. Two-qubit gates
// dominate error rates on hardware, so they weigh an order of magnitude more
// than single-qubit gates.
func gateCost(d *dag.DAG) int {
	cost := 0
	for _, n := range d.TopologicalOpNodes() {
		switch {
		case n.Op().Name == circuit.NameBarrier || n.Op().Name == circuit.NameMeasure:
		case len(n.Qargs()) == 2:
			cost += 10
		default:
			cost++
		}
	}
	return cost
}
