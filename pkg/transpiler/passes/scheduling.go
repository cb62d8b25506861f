package passes

import (
	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
	qerr "github.com/qompile/qompile/pkg/errors"
	"github.com/qompile/qompile/pkg/transpiler"
)

// ASAPSchedule assigns every operation the earliest start time its operands
// allow and materializes idle time as explicit delay operations.
//
// The rewritten circuit contains the same operations with delays inserted in
// front of operands that would otherwise sit idle, plus one trailing delay
// per qubit so all timelines end together. Start times by node ID are stored
// under transpiler.KeySchedule and the total length under
// transpiler.KeyDuration.
//
// Durations come from the instruction table keyed by (name, qubit indices);
// a missing entry aborts the run.
type ASAPSchedule struct {
	transpiler.TransformationPass
	durations *transpiler.InstructionDurations
}

// NewASAPSchedule creates the pass.
func NewASAPSchedule(durations *transpiler.InstructionDurations) *ASAPSchedule {
	return &ASAPSchedule{durations: durations}
}

// Name implements transpiler.Pass.
func (p *ASAPSchedule) Name() string { return "asap_schedule" }

// ID implements transpiler.Pass.
func (p *ASAPSchedule) ID() string {
	return transpiler.MakeID(p.Name(), p.durations.Unit())
}

// Run implements transpiler.Pass.
func (p *ASAPSchedule) Run(d *dag.DAG, ps *transpiler.PropertySet) (*dag.DAG, error) {
	out := dag.New(d.Name())
	for _, w := range append(append([]dag.Wire(nil), d.Qubits()...), d.Clbits()...) {
		if out.HasWire(w) {
			continue
		}
		if err := out.AddWire(w); err != nil {
			return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "carrying wire into schedule")
		}
	}
	out.SetGlobalPhase(d.GlobalPhase())

	available := make(map[dag.Wire]float64, d.NumQubits())
	schedule := make(map[int]float64)

	pad := func(w dag.Wire, until float64) error {
		gap := until - available[w]
		if gap <= 0 {
			return nil
		}
		n, err := out.ApplyOperationBack(circuit.Delay(gap), []dag.Wire{w}, nil)
		if err != nil {
			return qerr.Wrap(qerr.ErrCodeInternal, err, "padding %s", w)
		}
		schedule[n.ID()] = available[w]
		available[w] = until
		return nil
	}

	for _, n := range d.TopologicalOpNodes() {
		op := n.Op().Clone()
		qubits := make([]int, len(n.Qargs()))
		for i, w := range n.Qargs() {
			qubits[i] = w.Index()
		}
		duration, err := p.durations.GetOp(op, qubits)
		if err != nil {
			return nil, err
		}

		start := 0.0
		for _, w := range n.Qargs() {
			if available[w] > start {
				start = available[w]
			}
		}
		for _, w := range n.Qargs() {
			if err := pad(w, start); err != nil {
				return nil, err
			}
		}

		applied, err := out.ApplyOperationBack(op, n.Qargs(), n.Cargs())
		if err != nil {
			return nil, qerr.Wrap(qerr.ErrCodeInternal, err, "replaying %s", op.Name)
		}
		schedule[applied.ID()] = start
		for _, w := range n.Qargs() {
			available[w] = start + duration
		}
	}

	// Equalize: every qubit timeline ends at the global maximum.
	total := 0.0
	for _, w := range d.Qubits() {
		if available[w] > total {
			total = available[w]
		}
	}
	for _, w := range d.Qubits() {
		if err := pad(w, total); err != nil {
			return nil, err
		}
	}

	ps.Set(transpiler.KeySchedule, schedule)
	ps.Set(transpiler.KeyDuration, total)
	return out, nil
}
