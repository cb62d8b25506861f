package transpiler

import (
	"fmt"
	"strings"

	"github.com/qompile/qompile/pkg/dag"
)

// Pass is one unit of compilation work.
//
// Analysis passes inspect the circuit and write results into the PropertySet;
// they must return the input DAG unchanged. Transformation passes rewrite the
// circuit and may read, but not write, analysis results.
//
// Two pass instances with the same ID are interchangeable: the PassManager
// skips a pass whose ID is already in the valid set. IDs therefore encode the
// pass kind plus every parameter that changes its behavior (see MakeID).
type Pass interface {
	// Name is the human-readable pass name used in logs.
	Name() string

	// ID identifies the pass instance for idempotence and preservation
	// bookkeeping.
	ID() string

	// Requires lists passes whose results this pass needs. The PassManager
	// runs stale requirements before the pass itself.
	Requires() []Pass

	// Preserves lists passes whose results remain valid after this pass
	// runs. Meaningful for transformation passes only; analysis passes
	// preserve everything.
	Preserves() []Pass

	// Analysis reports whether the pass is an analysis pass.
	Analysis() bool

	// Run executes the pass. Transformation passes return the rewritten
	// DAG (which may be the input, mutated). Analysis passes return the
	// input unchanged.
	Run(d *dag.DAG, ps *PropertySet) (*dag.DAG, error)
}

// MakeID canonicalizes a pass identity from its kind name and parameters.
// Passes with no behavior-changing parameters use the bare name.
func MakeID(name string, params ...any) string {
	if len(params) == 0 {
		return name
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

// AnalysisPass is the embeddable base for analysis passes: no requirements,
// preserves everything by definition.
type AnalysisPass struct{}

// Requires returns no requirements.
func (AnalysisPass) Requires() []Pass { return nil }

// Preserves returns nil; analysis passes preserve all results implicitly.
func (AnalysisPass) Preserves() []Pass { return nil }

// Analysis reports true.
func (AnalysisPass) Analysis() bool { return true }

// TransformationPass is the embeddable base for transformation passes: no
// requirements and, conservatively, no preserved results.
type TransformationPass struct{}

// Requires returns no requirements.
func (TransformationPass) Requires() []Pass { return nil }

// Preserves returns no preserved results; rewrites invalidate analyses
// unless a pass overrides this.
func (TransformationPass) Preserves() []Pass { return nil }

// Analysis reports false.
func (TransformationPass) Analysis() bool { return false }
