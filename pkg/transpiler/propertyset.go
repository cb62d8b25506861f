// Package transpiler provides the pass framework: the PropertySet shared
// between passes, the Pass interfaces, the PassManager that schedules them,
// and the instruction duration table used for scheduling.
package transpiler

// Well-known PropertySet keys. Passes communicate exclusively through these;
// a consumer pass names the keys it reads in its documentation.
const (
	// KeyRunID holds the UUID of the current PassManager run.
	KeyRunID = "run_id"

	// KeyLayout holds the *layout.Layout chosen by a layout pass and
	// permuted by routing.
	KeyLayout = "layout"

	// KeyFinalLayout holds the *layout.Layout after routing permuted it;
	// readout bits are interpreted through it.
	KeyFinalLayout = "final_layout"

	// KeyCommutationSet holds the *passes.CommutationSet produced by
	// commutation analysis.
	KeyCommutationSet = "commutation_set"

	// KeyIsSwapMapped holds a bool: whether every 2-qubit operation acts on
	// coupling-adjacent physical qubits.
	KeyIsSwapMapped = "is_swap_mapped"

	// KeySchedule holds the map[int]float64 from node ID to start time
	// produced by scheduling.
	KeySchedule = "schedule"

	// KeyDuration holds the float64 total schedule length.
	KeyDuration = "duration"
)

// PropertySet is the blackboard shared by all passes in one PassManager run.
// Analysis passes write results under well-known keys; transformation passes
// and flow controllers read them. Values live for one run.
type PropertySet struct {
	values map[string]any
}

// NewPropertySet creates an empty property set.
func NewPropertySet() *PropertySet {
	return &PropertySet{values: make(map[string]any)}
}

// Get returns the value under key.
func (ps *PropertySet) Get(key string) (any, bool) {
	v, ok := ps.values[key]
	return v, ok
}

// Set stores a value under key, replacing any previous value.
func (ps *PropertySet) Set(key string, value any) {
	ps.values[key] = value
}

// Delete removes key.
func (ps *PropertySet) Delete(key string) {
	delete(ps.values, key)
}

// Bool returns the bool under key; false when absent or not a bool.
func (ps *PropertySet) Bool(key string) bool {
	b, _ := ps.values[key].(bool)
	return b
}

// Int returns the int under key; 0 when absent or not an int.
func (ps *PropertySet) Int(key string) int {
	i, _ := ps.values[key].(int)
	return i
}

// Float returns the float64 under key; 0 when absent or not a float64.
func (ps *PropertySet) Float(key string) float64 {
	f, _ := ps.values[key].(float64)
	return f
}

// String returns the string under key; "" when absent or not a string.
func (ps *PropertySet) String(key string) string {
	s, _ := ps.values[key].(string)
	return s
}

// Len returns the number of stored values.
func (ps *PropertySet) Len() int { return len(ps.values) }
