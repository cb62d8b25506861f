package cache

// TranspileKeyOpts carries every input that changes the transpiled output.
// Anything that alters pass behavior must appear here, otherwise two distinct
// compilations collide on one cache entry.
type TranspileKeyOpts struct {
	CouplingEdges string // canonical edge list, e.g. "0-1,1-2"
	Trials        int
	Seed          int64
	Optimize      bool
	MaxIteration  int
	ScheduleUnit  string // empty when scheduling is disabled
	DurationsHash string // hash of the duration table, empty when unscheduled
}

// Keyer generates cache keys for transpile results.
// Implementations must be deterministic: the same inputs always yield the
// same key.
type Keyer interface {
	// TranspileKey generates a key for a transpiled circuit. circuitHash is
	// the SHA-256 of the serialized input circuit.
	TranspileKey(circuitHash string, opts TranspileKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 under a fixed prefix per
// key family.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TranspileKey generates a key of the form "transpile:<sha256>".
func (k *DefaultKeyer) TranspileKey(circuitHash string, opts TranspileKeyOpts) string {
	return hashKey("transpile", circuitHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so separate contexts (projects,
// targets) get disjoint cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TranspileKey generates a prefixed transpile key.
func (k *ScopedKeyer) TranspileKey(circuitHash string, opts TranspileKeyOpts) string {
	return k.prefix + k.inner.TranspileKey(circuitHash, opts)
}
