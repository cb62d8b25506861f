// Package coupling models device connectivity: a directed graph over
// physical qubit indices whose edges name the hardware-native direction of
// two-qubit gates.
package coupling

import (
	"fmt"
	"sort"
	"strings"

	qerr "github.com/qompile/qompile/pkg/errors"
)

// Edge is one directed coupling between two physical qubits.
type Edge struct {
	Control, Target int
}

// Map is a directed coupling graph over physical qubits 0..Size-1. Distances
// are measured on the undirected skeleton: routing only cares about
// adjacency, direction matters to gate-direction fixing.
//
// A Map is effectively immutable once built; the distance table is computed
// lazily on first use and reused afterwards.
type Map struct {
	size  int
	edges []Edge
	adj   map[int][]int // undirected adjacency, deduplicated, sorted

	dist [][]int // lazy all-pairs BFS distances; -1 means unreachable
}

// New creates a coupling map over size physical qubits with no edges.
func New(size int) *Map {
	return &Map{size: size, adj: make(map[int][]int)}
}

// FromEdges creates a coupling map from a directed edge list. The qubit count
// is one past the largest index mentioned, or size if that is larger.
func FromEdges(size int, edges []Edge) (*Map, error) {
	for _, e := range edges {
		if e.Control >= size {
			size = e.Control + 1
		}
		if e.Target >= size {
			size = e.Target + 1
		}
	}
	m := New(size)
	for _, e := range edges {
		if err := m.AddEdge(e.Control, e.Target); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Line creates a path graph 0-1-2-...-(size-1) with edges directed low to
// high. Handy for tests and as a default target.
func Line(size int) *Map {
	m := New(size)
	for i := 0; i+1 < size; i++ {
		m.AddEdge(i, i+1)
	}
	return m
}

// Size returns the number of physical qubits.
func (m *Map) Size() int { return m.size }

// Edges returns the directed edges in insertion order.
func (m *Map) Edges() []Edge { return m.edges }

// AddEdge adds a directed edge control -> target. Duplicate edges are
// ignored. Adding an edge invalidates any cached distances.
func (m *Map) AddEdge(control, target int) error {
	if err := m.checkQubit(control); err != nil {
		return err
	}
	if err := m.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return qerr.New(qerr.ErrCodeInvalidParameter, "self-coupling on qubit %d", control)
	}
	for _, e := range m.edges {
		if e.Control == control && e.Target == target {
			return nil
		}
	}
	m.edges = append(m.edges, Edge{Control: control, Target: target})
	m.addUndirected(control, target)
	m.addUndirected(target, control)
	m.dist = nil
	return nil
}

func (m *Map) addUndirected(a, b int) {
	for _, n := range m.adj[a] {
		if n == b {
			return
		}
	}
	m.adj[a] = append(m.adj[a], b)
	sort.Ints(m.adj[a])
}

func (m *Map) checkQubit(q int) error {
	if q < 0 || q >= m.size {
		return qerr.New(qerr.ErrCodeUnknownQubit, "physical qubit %d out of range [0, %d)", q, m.size)
	}
	return nil
}

// HasEdge reports whether the directed edge control -> target exists.
func (m *Map) HasEdge(control, target int) bool {
	for _, e := range m.edges {
		if e.Control == control && e.Target == target {
			return true
		}
	}
	return false
}

// Connected reports whether two qubits are adjacent in either direction.
func (m *Map) Connected(a, b int) bool {
	for _, n := range m.adj[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Neighbors returns the qubits adjacent to q in either direction, sorted.
func (m *Map) Neighbors(q int) []int { return m.adj[q] }

func (m *Map) computeDist() {
	m.dist = make([][]int, m.size)
	for src := 0; src < m.size; src++ {
		row := make([]int, m.size)
		for i := range row {
			row[i] = -1
		}
		row[src] = 0
		queue := []int{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range m.adj[cur] {
				if row[n] == -1 {
					row[n] = row[cur] + 1
					queue = append(queue, n)
				}
			}
		}
		m.dist[src] = row
	}
}

// Distance returns the undirected shortest-path length between two physical
// qubits. Returns a CONNECTIVITY_NO_PATH error when the qubits lie in
// disconnected components.
func (m *Map) Distance(a, b int) (int, error) {
	if err := m.checkQubit(a); err != nil {
		return 0, err
	}
	if err := m.checkQubit(b); err != nil {
		return 0, err
	}
	if m.dist == nil {
		m.computeDist()
	}
	d := m.dist[a][b]
	if d == -1 {
		return 0, qerr.New(qerr.ErrCodeNoPath, "no path between physical qubits %d and %d", a, b)
	}
	return d, nil
}

// ShortestPath returns one undirected shortest path from a to b, inclusive of
// both endpoints. Among equal-length paths it prefers lower-numbered
// neighbors, so the result is deterministic.
func (m *Map) ShortestPath(a, b int) ([]int, error) {
	if _, err := m.Distance(a, b); err != nil {
		return nil, err
	}
	// Walk from a toward b, always stepping to a sorted neighbor that
	// decreases the remaining distance.
	path := []int{a}
	cur := a
	for cur != b {
		stepped := false
		for _, n := range m.adj[cur] {
			if m.dist[n][b] == m.dist[cur][b]-1 {
				path = append(path, n)
				cur = n
				stepped = true
				break
			}
		}
		if !stepped {
			return nil, qerr.New(qerr.ErrCodeInternal, "distance table inconsistent at qubit %d", cur)
		}
	}
	return path, nil
}

// IsConnected reports whether the undirected skeleton is a single component.
// A map with fewer than two qubits is trivially connected.
func (m *Map) IsConnected() bool {
	if m.size < 2 {
		return true
	}
	if m.dist == nil {
		m.computeDist()
	}
	for q := 1; q < m.size; q++ {
		if m.dist[0][q] == -1 {
			return false
		}
	}
	return true
}

// String formats the map as "0->1, 1->2".
func (m *Map) String() string {
	parts := make([]string, len(m.edges))
	for i, e := range m.edges {
		parts[i] = fmt.Sprintf("%d->%d", e.Control, e.Target)
	}
	return strings.Join(parts, ", ")
}
