package dag

import (
	"container/heap"
	"sort"
)

// intHeap is a min-heap of node IDs, used for the deterministic topological
// tie-break.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalNodes returns every node in topological order. Ties are broken
// by node ID, which is creation order, so repeated calls on an unchanged DAG
// return the same sequence and tests can assert exact orderings.
//
// The ordering is recomputed on each call.
func (d *DAG) TopologicalNodes() []*Node {
	indeg := make(map[int]int, len(d.nodes))
	for id, n := range d.nodes {
		indeg[id] = len(n.preds)
	}

	ready := &intHeap{}
	for id, deg := range indeg {
		if deg == 0 {
			heap.Push(ready, id)
		}
	}

	order := make([]*Node, 0, len(d.nodes))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(int)
		n := d.nodes[id]
		order = append(order, n)
		for _, s := range n.succs {
			indeg[s]--
			if indeg[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}
	return order
}

// TopologicalOpNodes returns the operation nodes in topological order with
// the same deterministic tie-break as TopologicalNodes.
func (d *DAG) TopologicalOpNodes() []*Node {
	all := d.TopologicalNodes()
	ops := make([]*Node, 0, len(all))
	for _, n := range all {
		if n.kind == NodeOp {
			ops = append(ops, n)
		}
	}
	return ops
}

// OpNodes returns operation nodes in topological order. With names given,
// only operations with one of those names are returned.
func (d *DAG) OpNodes(names ...string) []*Node {
	ops := d.TopologicalOpNodes()
	if len(names) == 0 {
		return ops
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	filtered := ops[:0:0]
	for _, n := range ops {
		if want[n.op.Name] {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// TwoQubitOps returns operation nodes acting on exactly two qubits, in
// topological order.
func (d *DAG) TwoQubitOps() []*Node {
	var out []*Node
	for _, n := range d.TopologicalOpNodes() {
		if len(n.qargs) == 2 {
			out = append(out, n)
		}
	}
	return out
}

// CountOps returns the number of operation nodes per operation name.
func (d *DAG) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, n := range d.nodes {
		if n.kind == NodeOp {
			counts[n.op.Name]++
		}
	}
	return counts
}

// IdleWires returns the wires with no operations on them, in registration
// order (qubits first).
func (d *DAG) IdleWires() []Wire {
	var idle []Wire
	for _, w := range append(append([]Wire(nil), d.qubits...), d.clbits...) {
		in := d.nodes[d.inputs[w]]
		if in.succs[w] == d.outputs[w] {
			idle = append(idle, w)
		}
	}
	return idle
}

// Depth returns the length of the longest path counted in operation nodes.
// Wires with no operations contribute zero; an empty circuit has depth 0.
func (d *DAG) Depth() int {
	depth := make(map[int]int, len(d.nodes))
	max := 0
	for _, n := range d.TopologicalNodes() {
		best := 0
		for _, p := range n.preds {
			if depth[p] > best {
				best = depth[p]
			}
		}
		if n.kind == NodeOp {
			best++
		}
		depth[n.id] = best
		if best > max {
			max = best
		}
	}
	return max
}

// Layers partitions the operation nodes into rounds of operations with
// disjoint wire support: a node's layer is one past the deepest layer among
// its predecessors on any of its wires. Within a layer, nodes are ordered by
// ID.
func (d *DAG) Layers() [][]*Node {
	level := make(map[int]int, len(d.nodes))
	var layers [][]*Node
	for _, n := range d.TopologicalNodes() {
		best := -1
		for _, p := range n.preds {
			if lv, ok := level[p]; ok && lv > best {
				best = lv
			}
		}
		if n.kind != NodeOp {
			// Input/output nodes pass the deepest predecessor level through.
			if best >= 0 {
				level[n.id] = best
			}
			continue
		}
		lv := best + 1
		level[n.id] = lv
		for len(layers) <= lv {
			layers = append(layers, nil)
		}
		layers[lv] = append(layers[lv], n)
	}
	for _, layer := range layers {
		sort.Slice(layer, func(i, j int) bool { return layer[i].id < layer[j].id })
	}
	return layers
}
