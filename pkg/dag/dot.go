package dag

import (
	"bytes"
	"fmt"
	"sort"
)

// ToDOT converts the circuit graph to Graphviz DOT format for debugging.
// Operation nodes are rendered as boxes labeled with the operation; wire
// input/output nodes as plain ellipses. Edges carry their wire label.
func ToDOT(d *DAG) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	ids := make([]int, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		n := d.nodes[id]
		switch n.kind {
		case NodeOp:
			fmt.Fprintf(&buf, "  n%d [shape=box, style=\"rounded,filled\", fillcolor=white, label=%q];\n",
				id, n.op.String())
		case NodeInput:
			fmt.Fprintf(&buf, "  n%d [shape=ellipse, label=%q];\n", id, n.wire.String()+" in")
		case NodeOutput:
			fmt.Fprintf(&buf, "  n%d [shape=ellipse, label=%q];\n", id, n.wire.String()+" out")
		}
	}

	buf.WriteString("\n")
	for _, id := range ids {
		n := d.nodes[id]
		wires := make([]string, 0, len(n.succs))
		bySucc := make(map[string][]int)
		for w, s := range n.succs {
			key := w.String()
			wires = append(wires, key)
			bySucc[key] = append(bySucc[key], s)
		}
		sort.Strings(wires)
		emitted := make(map[string]bool)
		for _, w := range wires {
			if emitted[w] {
				continue
			}
			emitted[w] = true
			for _, s := range bySucc[w] {
				fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", id, s, w)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
