// Package dag implements the circuit intermediate representation used by the
// qompile transpiler: a wire-labeled directed acyclic multigraph.
//
// # Model
//
// A circuit is a set of wires (qubits and classical bits) plus operations
// applied to them. Each wire runs as one directed path from a dedicated input
// node to a dedicated output node; operation nodes sit on the paths of every
// wire they touch. Edges carry the wire they belong to, so the graph encodes
// both data dependencies and per-wire ordering.
//
// # Mutation
//
// The mutation API mirrors circuit editing during compilation:
//
//   - [DAG.ApplyOperationBack] / [DAG.ApplyOperationFront] append operations
//     at the output or input frontier
//   - [DAG.RemoveOpNode] deletes an operation, healing each wire's path
//   - [DAG.SubstituteNodeWithDAG] splices a sub-circuit in place of a node
//   - [DAG.Compose] grafts a whole circuit onto the output frontier
//
// Every mutation either completes or rejects its input before touching an
// edge; the structural invariants (checkable with [DAG.Validate]) hold after
// every public call.
//
// # Determinism
//
// Nodes are referenced by stable integer IDs handed out in creation order and
// never reused. Topological iteration breaks ties by ID, so pass output is
// reproducible and tests can assert exact node sequences.
package dag
