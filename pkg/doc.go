// Package pkg provides the core libraries for the qompile circuit transpiler.
//
// # Overview
//
// Qompile rewrites quantum circuits so they can run on real devices: gates
// land on physically coupled qubits, redundant operations disappear, and
// every instruction gets a start time. The pkg directory is organized into
// four main areas:
//
//  1. [dag], [circuit] - The circuit intermediate representation
//  2. [coupling], [layout] - Device topology and qubit placement
//  3. [transpiler] - The pass framework and the passes themselves
//  4. [pipeline], [cache], [qobj] - Orchestration, caching, serialization
//
// # Architecture
//
// The typical data flow through qompile:
//
//	Circuit JSON (qobj)
//	         ↓
//	    [dag] package (wire-labeled DAG representation)
//	         ↓
//	    [transpiler] passes (layout → route → optimize → schedule)
//	         ↓
//	    Compiled circuit JSON / diagram output
//
// # Quick Start
//
// Build a circuit, compile it for a 3-qubit line, and inspect the result:
//
//	b := circuit.NewBuilder("bell", 3, 3)
//	b.H(0).CX(0, 2).MeasureAll()
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, b.DAG(), pipeline.Options{
//	    CouplingEdges: [][2]int{{0, 1}, {1, 2}},
//	    Optimize:      true,
//	})
//
// The compiled circuit is in result.DAG; analysis results (placement,
// schedule) are in result.Properties.
package pkg
