package qobj

// Circuit is the serialized form of a circuit DAG. Instructions appear in
// deterministic topological order, so serializing the same DAG twice yields
// identical bytes.
type Circuit struct {
	Name        string        `json:"name"`
	GlobalPhase float64       `json:"global_phase,omitempty"`
	QRegs       []Register    `json:"qregs"`
	CRegs       []Register    `json:"cregs,omitempty"`
	Instructions []Instruction `json:"instructions"`
}

// Register describes one quantum or classical register.
type Register struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Instruction is one serialized operation. Qubits and Clbits index into the
// flattened wire lists: all quantum registers in declaration order, then all
// classical registers.
type Instruction struct {
	Name      string     `json:"name"`
	Qubits    []int      `json:"qubits"`
	Clbits    []int      `json:"clbits,omitempty"`
	Params    []Param    `json:"params,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
}

// Param is one gate parameter: a bound value or an unbound symbol.
type Param struct {
	Value  float64 `json:"value,omitempty"`
	Symbol string  `json:"symbol,omitempty"`
}

// Condition gates an instruction on a classical register's value.
type Condition struct {
	Register string `json:"register"`
	Value    int64  `json:"value"`
}
