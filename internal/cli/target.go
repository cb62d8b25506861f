package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/qompile/qompile/pkg/pipeline"
)

// targetFile is the TOML description of a hardware target.
//
//	name = "line3"
//	num_qubits = 3
//	edges = [[0, 1], [1, 2]]
//	time_unit = "dt"
//
//	[durations]
//	h = 10
//	cx = 100
//	measure = 300
type targetFile struct {
	Name      string             `toml:"name"`
	NumQubits int                `toml:"num_qubits"`
	Edges     [][]int            `toml:"edges"`
	TimeUnit  string             `toml:"time_unit"`
	Durations map[string]float64 `toml:"durations"`
}

// loadTarget reads a target description and applies it to opts.
func loadTarget(path string, opts *pipeline.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read target %s: %w", path, err)
	}

	var target targetFile
	if err := toml.Unmarshal(data, &target); err != nil {
		return fmt.Errorf("parse target %s: %w", path, err)
	}

	for i, e := range target.Edges {
		if len(e) != 2 {
			return fmt.Errorf("target %s: edge %d has %d entries, want 2", path, i, len(e))
		}
		opts.CouplingEdges = append(opts.CouplingEdges, [2]int{e[0], e[1]})
	}
	if target.NumQubits > opts.NumQubits {
		opts.NumQubits = target.NumQubits
	}
	if target.TimeUnit != "" {
		opts.TimeUnit = target.TimeUnit
	}
	if len(target.Durations) > 0 {
		opts.Durations = target.Durations
	}
	return nil
}
