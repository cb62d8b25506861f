package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qompile/qompile/pkg/dag"
	"github.com/qompile/qompile/pkg/qobj"
	"github.com/qompile/qompile/pkg/render"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	output string // output file; format inferred from the extension
	format string // explicit format override (svg, png, pdf, dot)
	scale  float64
}

// drawCommand creates the draw command.
func (c *CLI) drawCommand() *cobra.Command {
	opts := drawOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "draw <circuit.json>",
		Short: "Render a circuit as SVG, PNG, PDF, or DOT",
		Long: `Render a circuit's wire graph as a diagram.

The output format is inferred from the output file extension, or forced with
--format. DOT output needs no external tools; PNG and PDF require librsvg.

Examples:
  qompile draw bell.json -o bell.svg
  qompile draw bell.json -o bell.png --scale 3
  qompile draw bell.json --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, png, pdf, dot")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runDraw(circuitPath string, opts drawOpts) error {
	circ, err := qobj.ReadCircuitFile(circuitPath)
	if err != nil {
		return fmt.Errorf("read circuit: %w", err)
	}

	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(opts.output), ".")
	}
	if format == "" {
		format = "svg"
	}

	dot := dag.ToDOT(circ)
	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(dot)
	case "png":
		var svg []byte
		if svg, err = render.RenderSVG(dot); err == nil {
			data, err = render.ToPNG(svg, opts.scale)
		}
	case "pdf":
		var svg []byte
		if svg, err = render.RenderSVG(dot); err == nil {
			data, err = render.ToPDF(svg)
		}
	default:
		return fmt.Errorf("unknown format %q (want svg, png, pdf, or dot)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Rendered %s diagram", format)
	printFile(opts.output)
	return nil
}
