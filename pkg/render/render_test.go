package render

import (
	"strings"
	"testing"

	"github.com/qompile/qompile/pkg/circuit"
	"github.com/qompile/qompile/pkg/dag"
)

func TestCircuitDOT(t *testing.T) {
	b := circuit.NewBuilder("bell", 2, 2)
	b.H(0).CX(0, 1).MeasureAll()
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	dot := dag.ToDOT(b.DAG())
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("DOT output missing digraph header")
	}
	for _, want := range []string{"h", "cx", "measure", "q[0]", "q[1]", "c[0]"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG("digraph G { a -> b; }")
	if err != nil {
		t.Fatalf("RenderSVG = %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(out, `viewBox="0 0 `) {
		t.Error("viewBox not normalized to the origin")
	}
}

func TestRenderSVGBadDOT(t *testing.T) {
	if _, err := RenderSVG("not dot at all {{{"); err == nil {
		t.Error("expected parse error for malformed DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00">rest</svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not rewritten: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("pixel size not set from viewBox: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte("<svg>no viewbox</svg>")
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("svg without viewBox modified: %s", got)
	}
}
