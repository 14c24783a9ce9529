package render

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
)

// [3 1 0 2] takes three flips: sizes 4, 3, 2.
func sampleTrace() fannkuch.Trace {
	return fannkuch.NewTrace([]int{3, 1, 0, 2})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTrace())

	for _, want := range []string{
		"digraph trace {",
		`s0 [label="3 1 0 2"];`,
		`s1 [label="2 0 1 3"];`,
		`s2 [label="1 0 2 3"];`,
		`s3 [label="0 1 2 3", fillcolor=lightgrey];`,
		`s0 -> s1 [label="flip 4"];`,
		`s1 -> s2 [label="flip 3"];`,
		`s2 -> s3 [label="flip 2"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 3 {
		t.Errorf("ToDOT() has %d edges, want 3", got)
	}
}

func TestToDOT_EmptyTrace(t *testing.T) {
	dot := ToDOT(fannkuch.NewTrace([]int{0, 1, 2}))
	if !strings.Contains(dot, `s0 [label="0 1 2", fillcolor=lightgrey];`) {
		t.Errorf("ToDOT() should render a single final node:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Errorf("ToDOT() should have no edges:\n%s", dot)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	tr := sampleTrace()

	data, err := Render(ctx, tr, FormatJSON)
	if err != nil {
		t.Fatalf("Render(json) error: %v", err)
	}
	var got fannkuch.Trace
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Len() != 3 || got.Sizes[0] != 4 {
		t.Errorf("Render(json) = %+v", got)
	}

	data, err = Render(ctx, tr, FormatDOT)
	if err != nil {
		t.Fatalf("Render(dot) error: %v", err)
	}
	if string(data) != ToDOT(tr) {
		t.Error("Render(dot) should equal ToDOT")
	}

	_, err = Render(ctx, tr, "png")
	if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidFormat) {
		t.Errorf("Render(png) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(context.Background(), sampleTrace(), FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg) error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("Render(svg) output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "rewrites tag",
			svg:  `<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg><g/></svg>`,
			want: `<svg><g/></svg>`,
		},
		{
			name: "zero size",
			svg:  `<svg viewBox="0 0 0 0"></svg>`,
			want: `<svg viewBox="0 0 0 0"></svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	for _, f := range []string{"", "SVG", "pdf"} {
		if err := ValidateFormat(f); err == nil {
			t.Errorf("ValidateFormat(%q) should fail", f)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(FormatSVG); got != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q", got)
	}
	if got := ContentType(FormatJSON); got != "application/json" {
		t.Errorf("ContentType(json) = %q", got)
	}
}
