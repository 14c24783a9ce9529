package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/json"
	}
}

// ValidateFormat checks that format is one of Formats.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatDOT, FormatSVG:
		return nil
	}
	return pkgerrors.New(pkgerrors.ErrCodeInvalidFormat,
		"invalid format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
}

// Render renders tr in the given format.
func Render(ctx context.Context, tr fannkuch.Trace, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(tr, "", "  ")
	case FormatDOT:
		return []byte(ToDOT(tr)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(tr))
	}
	return nil, ValidateFormat(format)
}

// ToDOT converts a trace to Graphviz DOT. Node s0 is the starting stack,
// node si the stack after flip i; each edge is labelled with the size of
// the reversed prefix. The final stack, with 0 on top, is filled.
func ToDOT(tr fannkuch.Trace) string {
	var buf bytes.Buffer
	buf.WriteString("digraph trace {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("\n")

	stacks := append([][]int{tr.Start}, tr.Stacks...)
	last := len(stacks) - 1
	for i, s := range stacks {
		attrs := []string{fmt.Sprintf("label=%q", stackLabel(s))}
		if i == last {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  s%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	if len(tr.Sizes) > 0 {
		buf.WriteString("\n")
	}
	for i, size := range tr.Sizes {
		fmt.Fprintf(&buf, "  s%d -> s%d [label=\"flip %d\"];\n", i, i+1, size)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func stackLabel(s []int) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag with one whose width and
// height match the viewBox, so the image scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
