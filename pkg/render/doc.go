// Package render turns flip traces into viewable artifacts.
//
// # Overview
//
// A [fannkuch.Trace] lists the pancake stacks produced while flipping one
// permutation until 0 reaches the front. This package renders such a trace
// in three formats:
//
//   - [FormatJSON]: the trace itself, for API clients
//   - [FormatDOT]: Graphviz source, one node per stack, one edge per flip
//   - [FormatSVG]: the DOT graph laid out in-process by Graphviz
//
// # Usage
//
//	tr, err := fannkuch.TraceAt(7, 1234)
//	if err != nil {
//	    return err
//	}
//	svg, err := render.Render(ctx, tr, render.FormatSVG)
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which runs Graphviz as
// WebAssembly, so no system Graphviz installation is required.
package render
