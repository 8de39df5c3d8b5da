// Package render provides static exports of resolved diagrams.
//
// # Overview
//
// This package contains the export pipeline that turns a resolved diagram
// into viewable artifacts. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Graphviz DOT export (in [dot] subpackage)
//
// Exports are structural snapshots: they show every element fully visible
// and ignore timeline state. Animated rendering happens in downstream
// consumers that read per-frame state from the pipeline.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := dot.RenderSVG(src)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # DOT Export
//
// The [dot] subpackage converts a scene and its resolved geometry into
// Graphviz DOT source with pinned node positions.
//
//	src := dot.Export(s, diagram, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// [dot]: github.com/flowmotion/flowmotion/pkg/render/dot
package render
