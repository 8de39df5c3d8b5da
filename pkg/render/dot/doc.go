// Package dot exports scenes as Graphviz DOT diagrams.
//
// # Overview
//
// This package produces static node-link snapshots of a scene: nodes appear
// as boxes connected by arrows, containers as clusters. Timeline state is
// ignored; the export shows the fully-revealed diagram.
//
// # Usage
//
// Export a scene to DOT source, then render to SVG:
//
//	src := dot.Export(s, diagram, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// For PNG output:
//
//	png, err := dot.RenderPNG(src, 2.0)  // 2x scale
//
// # Positions
//
// When a resolved [geometry.Diagram] is supplied, every node carries a
// pinned position derived from its resolved rectangle and the graph is laid
// out with neato, so the export matches the animated canvas. With a nil
// diagram the export falls back to Graphviz's own dot layout.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PNG conversion requires librsvg (rsvg-convert).
package dot
