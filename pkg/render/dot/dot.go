package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowmotion/flowmotion/pkg/geometry"
	"github.com/flowmotion/flowmotion/pkg/render"
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// Options configures DOT export.
type Options struct {
	// Detailed includes placement metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool
}

// Export converts a scene to Graphviz DOT format. When d is non-nil, node
// positions are pinned to the resolved geometry and the neato engine lays
// the graph out on the original canvas; otherwise Graphviz's dot engine
// picks its own layout.
//
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func Export(s *scene.Scene, d *geometry.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if d != nil {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=polyline;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	members := membersByContainer(s)
	for _, c := range s.Containers {
		writeCluster(&buf, &c, members[c.ID], d, opts)
	}
	for _, n := range s.Nodes {
		if n.Container != "" {
			continue // emitted inside its cluster
		}
		writeNode(&buf, &n, d, opts, "  ")
	}

	buf.WriteString("\n")
	for _, conn := range s.Connections {
		writeEdge(&buf, &conn, members)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func membersByContainer(s *scene.Scene) map[string][]scene.NodeSpec {
	m := make(map[string][]scene.NodeSpec)
	for _, n := range s.Nodes {
		if n.Container != "" {
			m[n.Container] = append(m[n.Container], n)
		}
	}
	return m
}

func writeCluster(buf *bytes.Buffer, c *scene.ContainerSpec, members []scene.NodeSpec, d *geometry.Diagram, opts Options) {
	fmt.Fprintf(buf, "  subgraph %s {\n", clusterName(c.ID))
	fmt.Fprintf(buf, "    label=%q;\n", c.DisplayLabel())
	buf.WriteString("    style=\"rounded,dashed\";\n")
	for _, n := range members {
		writeNode(buf, &n, d, opts, "    ")
	}
	buf.WriteString("  }\n")
}

func writeNode(buf *bytes.Buffer, n *scene.NodeSpec, d *geometry.Diagram, opts Options, indent string) {
	label := fmtLabel(n, opts.Detailed)
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if d != nil {
		if g, ok := d.Nodes[n.ID]; ok {
			attrs = append(attrs, posAttrs(g.Rect, d.Canvas)...)
		}
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
}

// posAttrs pins a node to its resolved rectangle. DOT positions are in
// points with y growing upward, so the canvas y axis is flipped.
func posAttrs(r geometry.Rect, canvas geometry.Rect) []string {
	c := r.Center()
	return []string{
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", c.X, canvas.H-c.Y),
		fmt.Sprintf("width=%.3f", r.W/72),
		fmt.Sprintf("height=%.3f", r.H/72),
		"fixedsize=true",
	}
}

func fmtLabel(n *scene.NodeSpec, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}

	var parts []string
	switch n.Placement() {
	case scene.PlaceOuter:
		parts = append(parts, fmt.Sprintf("cell: %d,%d", *n.Row, *n.Col))
	case scene.PlaceInContainer:
		parts = append(parts, "in: "+n.Container)
	case scene.PlaceAligned:
		parts = append(parts, "aligned: "+n.AlignContainer)
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// writeEdge emits one connection. Container endpoints attach to a member
// node and clip at the cluster boundary via lhead/ltail; a container with
// no members is skipped because DOT edges need node endpoints.
func writeEdge(buf *bytes.Buffer, conn *scene.ConnectionSpec, members map[string][]scene.NodeSpec) {
	from, ftail := endpointNode(conn.From, members)
	to, lhead := endpointNode(conn.To, members)
	if from == "" || to == "" {
		return
	}

	var attrs []string
	if conn.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", conn.Label))
	}
	if ftail != "" {
		attrs = append(attrs, "ltail="+ftail)
	}
	if lhead != "" {
		attrs = append(attrs, "lhead="+lhead)
	}

	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %q -> %q;\n", from, to)
		return
	}
	fmt.Fprintf(buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
}

func endpointNode(e scene.Endpoint, members map[string][]scene.NodeSpec) (node, cluster string) {
	if !e.IsContainer() {
		return e.Node, ""
	}
	m := members[e.Container]
	if len(m) == 0 {
		return "", ""
	}
	return m[0].ID, clusterName(e.Container)
}

// clusterName derives the DOT subgraph name from a container id. The
// "cluster" prefix is what makes Graphviz draw the bounding box.
func clusterName(container string) string {
	return "cluster_" + sanitizeID(container)
}

var idSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]`)

func sanitizeID(id string) string {
	return idSanitizer.ReplaceAllString(id, "_")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
