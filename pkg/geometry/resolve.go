package geometry

import (
	"github.com/flowmotion/flowmotion/pkg/errors"
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// =============================================================================
// Layout Constants
// =============================================================================

const (
	// paddingFrac is the canvas padding on every side, as a fraction of the
	// smaller canvas dimension.
	paddingFrac = 0.035

	// containerMarginFrac insets a container's horizontal bounds from its
	// spanned column range, as a fraction of one cell width.
	containerMarginFrac = 0.08

	// containerHalfHeightFrac extends a container's vertical footprint above
	// and below its first spanned row's center, as a fraction of cell height.
	// Multi-row spans deliberately reuse the first row's center; see the
	// package tests for the pinned behavior.
	containerHalfHeightFrac = 0.52

	// containerLabelFrac reserves a label strip at the top of a container's
	// interior, as a fraction of container height.
	containerLabelFrac = 0.22

	// containerInnerPadFrac pads the container interior before slot
	// division, as a fraction of container width.
	containerInnerPadFrac = 0.05

	// Outer-grid node size defaults, as fractions of the spanned cell range.
	outerNodeWidthFrac  = 0.62
	outerNodeHeightFrac = 0.46

	// Multi-cell spans use a larger fraction of their (already larger)
	// span, not a linear scale-up of the single-cell size.
	multiSpanWidthFrac  = 0.82
	multiSpanHeightFrac = 0.62

	// Container-member node size, as fractions of one inner cell.
	innerNodeWidthFrac  = 0.78
	innerNodeHeightFrac = 0.50
)

// =============================================================================
// Resolver
// =============================================================================

// Resolve computes absolute geometry for every element of the scene.
// Containers resolve before nodes (nodes may reference container slots) and
// nodes before connections. Referencing an unknown node or container id is a
// fatal configuration error.
func Resolve(s *scene.Scene) (*Diagram, error) {
	d := newDiagram(s.Grid)

	d.Containers = make(map[string]ContainerGeometry, len(s.Containers))
	for i := range s.Containers {
		c := &s.Containers[i]
		d.Containers[c.ID] = d.resolveContainer(c)
	}

	d.Nodes = make(map[string]NodeGeometry, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		geo, err := d.resolveNode(n)
		if err != nil {
			return nil, err
		}
		d.Nodes[n.ID] = geo
	}

	d.Connections = make(map[string]ConnectionGeometry, len(s.Connections))
	d.ConnectionOrder = make([]string, 0, len(s.Connections))
	for i := range s.Connections {
		c := &s.Connections[i]
		geo, err := d.resolveConnection(c)
		if err != nil {
			return nil, err
		}
		d.Connections[geo.ID] = geo
		d.ConnectionOrder = append(d.ConnectionOrder, geo.ID)
	}

	return d, nil
}

// newDiagram computes the padded canvas, the reserved chrome strips, and the
// uniform cell size. Strips are reserved as fractions of the total canvas
// height: header at the top, footer at the very bottom, and the step
// indicator directly above the footer.
func newDiagram(g scene.GridSpec) *Diagram {
	pad := paddingFrac * min(g.Width, g.Height)
	canvas := Rect{X: pad, Y: pad, W: g.Width - 2*pad, H: g.Height - 2*pad}

	headerH := g.HeaderFrac * g.Height
	footerH := g.FooterFrac * g.Height
	stepH := g.StepFrac * g.Height

	grid := Rect{
		X: canvas.X,
		Y: canvas.Y + headerH,
		W: canvas.W,
		H: canvas.H - headerH - footerH - stepH,
	}

	return &Diagram{
		Canvas:     canvas,
		GridArea:   grid,
		CellW:      grid.W / float64(g.Cols),
		CellH:      grid.H / float64(g.Rows),
		HeaderArea: Rect{X: canvas.X, Y: canvas.Y, W: canvas.W, H: headerH},
		StepArea:   Rect{X: canvas.X, Y: grid.Bottom(), W: canvas.W, H: stepH},
		FooterArea: Rect{X: canvas.X, Y: grid.Bottom() + stepH, W: canvas.W, H: footerH},
	}
}

// cellRect returns the rectangle of a (possibly multi-cell) span.
func (d *Diagram) cellRect(row, col, rowSpan, colSpan int) Rect {
	return Rect{
		X: d.GridArea.X + float64(col)*d.CellW,
		Y: d.GridArea.Y + float64(row)*d.CellH,
		W: float64(colSpan) * d.CellW,
		H: float64(rowSpan) * d.CellH,
	}
}

// resolveContainer computes a container's footprint and inner slot cells.
// The vertical footprint is centered on the first spanned row's cell center
// and extended a fixed fraction of cell height in both directions, whatever
// the actual row span.
func (d *Diagram) resolveContainer(c *scene.ContainerSpec) ContainerGeometry {
	margin := containerMarginFrac * d.CellW
	left := d.GridArea.X + float64(c.ColStart)*d.CellW + margin
	right := d.GridArea.X + float64(c.ColEnd+1)*d.CellW - margin

	rowCenter := d.GridArea.Y + (float64(c.Row)+0.5)*d.CellH
	top := rowCenter - containerHalfHeightFrac*d.CellH
	bottom := rowCenter + containerHalfHeightFrac*d.CellH

	rect := Rect{X: left, Y: top, W: right - left, H: bottom - top}

	// Interior after the label strip and side padding, divided into equal
	// inner columns (a single row).
	innerPad := containerInnerPadFrac * rect.W
	interior := Rect{
		X: rect.X + innerPad,
		Y: rect.Y + containerLabelFrac*rect.H,
		W: rect.W - 2*innerPad,
		H: rect.H - containerLabelFrac*rect.H - innerPad,
	}

	cells := make([]Rect, c.Slots)
	slotW := interior.W / float64(c.Slots)
	for i := range cells {
		cells[i] = Rect{
			X: interior.X + float64(i)*slotW,
			Y: interior.Y,
			W: slotW,
			H: interior.H,
		}
	}

	return ContainerGeometry{
		ID:         c.ID,
		Label:      c.DisplayLabel(),
		Rect:       rect,
		InnerCells: cells,
	}
}

// resolveNode computes a node's footprint according to its placement mode.
func (d *Diagram) resolveNode(n *scene.NodeSpec) (NodeGeometry, error) {
	var center Point
	var w, h float64

	switch n.Placement() {
	case scene.PlaceInContainer:
		c, ok := d.Containers[n.Container]
		if !ok {
			return NodeGeometry{}, errors.New(errors.ErrCodeUnknownContainer, "node %q placed in unknown container %q", n.ID, n.Container)
		}
		cell := c.InnerCells[*n.Slot]
		center = cell.Center()
		w = innerNodeWidthFrac * cell.W
		h = innerNodeHeightFrac * cell.H

	case scene.PlaceAligned:
		c, ok := d.Containers[n.AlignContainer]
		if !ok {
			return NodeGeometry{}, errors.New(errors.ErrCodeUnknownContainer, "node %q aligned to unknown container %q", n.ID, n.AlignContainer)
		}
		cell := c.InnerCells[*n.AlignSlot]
		rowRect := d.cellRect(*n.Row, 0, 1, 1)
		center = Point{X: cell.Center().X, Y: rowRect.Center().Y}
		w = outerNodeWidthFrac * d.CellW
		h = outerNodeHeightFrac * d.CellH

	case scene.PlaceOuter:
		rowSpan, colSpan := max(n.RowSpan, 1), max(n.ColSpan, 1)
		span := d.cellRect(*n.Row, *n.Col, rowSpan, colSpan)
		center = span.Center()
		if colSpan > 1 {
			w = multiSpanWidthFrac * span.W
		} else {
			w = outerNodeWidthFrac * span.W
		}
		if rowSpan > 1 {
			h = multiSpanHeightFrac * span.H
		} else {
			h = outerNodeHeightFrac * span.H
		}

	default:
		return NodeGeometry{}, errors.New(errors.ErrCodeInvalidScene, "node %q has no valid placement", n.ID)
	}

	if n.WidthFrac > 0 {
		w = n.WidthFrac * d.CellW * float64(max(n.ColSpan, 1))
	}
	if n.HeightFrac > 0 {
		h = n.HeightFrac * d.CellH * float64(max(n.RowSpan, 1))
	}

	return NodeGeometry{
		ID:    n.ID,
		Label: n.DisplayLabel(),
		Icon:  n.Icon,
		Rect:  Rect{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h},
	}, nil
}
