package geometry

import (
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// =============================================================================
// Primitive Types
// =============================================================================

// Point is an absolute canvas coordinate in user units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle. X, Y is the top-left corner.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Anchor returns the midpoint of the given compass edge.
func (r Rect) Anchor(e scene.Edge) Point {
	c := r.Center()
	switch e {
	case scene.EdgeLeft:
		return Point{X: r.X, Y: c.Y}
	case scene.EdgeRight:
		return Point{X: r.Right(), Y: c.Y}
	case scene.EdgeTop:
		return Point{X: c.X, Y: r.Y}
	default:
		return Point{X: c.X, Y: r.Bottom()}
	}
}

// EdgeAnchorAt returns a point on the given edge of the rectangle. For the
// left/right edges the y coordinate is the supplied absolute y clamped into
// the rectangle's vertical range; top/bottom edges ignore it and use the
// horizontal center.
func (r Rect) EdgeAnchorAt(e scene.Edge, y float64) Point {
	switch e {
	case scene.EdgeLeft:
		return Point{X: r.X, Y: clamp(y, r.Y, r.Bottom())}
	case scene.EdgeRight:
		return Point{X: r.Right(), Y: clamp(y, r.Y, r.Bottom())}
	case scene.EdgeTop:
		return Point{X: r.Center().X, Y: r.Y}
	default:
		return Point{X: r.Center().X, Y: r.Bottom()}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// Resolved Output
// =============================================================================

// NodeGeometry is the resolved footprint of one node.
type NodeGeometry struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Icon  string `json:"icon,omitempty" bson:"icon,omitempty"`
	Rect  Rect   `json:"rect" bson:"rect"`
}

// ContainerGeometry is the resolved footprint of one container, including
// the centers of its inner slots.
type ContainerGeometry struct {
	ID         string `json:"id" bson:"id"`
	Label      string `json:"label,omitempty" bson:"label,omitempty"`
	Rect       Rect   `json:"rect" bson:"rect"`
	InnerCells []Rect `json:"inner_cells" bson:"inner_cells"`
}

// ConnectionGeometry is the routed polyline for one connection.
// Points always runs from the source anchor to the target anchor; a nil
// Points slice marks a degenerate (zero-length) connection that renderers
// skip by policy.
type ConnectionGeometry struct {
	ID       string  `json:"id" bson:"id"`
	Points   []Point `json:"points,omitempty" bson:"points,omitempty"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`
	LabelPos Point   `json:"label_pos" bson:"label_pos"`
}

// Diagram is the fully resolved geometry of a scene.
type Diagram struct {
	Canvas   Rect    `json:"canvas" bson:"canvas"`
	GridArea Rect    `json:"grid_area" bson:"grid_area"`
	CellW    float64 `json:"cell_w" bson:"cell_w"`
	CellH    float64 `json:"cell_h" bson:"cell_h"`

	// Reserved chrome strips (zero-height when unreserved).
	HeaderArea Rect `json:"header_area" bson:"header_area"`
	StepArea   Rect `json:"step_area" bson:"step_area"`
	FooterArea Rect `json:"footer_area" bson:"footer_area"`

	Nodes      map[string]NodeGeometry      `json:"nodes" bson:"nodes"`
	Containers map[string]ContainerGeometry `json:"containers,omitempty" bson:"containers,omitempty"`

	Connections map[string]ConnectionGeometry `json:"connections,omitempty" bson:"connections,omitempty"`

	// ConnectionOrder preserves document order for deterministic iteration.
	ConnectionOrder []string `json:"connection_order,omitempty" bson:"connection_order,omitempty"`
}
