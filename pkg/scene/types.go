package scene

import "fmt"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Edge names the four compass sides of a node or container footprint.
type Edge string

// Compass edges.
const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// IsHorizontal reports whether the edge exits a shape sideways.
func (e Edge) IsHorizontal() bool { return e == EdgeLeft || e == EdgeRight }

// Valid reports whether e is one of the four compass edges.
func (e Edge) Valid() bool {
	switch e {
	case EdgeLeft, EdgeRight, EdgeTop, EdgeBottom:
		return true
	}
	return false
}

// =============================================================================
// Scene - Top-Level Document
// =============================================================================

// Scene is the canonical declarative description of an animated diagram.
// It is the single input to both the geometry resolver and the timeline
// engine and is designed for round-trip JSON fidelity.
type Scene struct {
	Grid        GridSpec         `json:"grid" bson:"grid"`
	Nodes       []NodeSpec       `json:"nodes" bson:"nodes"`
	Containers  []ContainerSpec  `json:"containers,omitempty" bson:"containers,omitempty"`
	Connections []ConnectionSpec `json:"connections,omitempty" bson:"connections,omitempty"`
	Timeline    []Phase          `json:"timeline,omitempty" bson:"timeline,omitempty"`

	// Optional chrome text rendered in the reserved header/footer strips.
	Header string `json:"header,omitempty" bson:"header,omitempty"`
	Footer string `json:"footer,omitempty" bson:"footer,omitempty"`
}

// =============================================================================
// GridSpec - Outer Grid
// =============================================================================

// GridSpec describes the top-level row/column layout of the canvas.
//
// HeaderFrac, FooterFrac, and StepFrac reserve horizontal strips of the total
// canvas height for chrome (title, footer, step indicator); the grid occupies
// the remainder. The fractions must each lie in [0, 1) and sum below 1.
type GridSpec struct {
	Rows   int     `json:"rows" bson:"rows"`
	Cols   int     `json:"cols" bson:"cols"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	HeaderFrac float64 `json:"header_frac,omitempty" bson:"header_frac,omitempty"`
	FooterFrac float64 `json:"footer_frac,omitempty" bson:"footer_frac,omitempty"`
	StepFrac   float64 `json:"step_frac,omitempty" bson:"step_frac,omitempty"`
}

// =============================================================================
// NodeSpec - Diagram Node
// =============================================================================

// NodeSpec describes a single box in the diagram.
//
// Exactly one placement mode must be active (see package documentation).
// Pointer fields distinguish "absent" from a legitimate zero index.
type NodeSpec struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Icon  string `json:"icon,omitempty" bson:"icon,omitempty"`   // Icon asset key (resolved externally)

	// Outer-grid placement.
	Row     *int `json:"row,omitempty" bson:"row,omitempty"`
	Col     *int `json:"col,omitempty" bson:"col,omitempty"`
	RowSpan int  `json:"row_span,omitempty" bson:"row_span,omitempty"` // default 1
	ColSpan int  `json:"col_span,omitempty" bson:"col_span,omitempty"` // default 1

	// Inner-container placement.
	Container string `json:"container,omitempty" bson:"container,omitempty"`
	Slot      *int   `json:"slot,omitempty" bson:"slot,omitempty"`

	// Alignment to another container's inner column (y from Row above).
	AlignContainer string `json:"align_container,omitempty" bson:"align_container,omitempty"`
	AlignSlot      *int   `json:"align_slot,omitempty" bson:"align_slot,omitempty"`

	// Size overrides as fractions of the relevant cell dimensions.
	// Zero means "use the default for the placement mode".
	WidthFrac  float64 `json:"width_frac,omitempty" bson:"width_frac,omitempty"`
	HeightFrac float64 `json:"height_frac,omitempty" bson:"height_frac,omitempty"`
}

// PlacementMode identifies how a node is positioned.
type PlacementMode int

// Placement modes, mutually exclusive per node.
const (
	PlaceOuter PlacementMode = iota
	PlaceInContainer
	PlaceAligned
	PlaceInvalid
)

// Placement returns the active placement mode, or PlaceInvalid when the
// present fields do not select exactly one mode.
func (n *NodeSpec) Placement() PlacementMode {
	inContainer := n.Container != ""
	aligned := n.AlignContainer != ""
	outer := n.Row != nil && n.Col != nil

	switch {
	case inContainer && !aligned && n.Row == nil && n.Col == nil:
		return PlaceInContainer
	case aligned && !inContainer && n.Row != nil && n.Col == nil:
		return PlaceAligned
	case outer && !inContainer && !aligned:
		return PlaceOuter
	}
	return PlaceInvalid
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *NodeSpec) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// ContainerSpec - Grouping Box With Inner Grid
// =============================================================================

// ContainerSpec describes a labeled grouping box spanning a range of outer
// grid cells. Member nodes are placed on its inner single-row grid of Slots
// equal-width columns.
type ContainerSpec struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`

	Row      int  `json:"row" bson:"row"`                             // first spanned row
	RowEnd   *int `json:"row_end,omitempty" bson:"row_end,omitempty"` // inclusive, defaults to Row
	ColStart int  `json:"col_start" bson:"col_start"`                 // inclusive
	ColEnd   int  `json:"col_end" bson:"col_end"`                     // inclusive

	Slots int `json:"slots" bson:"slots"` // inner column count, >= 1
}

// LastRow returns the inclusive final spanned row.
func (c *ContainerSpec) LastRow() int {
	if c.RowEnd != nil {
		return *c.RowEnd
	}
	return c.Row
}

// DisplayLabel returns the label if set, otherwise the ID.
func (c *ContainerSpec) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// =============================================================================
// ConnectionSpec - Arrow Between Elements
// =============================================================================

// Endpoint references one end of a connection: either a node by id, or a
// container edge.
type Endpoint struct {
	Node      string `json:"node,omitempty" bson:"node,omitempty"`
	Container string `json:"container,omitempty" bson:"container,omitempty"`
	Edge      Edge   `json:"edge,omitempty" bson:"edge,omitempty"` // container endpoints only
}

// IsContainer reports whether the endpoint references a container edge.
func (e Endpoint) IsContainer() bool { return e.Container != "" }

// Key returns the deterministic identity fragment for this endpoint.
// Container endpoints render as "container:<id>:<edge>".
func (e Endpoint) Key() string {
	if e.IsContainer() {
		return fmt.Sprintf("container:%s:%s", e.Container, e.Edge)
	}
	return e.Node
}

// Offset is a relative displacement in canvas units.
type Offset struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Waypoint is an absolute canvas coordinate on a manually routed path.
type Waypoint struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// ConnectionSpec describes an arrow between two endpoints.
//
// When FromEdge/ToEdge are empty the exit/entry edges are inferred from the
// relative positions of the resolved endpoints. When Waypoints are supplied
// they take precedence over automatic routing and are spliced verbatim
// between the two resolved anchor points.
type ConnectionSpec struct {
	ID string `json:"id,omitempty" bson:"id,omitempty"` // optional explicit identity

	From Endpoint `json:"from" bson:"from"`
	To   Endpoint `json:"to" bson:"to"`

	FromEdge Edge `json:"from_edge,omitempty" bson:"from_edge,omitempty"`
	ToEdge   Edge `json:"to_edge,omitempty" bson:"to_edge,omitempty"`

	Waypoints []Waypoint `json:"waypoints,omitempty" bson:"waypoints,omitempty"`

	Label       string `json:"label,omitempty" bson:"label,omitempty"`
	LabelOffset Offset `json:"label_offset,omitempty" bson:"label_offset,omitempty"`
}

// Key returns the connection's identity: the explicit ID when given,
// otherwise "<fromKey>-><toKey>" derived from the endpoints.
//
// This is the join key between resolved geometry and evaluated timeline
// state, so both subsystems call this one function.
func (c *ConnectionSpec) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.From.Key() + "->" + c.To.Key()
}
