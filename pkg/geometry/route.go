package geometry

import (
	"math"

	"github.com/flowmotion/flowmotion/pkg/errors"
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// straightEps is the tolerance (in canvas units) under which two anchor
// coordinates count as sharing an axis, producing a straight 2-point route.
const straightEps = 1.0

// resolveConnection routes one connection between its resolved endpoints.
func (d *Diagram) resolveConnection(c *scene.ConnectionSpec) (ConnectionGeometry, error) {
	fromRect, err := d.endpointRect(c.From)
	if err != nil {
		return ConnectionGeometry{}, err
	}
	toRect, err := d.endpointRect(c.To)
	if err != nil {
		return ConnectionGeometry{}, err
	}

	fromEdge, toEdge := inferEdges(fromRect, toRect)
	if c.From.IsContainer() && c.From.Edge != "" {
		fromEdge = c.From.Edge
	}
	if c.To.IsContainer() && c.To.Edge != "" {
		toEdge = c.To.Edge
	}
	if c.FromEdge != "" {
		fromEdge = c.FromEdge
	}
	if c.ToEdge != "" {
		toEdge = c.ToEdge
	}

	// Container edge anchors take their y from the opposite endpoint's
	// center so lines meet the container wall at the natural height.
	from := anchorFor(fromRect, fromEdge, c.From.IsContainer(), toRect.Center().Y)
	to := anchorFor(toRect, toEdge, c.To.IsContainer(), fromRect.Center().Y)

	var points []Point
	if len(c.Waypoints) > 0 {
		points = make([]Point, 0, len(c.Waypoints)+2)
		points = append(points, from)
		for _, wp := range c.Waypoints {
			points = append(points, Point{X: wp.X, Y: wp.Y})
		}
		points = append(points, to)
	} else {
		points = autoRoute(from, to, fromEdge, toEdge)
	}
	points = dedupe(points)
	if len(points) < 2 {
		// Coincident endpoints: keep the geometry entry but mark the path
		// degenerate so renderers skip it.
		points = nil
	}

	geo := ConnectionGeometry{
		ID:     c.Key(),
		Points: points,
		Label:  c.Label,
	}
	if len(points) >= 2 {
		mid := pathMidpoint(points)
		geo.LabelPos = Point{X: mid.X + c.LabelOffset.X, Y: mid.Y + c.LabelOffset.Y}
	}
	return geo, nil
}

// endpointRect returns the resolved footprint of a connection endpoint.
func (d *Diagram) endpointRect(e scene.Endpoint) (Rect, error) {
	if e.IsContainer() {
		c, ok := d.Containers[e.Container]
		if !ok {
			return Rect{}, errors.New(errors.ErrCodeUnknownContainer, "connection endpoint references unknown container %q", e.Container)
		}
		return c.Rect, nil
	}
	n, ok := d.Nodes[e.Node]
	if !ok {
		return Rect{}, errors.New(errors.ErrCodeUnknownNode, "connection endpoint references unknown node %q", e.Node)
	}
	return n.Rect, nil
}

// inferEdges picks exit and entry edges from the sign of the dominant axis
// delta between the endpoint centers. A dominant horizontal delta exits
// left/right; otherwise top/bottom.
func inferEdges(from, to Rect) (scene.Edge, scene.Edge) {
	dx := to.Center().X - from.Center().X
	dy := to.Center().Y - from.Center().Y

	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return scene.EdgeRight, scene.EdgeLeft
		}
		return scene.EdgeLeft, scene.EdgeRight
	}
	if dy >= 0 {
		return scene.EdgeBottom, scene.EdgeTop
	}
	return scene.EdgeTop, scene.EdgeBottom
}

func anchorFor(r Rect, e scene.Edge, isContainer bool, otherY float64) Point {
	if isContainer && e.IsHorizontal() {
		return r.EdgeAnchorAt(e, otherY)
	}
	return r.Anchor(e)
}

// autoRoute produces the point sequence between two anchors:
//
//   - shared axis coordinate (within 1 unit): straight 2-point line
//   - both edges horizontal: orthogonal S/L path with one vertical jog at
//     the horizontal midpoint
//   - both edges vertical: straight line
//   - mixed edge types: fall back to a vertical-midpoint jog
func autoRoute(from, to Point, fromEdge, toEdge scene.Edge) []Point {
	if math.Abs(from.Y-to.Y) <= straightEps || math.Abs(from.X-to.X) <= straightEps {
		return []Point{from, to}
	}

	switch {
	case fromEdge.IsHorizontal() && toEdge.IsHorizontal():
		midX := (from.X + to.X) / 2
		return []Point{from, {X: midX, Y: from.Y}, {X: midX, Y: to.Y}, to}
	case !fromEdge.IsHorizontal() && !toEdge.IsHorizontal():
		return []Point{from, to}
	default:
		midY := (from.Y + to.Y) / 2
		return []Point{from, {X: from.X, Y: midY}, {X: to.X, Y: midY}, to}
	}
}

// dedupe removes consecutive coincident points.
func dedupe(pts []Point) []Point {
	out := pts[:0]
	for _, p := range pts {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Abs(last.X-p.X) < 1e-9 && math.Abs(last.Y-p.Y) < 1e-9 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// pathMidpoint returns the point halfway along the polyline's total length.
func pathMidpoint(pts []Point) Point {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += dist(pts[i-1], pts[i])
	}
	if total == 0 {
		return pts[0]
	}

	half := total / 2
	for i := 1; i < len(pts); i++ {
		seg := dist(pts[i-1], pts[i])
		if half <= seg {
			t := half / seg
			return Point{
				X: pts[i-1].X + t*(pts[i].X-pts[i-1].X),
				Y: pts[i-1].Y + t*(pts[i].Y-pts[i-1].Y),
			}
		}
		half -= seg
	}
	return pts[len(pts)-1]
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
