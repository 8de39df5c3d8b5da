package scene

import (
	"github.com/flowmotion/flowmotion/pkg/errors"
)

// Validate checks structural invariants and every cross-reference in the
// scene. It fails fast on the first violation: a scene that references an
// unknown element must never be partially resolved.
func (s *Scene) Validate() error {
	if err := s.validateGrid(); err != nil {
		return err
	}

	containers := make(map[string]*ContainerSpec, len(s.Containers))
	for i := range s.Containers {
		c := &s.Containers[i]
		if err := s.validateContainer(c, containers); err != nil {
			return err
		}
		containers[c.ID] = c
	}

	nodes := make(map[string]bool, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if err := s.validateNode(n, nodes, containers); err != nil {
			return err
		}
		nodes[n.ID] = true
	}

	connKeys := make(map[string]bool, len(s.Connections))
	for i := range s.Connections {
		c := &s.Connections[i]
		if err := s.validateConnection(c, nodes, containers); err != nil {
			return err
		}
		key := c.Key()
		if connKeys[key] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate connection identity %q", key)
		}
		connKeys[key] = true
	}

	return s.validateTimeline(nodes, containers, connKeys)
}

func (s *Scene) validateGrid() error {
	g := s.Grid
	if g.Rows < 1 || g.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidGrid, "grid must have at least 1 row and 1 column (got %dx%d)", g.Rows, g.Cols)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "canvas size must be positive (got %.0fx%.0f)", g.Width, g.Height)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"header", g.HeaderFrac},
		{"footer", g.FooterFrac},
		{"step indicator", g.StepFrac},
	} {
		if err := errors.ValidateFraction(f.name, f.v); err != nil {
			return err
		}
	}
	if sum := g.HeaderFrac + g.FooterFrac + g.StepFrac; sum >= 1 {
		return errors.New(errors.ErrCodeInvalidGrid, "reservation fractions sum to %.3f, must be below 1", sum)
	}
	return nil
}

func (s *Scene) validateContainer(c *ContainerSpec, seen map[string]*ContainerSpec) error {
	if err := errors.ValidateElementID(c.ID); err != nil {
		return err
	}
	if seen[c.ID] != nil {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate container id %q", c.ID)
	}
	g := s.Grid
	if c.Row < 0 || c.Row >= g.Rows {
		return errors.New(errors.ErrCodeInvalidScene, "container %q row %d outside grid", c.ID, c.Row)
	}
	if last := c.LastRow(); last < c.Row || last >= g.Rows {
		return errors.New(errors.ErrCodeInvalidScene, "container %q row range [%d, %d] invalid", c.ID, c.Row, last)
	}
	if c.ColStart < 0 || c.ColEnd < c.ColStart || c.ColEnd >= g.Cols {
		return errors.New(errors.ErrCodeInvalidScene, "container %q column range [%d, %d] outside grid", c.ID, c.ColStart, c.ColEnd)
	}
	if c.Slots < 1 {
		return errors.New(errors.ErrCodeInvalidScene, "container %q must have at least 1 slot", c.ID)
	}
	return nil
}

func (s *Scene) validateNode(n *NodeSpec, seen map[string]bool, containers map[string]*ContainerSpec) error {
	if err := errors.ValidateElementID(n.ID); err != nil {
		return err
	}
	if seen[n.ID] {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate node id %q", n.ID)
	}
	if containers[n.ID] != nil {
		return errors.New(errors.ErrCodeInvalidScene, "node id %q collides with a container id", n.ID)
	}
	if n.WidthFrac < 0 || n.WidthFrac > 1 || n.HeightFrac < 0 || n.HeightFrac > 1 {
		return errors.New(errors.ErrCodeInvalidScene, "node %q size overrides must lie in (0, 1]", n.ID)
	}

	g := s.Grid
	switch n.Placement() {
	case PlaceOuter:
		row, col := *n.Row, *n.Col
		rowSpan, colSpan := max(n.RowSpan, 1), max(n.ColSpan, 1)
		if row < 0 || row+rowSpan > g.Rows {
			return errors.New(errors.ErrCodeInvalidScene, "node %q row span [%d, %d) outside grid", n.ID, row, row+rowSpan)
		}
		if col < 0 || col+colSpan > g.Cols {
			return errors.New(errors.ErrCodeInvalidScene, "node %q column span [%d, %d) outside grid", n.ID, col, col+colSpan)
		}

	case PlaceInContainer:
		c := containers[n.Container]
		if c == nil {
			return errors.New(errors.ErrCodeUnknownContainer, "node %q placed in unknown container %q", n.ID, n.Container)
		}
		if n.Slot == nil {
			return errors.New(errors.ErrCodeInvalidScene, "node %q in container %q requires a slot", n.ID, n.Container)
		}
		if *n.Slot < 0 || *n.Slot >= c.Slots {
			return errors.New(errors.ErrCodeInvalidScene, "node %q slot %d outside container %q (%d slots)", n.ID, *n.Slot, c.ID, c.Slots)
		}

	case PlaceAligned:
		c := containers[n.AlignContainer]
		if c == nil {
			return errors.New(errors.ErrCodeUnknownContainer, "node %q aligned to unknown container %q", n.ID, n.AlignContainer)
		}
		if n.AlignSlot == nil {
			return errors.New(errors.ErrCodeInvalidScene, "node %q aligned to container %q requires align_slot", n.ID, n.AlignContainer)
		}
		if *n.AlignSlot < 0 || *n.AlignSlot >= c.Slots {
			return errors.New(errors.ErrCodeInvalidScene, "node %q align_slot %d outside container %q (%d slots)", n.ID, *n.AlignSlot, c.ID, c.Slots)
		}
		if *n.Row < 0 || *n.Row >= g.Rows {
			return errors.New(errors.ErrCodeInvalidScene, "node %q row %d outside grid", n.ID, *n.Row)
		}

	default:
		return errors.New(errors.ErrCodeInvalidScene,
			"node %q must use exactly one placement mode (grid row/col, container+slot, or align_container+align_slot+row)", n.ID)
	}
	return nil
}

func (s *Scene) validateConnection(c *ConnectionSpec, nodes map[string]bool, containers map[string]*ContainerSpec) error {
	if c.ID != "" {
		if err := errors.ValidateElementID(c.ID); err != nil {
			return err
		}
	}
	for _, ep := range []struct {
		name string
		e    Endpoint
	}{
		{"from", c.From},
		{"to", c.To},
	} {
		e := ep.e
		switch {
		case e.Node != "" && e.Container != "":
			return errors.New(errors.ErrCodeInvalidScene, "connection %s endpoint must name a node or a container edge, not both", ep.name)
		case e.Node != "":
			if !nodes[e.Node] {
				return errors.New(errors.ErrCodeUnknownNode, "connection %s endpoint references unknown node %q", ep.name, e.Node)
			}
		case e.Container != "":
			if containers[e.Container] == nil {
				return errors.New(errors.ErrCodeUnknownContainer, "connection %s endpoint references unknown container %q", ep.name, e.Container)
			}
			if !e.Edge.Valid() {
				return errors.New(errors.ErrCodeInvalidScene, "connection %s endpoint on container %q requires a valid edge", ep.name, e.Container)
			}
		default:
			return errors.New(errors.ErrCodeInvalidScene, "connection %s endpoint is empty", ep.name)
		}
	}
	if c.FromEdge != "" && !c.FromEdge.Valid() {
		return errors.New(errors.ErrCodeInvalidScene, "connection %q has invalid from_edge %q", c.Key(), c.FromEdge)
	}
	if c.ToEdge != "" && !c.ToEdge.Valid() {
		return errors.New(errors.ErrCodeInvalidScene, "connection %q has invalid to_edge %q", c.Key(), c.ToEdge)
	}
	return nil
}

func (s *Scene) validateTimeline(nodes map[string]bool, containers map[string]*ContainerSpec, connKeys map[string]bool) error {
	var dims, reveals int
	for i := range s.Timeline {
		p := &s.Timeline[i]
		if !p.Kind.Valid() {
			return errors.New(errors.ErrCodeInvalidTimeline, "phase %d has unknown kind %q", i, p.Kind)
		}
		if p.Duration < 0 {
			return errors.New(errors.ErrCodeInvalidTimeline, "phase %d has negative duration", i)
		}
		switch p.Kind {
		case PhaseSequence:
			if len(p.Steps) == 0 {
				return errors.New(errors.ErrCodeInvalidTimeline, "sequence phase %d has no steps", i)
			}
			for j := range p.Steps {
				if err := s.validateStep(&p.Steps[j], nodes, containers, connKeys); err != nil {
					return err
				}
			}
		case PhaseDim:
			dims++
		case PhaseReveal:
			reveals++
		}
		if len(p.Steps) > 0 && p.Kind != PhaseSequence {
			return errors.New(errors.ErrCodeInvalidTimeline, "%s phase %d cannot carry steps", p.Kind, i)
		}
	}
	// The bookend model assumes a single dim/reveal pair wrapping the
	// interior sequence.
	if dims > 1 {
		return errors.New(errors.ErrCodeInvalidTimeline, "timeline has %d dim phases, at most 1 allowed", dims)
	}
	if reveals > 1 {
		return errors.New(errors.ErrCodeInvalidTimeline, "timeline has %d reveal phases, at most 1 allowed", reveals)
	}
	return nil
}

func (s *Scene) validateStep(st *Step, nodes map[string]bool, containers map[string]*ContainerSpec, connKeys map[string]bool) error {
	if !st.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidTimeline, "step has unknown kind %q", st.Kind)
	}
	if st.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidTimeline, "%s step has negative duration", st.Kind)
	}
	if st.Label != nil && st.Label.Ordinal < 1 {
		return errors.New(errors.ErrCodeInvalidTimeline, "%s step label ordinal must be >= 1 (got %d)", st.Kind, st.Label.Ordinal)
	}

	switch st.Kind {
	case StepFillBox, StepDimBox:
		if !nodes[st.Node] {
			return errors.New(errors.ErrCodeUnknownNode, "%s step targets unknown node %q", st.Kind, st.Node)
		}
	case StepDrawLine:
		if !connKeys[st.Connection] {
			return errors.New(errors.ErrCodeUnknownConnection, "drawLine step targets unknown connection %q", st.Connection)
		}
	case StepShowContainer:
		if containers[st.Container] == nil {
			return errors.New(errors.ErrCodeUnknownContainer, "showContainer step targets unknown container %q", st.Container)
		}
	case StepParallel:
		if len(st.Children) == 0 {
			return errors.New(errors.ErrCodeInvalidTimeline, "parallel step has no children")
		}
		for i := range st.Children {
			if err := s.validateStep(&st.Children[i], nodes, containers, connKeys); err != nil {
				return err
			}
		}
	}
	return nil
}
