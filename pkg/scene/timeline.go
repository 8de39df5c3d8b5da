package scene

// =============================================================================
// Timeline - Nested Phase/Step Tree
// =============================================================================

// PhaseKind discriminates top-level timeline phases.
type PhaseKind string

// Phase kinds.
const (
	PhaseHold     PhaseKind = "hold"     // pause, everything fully visible
	PhaseDim      PhaseKind = "dim"      // global visibility ramps down (transition cue)
	PhaseReveal   PhaseKind = "reveal"   // global visibility ramps back up
	PhaseSequence PhaseKind = "sequence" // ordered list of steps
)

// Valid reports whether k is a known phase kind.
func (k PhaseKind) Valid() bool {
	switch k {
	case PhaseHold, PhaseDim, PhaseReveal, PhaseSequence:
		return true
	}
	return false
}

// Phase is one top-level entry of a scene timeline. The Kind field
// discriminates which of the optional fields apply:
//
//	hold, dim, reveal: Duration only
//	sequence:          Steps only
//
// Durations are in seconds; zero means "use the per-kind default".
type Phase struct {
	Kind     PhaseKind `json:"kind" bson:"kind"`
	Duration float64   `json:"duration,omitempty" bson:"duration,omitempty"`
	Steps    []Step    `json:"steps,omitempty" bson:"steps,omitempty"`
}

// =============================================================================
// Step - Sequence Entry
// =============================================================================

// StepKind discriminates actions inside a sequence phase.
type StepKind string

// Step kinds.
const (
	StepFillBox       StepKind = "fillBox"       // highlight a node
	StepDimBox        StepKind = "dimBox"        // force a node's highlight back down
	StepDrawLine      StepKind = "drawLine"      // draw in a connection
	StepShowContainer StepKind = "showContainer" // reveal a container outline
	StepHold          StepKind = "hold"          // pause inside the sequence
	StepParallel      StepKind = "parallel"      // children all start together
)

// Valid reports whether k is a known step kind.
func (k StepKind) Valid() bool {
	switch k {
	case StepFillBox, StepDimBox, StepDrawLine, StepShowContainer, StepHold, StepParallel:
		return true
	}
	return false
}

// IsAnimation reports whether the step kind contributes a per-element
// animation envelope (as opposed to a pause or a structural grouping).
func (k StepKind) IsAnimation() bool {
	switch k {
	case StepFillBox, StepDimBox, StepDrawLine, StepShowContainer:
		return true
	}
	return false
}

// StepLabel is the ordinal + text shown by the step progress indicator.
type StepLabel struct {
	Ordinal int    `json:"ordinal" bson:"ordinal"`
	Text    string `json:"text" bson:"text"`
}

// Step is one timed action inside a sequence phase. The Kind field
// discriminates which target field applies:
//
//	fillBox, dimBox:  Node
//	drawLine:         Connection (a connection key, see ConnectionSpec.Key)
//	showContainer:    Container
//	hold:             no target
//	parallel:         Children (each child starts at the parallel's instant)
//
// Durations are in seconds; zero means "use the per-kind default". Group is a
// free-form synchronization key: all steps sharing a group fade out together.
// Children of a parallel step inherit its Group unless they set their own.
type Step struct {
	Kind StepKind `json:"kind" bson:"kind"`

	Node       string `json:"node,omitempty" bson:"node,omitempty"`
	Connection string `json:"connection,omitempty" bson:"connection,omitempty"`
	Container  string `json:"container,omitempty" bson:"container,omitempty"`

	Duration float64    `json:"duration,omitempty" bson:"duration,omitempty"`
	Label    *StepLabel `json:"label,omitempty" bson:"label,omitempty"`
	Group    string     `json:"group,omitempty" bson:"group,omitempty"`

	Children []Step `json:"children,omitempty" bson:"children,omitempty"`
}

// Target returns the element id the step animates, or "" for hold/parallel.
func (s *Step) Target() string {
	switch s.Kind {
	case StepFillBox, StepDimBox:
		return s.Node
	case StepDrawLine:
		return s.Connection
	case StepShowContainer:
		return s.Container
	}
	return ""
}
