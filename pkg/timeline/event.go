package timeline

import (
	"math"

	"github.com/flowmotion/flowmotion/pkg/scene"
)

// =============================================================================
// Actions and Events
// =============================================================================

// Action is the flattened action kind of an event. Phase-sourced events use
// the phase kinds (hold, dim, reveal); step-sourced events use the step
// kinds.
type Action string

// Flattened action kinds.
const (
	ActionHold          Action = "hold"
	ActionDim           Action = "dim"
	ActionReveal        Action = "reveal"
	ActionFillBox       Action = "fillBox"
	ActionDimBox        Action = "dimBox"
	ActionDrawLine      Action = "drawLine"
	ActionShowContainer Action = "showContainer"
)

// IsAnimation reports whether the action contributes to the animation-only
// event list (everything except pauses and bookend phases).
func (a Action) IsAnimation() bool {
	switch a {
	case ActionFillBox, ActionDimBox, ActionDrawLine, ActionShowContainer:
		return true
	}
	return false
}

// Event is one flattened timeline interval in absolute frames.
type Event struct {
	Action    Action           `json:"action"`
	FromPhase bool             `json:"from_phase,omitempty"` // top-level phase vs nested step
	Target    string           `json:"target,omitempty"`     // element id, empty for holds/bookends
	Start     int              `json:"start"`                // absolute frame
	Duration  int              `json:"duration"`             // frames, >= 1
	Label     *scene.StepLabel `json:"label,omitempty"`
	Group     string           `json:"group,omitempty"`
}

// End returns the first frame after the event.
func (e Event) End() int { return e.Start + e.Duration }

// =============================================================================
// Default Durations - Single Source of Truth
// =============================================================================

// Default durations in seconds. Box fills hold longer than line draws and
// container reveals so the viewer's eye has time to settle on each box.
const (
	DefaultFillSec      = 0.8
	DefaultDimBoxSec    = 0.8
	DefaultLineSec      = 0.4
	DefaultContainerSec = 0.4
	DefaultStepHoldSec  = 0.5
	DefaultPhaseHoldSec = 1.0
	DefaultDimSec       = 1.0
	DefaultRevealSec    = 1.0

	// FadeOutSec is the fixed fade-out ramp length.
	FadeOutSec = 0.4

	// SettleGraceSec is the pause between the last animation event and the
	// final connection settlement ramp.
	SettleGraceSec = 0.5

	// IndicatorFadeSec is the step indicator's fade-out window, ending at
	// the settlement instant.
	IndicatorFadeSec = 1.0
)

// Frames converts a duration in seconds to whole frames at the given frame
// rate, never below one frame.
func Frames(sec, fps float64) int {
	f := int(math.Round(sec * fps))
	if f < 1 {
		return 1
	}
	return f
}

func defaultPhaseSec(k scene.PhaseKind) float64 {
	switch k {
	case scene.PhaseDim:
		return DefaultDimSec
	case scene.PhaseReveal:
		return DefaultRevealSec
	default:
		return DefaultPhaseHoldSec
	}
}

func defaultStepSec(k scene.StepKind) float64 {
	switch k {
	case scene.StepFillBox:
		return DefaultFillSec
	case scene.StepDimBox:
		return DefaultDimBoxSec
	case scene.StepDrawLine:
		return DefaultLineSec
	case scene.StepShowContainer:
		return DefaultContainerSec
	default:
		return DefaultStepHoldSec
	}
}
