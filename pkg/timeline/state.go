package timeline

import (
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// =============================================================================
// Output Types
// =============================================================================

// ElementState is the animation state of one element at a queried frame.
// All values lie in [0, 1].
type ElementState struct {
	Brightness   float64 `json:"brightness" bson:"brightness"`
	DrawProgress float64 `json:"draw_progress" bson:"draw_progress"`
	Opacity      float64 `json:"opacity" bson:"opacity"`
}

// StepState is the active step indicator entry.
type StepState struct {
	Ordinal  int     `json:"ordinal" bson:"ordinal"`
	Text     string  `json:"text" bson:"text"`
	Progress float64 `json:"progress" bson:"progress"`
}

// FrameState is the complete animation state at one queried frame.
// A nil *FrameState signals still-image mode: callers render every element
// at full opacity with no draw-in animation.
type FrameState struct {
	Frame    int                     `json:"frame" bson:"frame"`
	Elements map[string]ElementState `json:"elements" bson:"elements"`

	// Floor is the global brightness/draw minimum imposed by bookend phases.
	Floor float64 `json:"floor" bson:"floor"`

	// GlobalOpacity is the whole-canvas opacity driven by the dim phase.
	GlobalOpacity float64 `json:"global_opacity" bson:"global_opacity"`

	Step             *StepState `json:"step,omitempty" bson:"step,omitempty"`
	StepCount        int        `json:"step_count" bson:"step_count"`
	IndicatorOpacity float64    `json:"indicator_opacity" bson:"indicator_opacity"`
}

// =============================================================================
// Element Universe
// =============================================================================

// ContainerRef names a container and its member nodes; a container's
// brightness also rises with any lit member.
type ContainerRef struct {
	ID      string
	Members []string
}

// Elements is the universe of animatable element ids, extracted once from a
// scene. Connection ids come from scene.ConnectionSpec.Key, the same
// identity the geometry resolver emits.
type Elements struct {
	Nodes       []string
	Containers  []ContainerRef
	Connections []string
}

// ElementsFromScene extracts the element universe in document order.
func ElementsFromScene(s *scene.Scene) Elements {
	el := Elements{
		Nodes:       make([]string, len(s.Nodes)),
		Containers:  make([]ContainerRef, len(s.Containers)),
		Connections: s.ConnectionKeys(),
	}
	for i := range s.Nodes {
		el.Nodes[i] = s.Nodes[i].ID
	}
	for i := range s.Containers {
		el.Containers[i] = ContainerRef{
			ID:      s.Containers[i].ID,
			Members: s.ContainerMembers(s.Containers[i].ID),
		}
	}
	return el
}

// =============================================================================
// Per-Kind Dim Floors
// =============================================================================

// Residual opacity of fully dimmed elements. Lines nearly vanish; boxes and
// containers stay faintly visible so the diagram's structure never
// disappears entirely.
const (
	nodeDimFloor      = 0.25
	lineDimFloor      = 0.12
	containerDimFloor = 0.18
)

// opacityFor maps brightness to opacity using the element kind's dim floor.
func opacityFor(brightness, dimFloor float64) float64 {
	return dimFloor + (1-dimFloor)*brightness
}
