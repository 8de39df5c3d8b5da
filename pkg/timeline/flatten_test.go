package timeline

import (
	"testing"

	"github.com/flowmotion/flowmotion/pkg/scene"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		name string
		sec  float64
		fps  float64
		want int
	}{
		{name: "fill at 30fps", sec: 0.8, fps: 30, want: 24},
		{name: "line at 30fps", sec: 0.4, fps: 30, want: 12},
		{name: "step hold at 30fps", sec: 0.5, fps: 30, want: 15},
		{name: "rounds to nearest", sec: 0.05, fps: 30, want: 2},
		{name: "never below one frame", sec: 0.01, fps: 30, want: 1},
		{name: "zero clamps to one", sec: 0, fps: 30, want: 1},
		{name: "other frame rate", sec: 0.8, fps: 60, want: 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Frames(tt.sec, tt.fps); got != tt.want {
				t.Errorf("Frames(%v, %v) = %d, want %d", tt.sec, tt.fps, got, tt.want)
			}
		})
	}
}

func TestFlattenSequenceDefaults(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseSequence, Steps: []scene.Step{
			{Kind: scene.StepFillBox, Node: "a"},
			{Kind: scene.StepDrawLine, Connection: "a->b"},
			{Kind: scene.StepShowContainer, Container: "pool"},
			{Kind: scene.StepHold},
			{Kind: scene.StepDimBox, Node: "a"},
		}},
	}
	events := Flatten(phases, 30)

	want := []Event{
		{Action: ActionFillBox, Target: "a", Start: 0, Duration: 24},
		{Action: ActionDrawLine, Target: "a->b", Start: 24, Duration: 12},
		{Action: ActionShowContainer, Target: "pool", Start: 36, Duration: 12},
		{Action: ActionHold, Target: "", Start: 48, Duration: 15},
		{Action: ActionDimBox, Target: "a", Start: 63, Duration: 24},
	}
	if len(events) != len(want) {
		t.Fatalf("Flatten() = %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		got := events[i]
		if got.Action != w.Action || got.Target != w.Target || got.Start != w.Start || got.Duration != w.Duration {
			t.Errorf("events[%d] = %+v, want %+v", i, got, w)
		}
		if got.FromPhase {
			t.Errorf("events[%d].FromPhase = true, want false for step-sourced events", i)
		}
	}
}

func TestFlattenExplicitDurations(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseSequence, Steps: []scene.Step{
			{Kind: scene.StepFillBox, Node: "a", Duration: 2.0},
			{Kind: scene.StepDrawLine, Connection: "a->b", Duration: 0.1},
		}},
	}
	events := Flatten(phases, 30)

	if events[0].Duration != 60 {
		t.Errorf("explicit 2s fill = %d frames, want 60", events[0].Duration)
	}
	if events[1].Start != 60 || events[1].Duration != 3 {
		t.Errorf("line = start %d dur %d, want start 60 dur 3", events[1].Start, events[1].Duration)
	}
}

func TestFlattenPhaseEvents(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseDim},
		{Kind: scene.PhaseSequence, Steps: []scene.Step{{Kind: scene.StepFillBox, Node: "a"}}},
		{Kind: scene.PhaseHold, Duration: 0.5},
		{Kind: scene.PhaseReveal},
	}
	events := Flatten(phases, 30)

	want := []Event{
		{Action: ActionDim, FromPhase: true, Start: 0, Duration: 30},
		{Action: ActionFillBox, Target: "a", Start: 30, Duration: 24},
		{Action: ActionHold, FromPhase: true, Start: 54, Duration: 15},
		{Action: ActionReveal, FromPhase: true, Start: 69, Duration: 30},
	}
	if len(events) != len(want) {
		t.Fatalf("Flatten() = %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		got := events[i]
		if got.Action != w.Action || got.FromPhase != w.FromPhase || got.Start != w.Start || got.Duration != w.Duration {
			t.Errorf("events[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestFlattenParallel(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseSequence, Steps: []scene.Step{
			{Kind: scene.StepParallel, Children: []scene.Step{
				{Kind: scene.StepFillBox, Node: "a"},
				{Kind: scene.StepDrawLine, Connection: "a->b"},
			}},
			{Kind: scene.StepFillBox, Node: "b"},
		}},
	}
	events := Flatten(phases, 30)

	if len(events) != 3 {
		t.Fatalf("Flatten() = %d events, want 3", len(events))
	}
	// Both children share the parallel's start frame.
	if events[0].Start != 0 || events[1].Start != 0 {
		t.Errorf("parallel children start at %d and %d, want 0 and 0", events[0].Start, events[1].Start)
	}
	// The cursor advances by the longest child (the 24-frame fill).
	if events[2].Start != 24 {
		t.Errorf("next step starts at %d, want 24", events[2].Start)
	}
}

func TestFlattenParallelGroupInheritance(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseSequence, Steps: []scene.Step{
			{Kind: scene.StepParallel, Group: "wave", Children: []scene.Step{
				{Kind: scene.StepFillBox, Node: "a"},
				{Kind: scene.StepFillBox, Node: "b", Group: "own"},
			}},
		}},
	}
	events := Flatten(phases, 30)

	if events[0].Group != "wave" {
		t.Errorf("child without group = %q, want inherited %q", events[0].Group, "wave")
	}
	if events[1].Group != "own" {
		t.Errorf("child with own group = %q, want %q", events[1].Group, "own")
	}
}

func TestFlattenLabelsCarried(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseSequence, Steps: []scene.Step{
			{Kind: scene.StepFillBox, Node: "a", Label: &scene.StepLabel{Ordinal: 1, Text: "Request arrives"}},
		}},
	}
	events := Flatten(phases, 30)

	if events[0].Label == nil || events[0].Label.Ordinal != 1 || events[0].Label.Text != "Request arrives" {
		t.Errorf("Label = %+v, want ordinal 1 %q", events[0].Label, "Request arrives")
	}
}

func TestTotalFrames(t *testing.T) {
	phases := []scene.Phase{
		{Kind: scene.PhaseSequence, Steps: []scene.Step{
			{Kind: scene.StepFillBox, Node: "a"},
			{Kind: scene.StepDrawLine, Connection: "a->b"},
		}},
		{Kind: scene.PhaseHold},
	}
	if got := TotalFrames(phases, 30); got != 66 {
		t.Errorf("TotalFrames() = %d, want 66", got)
	}
	if got := TotalFrames(nil, 30); got != 0 {
		t.Errorf("TotalFrames(nil) = %d, want 0", got)
	}
}
