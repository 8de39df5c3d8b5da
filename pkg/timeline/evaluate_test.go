package timeline

import (
	"math"
	"reflect"
	"testing"

	"github.com/flowmotion/flowmotion/pkg/scene"
)

const eps = 1e-9

func intPtr(v int) *int { return &v }

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// chainScene builds a 1xN grid of nodes with a sequence of fillBox steps,
// one per node, plus one connection between the first two nodes.
func chainScene(steps ...scene.Step) scene.Scene {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	s := scene.Scene{
		Grid: scene.GridSpec{Rows: 1, Cols: 6, Width: 1920, Height: 1080},
		Connections: []scene.ConnectionSpec{
			{From: scene.Endpoint{Node: "a"}, To: scene.Endpoint{Node: "b"}},
		},
		Timeline: []scene.Phase{{Kind: scene.PhaseSequence, Steps: steps}},
	}
	for i, id := range ids {
		s.Nodes = append(s.Nodes, scene.NodeSpec{ID: id, Row: intPtr(0), Col: intPtr(i)})
	}
	return s
}

func fill(node string) scene.Step { return scene.Step{Kind: scene.StepFillBox, Node: node} }

func frameAt(t *testing.T, e *Evaluator, frame int) *FrameState {
	t.Helper()
	st := e.Frame(frame)
	if st == nil {
		t.Fatalf("Frame(%d) = nil, want state", frame)
	}
	return st
}

// =============================================================================
// Still Mode
// =============================================================================

func TestEvaluatorStillMode(t *testing.T) {
	s := chainScene(fill("a"))

	if st := NewEvaluator(&s, 1).Frame(0); st != nil {
		t.Errorf("Frame() at fps 1 = %+v, want nil", st)
	}

	s.Timeline = nil
	if st := NewEvaluator(&s, 30).Frame(0); st != nil {
		t.Errorf("Frame() with empty timeline = %+v, want nil", st)
	}
}

// =============================================================================
// Envelopes and Lookahead
// =============================================================================

func TestEvaluatorFadeInHoldFadeOut(t *testing.T) {
	// Six fills of 24 frames each. The first fill's fade-out triggers when
	// the event three positions ahead completes (frame 96) and ramps down
	// over the fixed 12-frame fade.
	s := chainScene(fill("a"), fill("b"), fill("c"), fill("d"), fill("e"), fill("f"))
	e := NewEvaluator(&s, 30)

	tests := []struct {
		name  string
		frame int
		want  float64
	}{
		{name: "before start", frame: 0, want: 0},
		{name: "mid fade-in", frame: 12, want: 0.5},
		{name: "hold", frame: 60, want: 1},
		{name: "trigger instant", frame: 96, want: 1},
		{name: "mid fade-out", frame: 102, want: 0.5},
		{name: "faded", frame: 108, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := frameAt(t, e, tt.frame)
			approx(t, "a brightness", st.Elements["a"].Brightness, tt.want)
		})
	}

	// The last three fills have nothing far enough ahead to trigger on and
	// stay lit.
	st := frameAt(t, e, 400)
	approx(t, "f brightness", st.Elements["f"].Brightness, 1)

	// Draw progress never comes back down.
	approx(t, "a draw after fade", frameAt(t, e, 108).Elements["a"].DrawProgress, 1)
}

func TestEvaluatorOpacityUsesKindFloor(t *testing.T) {
	s := chainScene(fill("a"), fill("b"), fill("c"), fill("d"), fill("e"), fill("f"))
	e := NewEvaluator(&s, 30)

	// Dark node: residual 0.25. Lit node: fully opaque.
	st := frameAt(t, e, 0)
	approx(t, "dark node opacity", st.Elements["a"].Opacity, 0.25)
	st = frameAt(t, e, 24)
	approx(t, "lit node opacity", st.Elements["a"].Opacity, 1)

	// Dark line: residual 0.12.
	approx(t, "dark line opacity", frameAt(t, e, 0).Elements["a->b"].Opacity, 0.12)
}

func TestEvaluatorLineLookaheadAndSettlement(t *testing.T) {
	// Line draws look only two events ahead: the line's fade-out triggers at
	// frame 60 (end of the second fill after it). After the last animation
	// plus the grace interval every connection settles back to fully drawn.
	s := chainScene(
		scene.Step{Kind: scene.StepDrawLine, Connection: "a->b"},
		fill("b"), fill("c"), fill("d"),
	)
	e := NewEvaluator(&s, 30)

	approx(t, "line lit", frameAt(t, e, 50).Elements["a->b"].Brightness, 1)
	approx(t, "line mid fade", frameAt(t, e, 66).Elements["a->b"].Brightness, 0.5)
	approx(t, "line faded", frameAt(t, e, 72).Elements["a->b"].Brightness, 0)

	// lastAnimEnd 84 + 15 grace = settle at 99, ramping over 12 frames.
	approx(t, "pre settle", frameAt(t, e, 99).Elements["a->b"].Brightness, 0)
	approx(t, "mid settle", frameAt(t, e, 105).Elements["a->b"].Brightness, 0.5)
	st := frameAt(t, e, 111)
	approx(t, "settled brightness", st.Elements["a->b"].Brightness, 1)
	approx(t, "settled draw", st.Elements["a->b"].DrawProgress, 1)
}

// =============================================================================
// Groups
// =============================================================================

func TestEvaluatorGroupFadesTogether(t *testing.T) {
	// a and b share a group; the group adopts the latest member trigger
	// (frame 120, from b), so both fade over [120, 132].
	steps := []scene.Step{fill("a"), fill("b"), fill("c"), fill("d"), fill("e"), fill("f")}
	steps[0].Group = "wave"
	steps[1].Group = "wave"
	s := chainScene(steps...)
	e := NewEvaluator(&s, 30)

	approx(t, "a past own trigger", frameAt(t, e, 110).Elements["a"].Brightness, 1)
	st := frameAt(t, e, 126)
	approx(t, "a mid group fade", st.Elements["a"].Brightness, 0.5)
	approx(t, "b mid group fade", st.Elements["b"].Brightness, 0.5)
}

func TestEvaluatorGroupOpenMemberWins(t *testing.T) {
	// The last fill has no lookahead trigger; as a group member it keeps the
	// whole group lit forever.
	steps := []scene.Step{fill("a"), fill("b"), fill("c"), fill("d"), fill("e"), fill("f")}
	steps[0].Group = "wave"
	steps[5].Group = "wave"
	s := chainScene(steps...)
	e := NewEvaluator(&s, 30)

	approx(t, "a never fades", frameAt(t, e, 500).Elements["a"].Brightness, 1)
}

// =============================================================================
// dimBox
// =============================================================================

func TestEvaluatorDimBoxOverride(t *testing.T) {
	// The dimBox forces a's earlier fill to fade at the dimBox's start,
	// ramping across the dimBox's own duration. b is untouched.
	s := chainScene(
		fill("a"), fill("b"),
		scene.Step{Kind: scene.StepDimBox, Node: "a"},
	)
	e := NewEvaluator(&s, 30)

	approx(t, "a lit before dim", frameAt(t, e, 47).Elements["a"].Brightness, 1)
	approx(t, "a mid dim", frameAt(t, e, 60).Elements["a"].Brightness, 0.5)
	approx(t, "a dimmed", frameAt(t, e, 72).Elements["a"].Brightness, 0)
	approx(t, "b unaffected", frameAt(t, e, 72).Elements["b"].Brightness, 1)
}

func TestEvaluatorDimBoxTriggerClamp(t *testing.T) {
	// A dimBox starting exactly at the fill's fade-in end would produce a
	// degenerate envelope; the trigger clamps one frame later so the fill
	// still reaches full brightness.
	s := chainScene(
		scene.Step{Kind: scene.StepFillBox, Node: "a", Duration: 2.0},
		scene.Step{Kind: scene.StepDimBox, Node: "a"},
	)
	e := NewEvaluator(&s, 30)

	approx(t, "full at fade-in end", frameAt(t, e, 60).Elements["a"].Brightness, 1)
	approx(t, "still full at clamp", frameAt(t, e, 61).Elements["a"].Brightness, 1)
	approx(t, "dimmed", frameAt(t, e, 85).Elements["a"].Brightness, 0)
}

// =============================================================================
// Bookends
// =============================================================================

func bookendScene() scene.Scene {
	s := chainScene(fill("a"))
	s.Timeline = []scene.Phase{
		{Kind: scene.PhaseDim},
		{Kind: scene.PhaseSequence, Steps: []scene.Step{fill("a")}},
		{Kind: scene.PhaseHold},
		{Kind: scene.PhaseReveal},
	}
	return s
}

func TestEvaluatorFloor(t *testing.T) {
	// dim 0..30, fill 30..54, hold 54..84, reveal 84..114.
	s := bookendScene()
	e := NewEvaluator(&s, 30)

	tests := []struct {
		name  string
		frame int
		want  float64
	}{
		{name: "during dim", frame: 10, want: 1},
		{name: "dim end drops floor", frame: 30, want: 0},
		{name: "interior", frame: 60, want: 0},
		{name: "mid reveal", frame: 99, want: 0.5},
		{name: "after reveal", frame: 114, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approx(t, "Floor", frameAt(t, e, tt.frame).Floor, tt.want)
		})
	}

	// The floor lifts every element: a is fully bright during the dim hold
	// even though its own envelope has not started.
	st := frameAt(t, e, 10)
	approx(t, "a floored brightness", st.Elements["a"].Brightness, 1)
	approx(t, "a floored draw", st.Elements["a"].DrawProgress, 1)
	approx(t, "indicator hidden under floor", st.IndicatorOpacity, 0)
}

func TestEvaluatorFloorWithoutDimCutsAtFirstStep(t *testing.T) {
	s := chainScene(fill("a"))
	s.Timeline = append([]scene.Phase{{Kind: scene.PhaseHold}}, s.Timeline...)
	e := NewEvaluator(&s, 30)

	// Leading hold: everything visible until the first step-sourced event.
	approx(t, "during hold", frameAt(t, e, 15).Floor, 1)
	approx(t, "at first step", frameAt(t, e, 30).Floor, 0)
}

func TestEvaluatorGlobalOpacity(t *testing.T) {
	s := bookendScene()
	e := NewEvaluator(&s, 30)

	approx(t, "dim start", frameAt(t, e, 0).GlobalOpacity, 1)
	approx(t, "mid dim", frameAt(t, e, 15).GlobalOpacity, 0.5)
	// Snaps back to opaque the moment the next event begins.
	approx(t, "after dim", frameAt(t, e, 30).GlobalOpacity, 1)
	approx(t, "interior", frameAt(t, e, 60).GlobalOpacity, 1)
}

// =============================================================================
// Containers
// =============================================================================

func TestEvaluatorContainerWakesWithMembers(t *testing.T) {
	s := scene.Scene{
		Grid: scene.GridSpec{Rows: 1, Cols: 2, Width: 800, Height: 600},
		Containers: []scene.ContainerSpec{
			{ID: "pool", Row: 0, ColStart: 0, ColEnd: 1, Slots: 2},
		},
		Nodes: []scene.NodeSpec{
			{ID: "w0", Container: "pool", Slot: intPtr(0)},
			{ID: "w1", Container: "pool", Slot: intPtr(1)},
		},
		Timeline: []scene.Phase{
			{Kind: scene.PhaseSequence, Steps: []scene.Step{fill("w0")}},
		},
	}
	e := NewEvaluator(&s, 30)

	st := frameAt(t, e, 24)
	approx(t, "member brightness", st.Elements["w0"].Brightness, 1)
	approx(t, "container follows member", st.Elements["pool"].Brightness, 1)
	approx(t, "other member stays dark", st.Elements["w1"].Brightness, 0)

	approx(t, "dark container opacity", frameAt(t, e, 0).Elements["pool"].Opacity, 0.18)
}

// =============================================================================
// Step Indicator
// =============================================================================

func TestEvaluatorStepIndicator(t *testing.T) {
	steps := []scene.Step{fill("a"), fill("b"), fill("c")}
	steps[0].Label = &scene.StepLabel{Ordinal: 1, Text: "First"}
	steps[1].Label = &scene.StepLabel{Ordinal: 2, Text: "Second"}
	s := chainScene(steps...)
	e := NewEvaluator(&s, 30)

	st := frameAt(t, e, 10)
	if st.Step == nil || st.Step.Ordinal != 1 {
		t.Fatalf("Step at frame 10 = %+v, want ordinal 1", st.Step)
	}
	approx(t, "step progress", st.Step.Progress, 10.0/24)
	if st.StepCount != 2 {
		t.Errorf("StepCount = %d, want 2", st.StepCount)
	}

	// The latest label at or before the frame wins, including through the
	// unlabeled third fill.
	for _, frame := range []int{30, 60} {
		st = frameAt(t, e, frame)
		if st.Step == nil || st.Step.Ordinal != 2 {
			t.Errorf("Step at frame %d = %+v, want ordinal 2", frame, st.Step)
		}
	}

	// Indicator fades over the fixed window ending at the settlement
	// instant: lastAnimEnd 72 + 15 grace = 87, window [57, 87].
	approx(t, "indicator visible", frameAt(t, e, 40).IndicatorOpacity, 1)
	approx(t, "indicator mid fade", frameAt(t, e, 72).IndicatorOpacity, 0.5)
	approx(t, "indicator gone", frameAt(t, e, 87).IndicatorOpacity, 0)
}

// =============================================================================
// Determinism
// =============================================================================

func TestEvaluatorFrameIsPure(t *testing.T) {
	s := chainScene(fill("a"), fill("b"), fill("c"))
	e := NewEvaluator(&s, 30)

	a, b := e.Frame(37), e.Frame(37)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Frame(37) not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestEvaluatorTotalFramesMatchesFlatten(t *testing.T) {
	s := bookendScene()
	e := NewEvaluator(&s, 30)
	if got, want := e.TotalFrames(), TotalFrames(s.Timeline, 30); got != want {
		t.Errorf("TotalFrames() = %d, want %d", got, want)
	}
}
