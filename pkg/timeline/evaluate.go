package timeline

import (
	"math"

	"github.com/flowmotion/flowmotion/pkg/scene"
)

// =============================================================================
// Evaluator
// =============================================================================

// envelope is the precomputed brightness lifecycle of one animation event:
// linear fade-in over [start, fadeInEnd], hold at 1, and (when hasFade)
// linear fade-out over [trigger, trigger+fadeLen]. trigger is always
// strictly after fadeInEnd.
type envelope struct {
	start     int
	fadeInEnd int
	hasFade   bool
	trigger   int
	fadeLen   int
}

// Evaluator computes per-frame animation state for a fixed scene and frame
// rate. All fields are immutable after construction; Frame may be called
// concurrently and returns identical output for identical frames.
type Evaluator struct {
	fps    float64
	events []Event
	elems  Elements

	bright map[string][]envelope // element id → brightness envelopes
	draw   map[string][][2]int   // element id → draw-in ramps [start, end)

	stepIdx   []int // indices of label-bearing events, in start order
	stepCount int

	dimIdx            int // index of the dim phase event, -1 if absent
	revealIdx         int // index of the reveal phase event, -1 if absent
	nextAfterDimStart int // start of the event following the dim phase
	firstSeqStart     int // start of the first step-sourced event

	hasAnim       bool
	settleStart   int
	settleRamp    int
	indicatorFade int
}

// NewEvaluator flattens the scene's timeline and precomputes every envelope
// for the given frame rate.
func NewEvaluator(s *scene.Scene, fps float64) *Evaluator {
	return newEvaluator(ElementsFromScene(s), Flatten(s.Timeline, fps), fps)
}

func newEvaluator(elems Elements, events []Event, fps float64) *Evaluator {
	e := &Evaluator{
		fps:               fps,
		events:            events,
		elems:             elems,
		bright:            make(map[string][]envelope),
		draw:              make(map[string][][2]int),
		dimIdx:            -1,
		revealIdx:         -1,
		nextAfterDimStart: math.MaxInt,
		firstSeqStart:     math.MaxInt,
	}
	e.prepare()
	return e
}

// Events returns the flattened event list (for inspection and debugging).
func (e *Evaluator) Events() []Event { return e.events }

// TotalFrames returns the timeline extent in frames.
func (e *Evaluator) TotalFrames() int {
	total := 0
	for _, ev := range e.events {
		if end := ev.End(); end > total {
			total = end
		}
	}
	return total
}

// prepare builds the lookahead fade-out triggers (with the two-pass group
// synchronization), the dimBox overrides, and the bookend markers.
func (e *Evaluator) prepare() {
	fadeOut := Frames(FadeOutSec, e.fps)

	// Animation-only event list: the index space the lookahead rule runs in.
	var anim []int
	for i, ev := range e.events {
		if ev.Action.IsAnimation() {
			anim = append(anim, i)
		}
		if ev.FromPhase {
			switch ev.Action {
			case ActionDim:
				if e.dimIdx < 0 {
					e.dimIdx = i
					if i+1 < len(e.events) {
						e.nextAfterDimStart = e.events[i+1].Start
					}
				}
			case ActionReveal:
				if e.revealIdx < 0 {
					e.revealIdx = i
				}
			}
		} else if ev.Start < e.firstSeqStart {
			e.firstSeqStart = ev.Start
		}
		if ev.Label != nil {
			e.stepIdx = append(e.stepIdx, i)
		}
	}
	e.stepCount = len(e.stepIdx)

	// First pass: each event's own lookahead trigger. Line draws look two
	// events ahead, everything else three.
	type trig struct {
		has     bool
		frame   int
		fadeLen int
	}
	triggers := make([]trig, len(anim))
	for p, idx := range anim {
		n := 3
		if e.events[idx].Action == ActionDrawLine {
			n = 2
		}
		if p+n < len(anim) {
			triggers[p] = trig{has: true, frame: e.events[anim[p+n]].End(), fadeLen: fadeOut}
		}
	}

	// Group pass: members adopt the group's latest trigger; a member with no
	// fade-out is the most generous of all and wins for the whole group.
	type groupInfo struct {
		open bool // some member never fades out
		max  int
	}
	groups := make(map[string]*groupInfo)
	for p, idx := range anim {
		g := e.events[idx].Group
		if g == "" {
			continue
		}
		gi := groups[g]
		if gi == nil {
			gi = &groupInfo{}
			groups[g] = gi
		}
		if !triggers[p].has {
			gi.open = true
		} else if triggers[p].frame > gi.max {
			gi.max = triggers[p].frame
		}
	}
	for p, idx := range anim {
		g := e.events[idx].Group
		if g == "" {
			continue
		}
		if gi := groups[g]; gi.open {
			triggers[p] = trig{}
		} else {
			triggers[p] = trig{has: true, frame: gi.max, fadeLen: fadeOut}
		}
	}

	// dimBox overrides: a dimBox on X forces fade-out of X's earlier
	// envelopes at the dimBox's own start, ramping across its duration.
	for _, di := range anim {
		dim := e.events[di]
		if dim.Action != ActionDimBox {
			continue
		}
		for p, idx := range anim {
			ev := e.events[idx]
			if ev.Action == ActionDimBox || ev.Target != dim.Target || ev.Start >= dim.Start {
				continue
			}
			if !triggers[p].has || triggers[p].frame > dim.Start {
				triggers[p] = trig{has: true, frame: dim.Start, fadeLen: dim.Duration}
			}
		}
	}

	// Materialize envelopes and draw ramps.
	for p, idx := range anim {
		ev := e.events[idx]
		if ev.Action == ActionDimBox {
			continue
		}
		env := envelope{
			start:     ev.Start,
			fadeInEnd: ev.End(),
			hasFade:   triggers[p].has,
			trigger:   triggers[p].frame,
			fadeLen:   triggers[p].fadeLen,
		}
		// Degenerate trigger at or before fade-in end: clamp one frame
		// after so the breakpoints stay strictly increasing.
		if env.hasFade && env.trigger <= env.fadeInEnd {
			env.trigger = env.fadeInEnd + 1
		}
		e.bright[ev.Target] = append(e.bright[ev.Target], env)
		e.draw[ev.Target] = append(e.draw[ev.Target], [2]int{ev.Start, ev.End()})
	}

	// Connection settlement: after the last animation event plus a grace
	// interval, every connection ramps to fully drawn.
	lastAnimEnd := 0
	for _, idx := range anim {
		if end := e.events[idx].End(); end > lastAnimEnd {
			lastAnimEnd = end
		}
	}
	e.hasAnim = len(anim) > 0
	e.settleStart = lastAnimEnd + Frames(SettleGraceSec, e.fps)
	e.settleRamp = Frames(DefaultLineSec, e.fps)
	e.indicatorFade = Frames(IndicatorFadeSec, e.fps)
}

// =============================================================================
// Per-Frame Evaluation
// =============================================================================

// Frame returns the complete animation state at the queried frame, or nil in
// still-image mode (frame rate <= 1 or an empty timeline). The result is a
// pure function of (scene, frame, fps).
func (e *Evaluator) Frame(frame int) *FrameState {
	if e.fps <= 1 || len(e.events) == 0 {
		return nil
	}

	floor := e.floorAt(frame)
	st := &FrameState{
		Frame:         frame,
		Elements:      make(map[string]ElementState, len(e.elems.Nodes)+len(e.elems.Containers)+len(e.elems.Connections)),
		Floor:         floor,
		GlobalOpacity: e.globalOpacityAt(frame),
		StepCount:     e.stepCount,
	}

	nodeBright := make(map[string]float64, len(e.elems.Nodes))
	for _, id := range e.elems.Nodes {
		b := e.brightnessAt(id, frame)
		nodeBright[id] = b
		st.Elements[id] = e.elementState(b, e.drawAt(id, frame), floor, nodeDimFloor)
	}

	for _, c := range e.elems.Containers {
		b := e.brightnessAt(c.ID, frame)
		// Containers wake up with their contents.
		for _, m := range c.Members {
			if nodeBright[m] > b {
				b = nodeBright[m]
			}
		}
		st.Elements[c.ID] = e.elementState(b, e.drawAt(c.ID, frame), floor, containerDimFloor)
	}

	settle := 0.0
	if e.hasAnim {
		settle = ramp(frame, e.settleStart, e.settleStart+e.settleRamp)
	}
	for _, id := range e.elems.Connections {
		b := math.Max(e.brightnessAt(id, frame), settle)
		d := math.Max(e.drawAt(id, frame), settle)
		st.Elements[id] = e.elementState(b, d, floor, lineDimFloor)
	}

	e.fillStepIndicator(st, frame, floor)
	return st
}

func (e *Evaluator) elementState(bright, draw, floor, dimFloor float64) ElementState {
	b := math.Max(bright, floor)
	return ElementState{
		Brightness:   b,
		DrawProgress: math.Max(draw, floor),
		Opacity:      opacityFor(b, dimFloor),
	}
}

// floorAt computes the global brightness/draw minimum. With a dim phase the
// floor holds at 1 until the dim completes, then drops to 0; without one it
// holds through the leading phase events and cuts hard at the first
// step-sourced event. A reveal phase ramps it back to 1 and keeps it there.
func (e *Evaluator) floorAt(frame int) float64 {
	floor := 1.0
	if e.dimIdx >= 0 {
		if frame >= e.events[e.dimIdx].End() {
			floor = 0
		}
	} else if frame >= e.firstSeqStart {
		floor = 0
	}

	if e.revealIdx >= 0 {
		rev := e.events[e.revealIdx]
		floor = math.Max(floor, ramp(frame, rev.Start, rev.End()))
	}
	return floor
}

// globalOpacityAt ramps the whole canvas to transparent across the dim
// phase, then snaps back to opaque the moment the event following the dim
// phase begins. The dim is a transition cue, not a sustained dim.
func (e *Evaluator) globalOpacityAt(frame int) float64 {
	if e.dimIdx < 0 || frame >= e.nextAfterDimStart {
		return 1
	}
	dim := e.events[e.dimIdx]
	return 1 - ramp(frame, dim.Start, dim.End())
}

// brightnessAt is the element's raw envelope value, before the floor.
func (e *Evaluator) brightnessAt(id string, frame int) float64 {
	best := 0.0
	for _, env := range e.bright[id] {
		up := ramp(frame, env.start, env.fadeInEnd)
		v := up
		if env.hasFade {
			down := 1 - ramp(frame, env.trigger, env.trigger+env.fadeLen)
			v = math.Min(up, down)
		}
		if v > best {
			best = v
		}
	}
	return best
}

// drawAt is the element's raw draw progress: the fade-in ramp only, with no
// fade-out, so an element never undraws.
func (e *Evaluator) drawAt(id string, frame int) float64 {
	best := 0.0
	for _, r := range e.draw[id] {
		if v := ramp(frame, r[0], r[1]); v > best {
			best = v
		}
	}
	return best
}

// fillStepIndicator sets the active step label plus the indicator's own
// opacity: hidden outright while the floor is active, otherwise fading out
// over a fixed window that ends at the settlement instant.
func (e *Evaluator) fillStepIndicator(st *FrameState, frame int, floor float64) {
	for _, idx := range e.stepIdx {
		ev := e.events[idx]
		if ev.Start > frame {
			break
		}
		st.Step = &StepState{
			Ordinal:  ev.Label.Ordinal,
			Text:     ev.Label.Text,
			Progress: ramp(frame, ev.Start, ev.End()),
		}
	}

	if floor > 0 || !e.hasAnim {
		st.IndicatorOpacity = 0
		return
	}
	st.IndicatorOpacity = 1 - ramp(frame, e.settleStart-e.indicatorFade, e.settleStart)
}

// ramp is the linear 0-1 interpolation of frame across [a, b].
func ramp(frame, a, b int) float64 {
	if frame <= a {
		return 0
	}
	if frame >= b {
		return 1
	}
	return float64(frame-a) / float64(b-a)
}
