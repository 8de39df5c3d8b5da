package timeline

import (
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// Flatten converts the nested phase/step tree into a flat, time-ordered
// event list. A single frame cursor advances through sequential phases and
// steps; parallel steps recurse with a saved cursor so every child starts at
// the same frame, then advance by the longest child's extent.
func Flatten(phases []scene.Phase, fps float64) []Event {
	var events []Event
	cursor := 0

	for _, p := range phases {
		switch p.Kind {
		case scene.PhaseSequence:
			for i := range p.Steps {
				cursor = flattenStep(&p.Steps[i], cursor, "", fps, &events)
			}
		default:
			dur := Frames(orDefault(p.Duration, defaultPhaseSec(p.Kind)), fps)
			events = append(events, Event{
				Action:    Action(p.Kind),
				FromPhase: true,
				Start:     cursor,
				Duration:  dur,
			})
			cursor += dur
		}
	}
	return events
}

// flattenStep appends the events for one step starting at cursor and returns
// the advanced cursor. Children of a parallel inherit its group unless they
// carry their own.
func flattenStep(st *scene.Step, cursor int, group string, fps float64, out *[]Event) int {
	g := st.Group
	if g == "" {
		g = group
	}

	if st.Kind == scene.StepParallel {
		maxEnd := cursor
		for i := range st.Children {
			if end := flattenStep(&st.Children[i], cursor, g, fps, out); end > maxEnd {
				maxEnd = end
			}
		}
		return maxEnd
	}

	dur := Frames(orDefault(st.Duration, defaultStepSec(st.Kind)), fps)
	*out = append(*out, Event{
		Action:   Action(st.Kind),
		Target:   st.Target(),
		Start:    cursor,
		Duration: dur,
		Label:    st.Label,
		Group:    g,
	})
	return cursor + dur
}

// TotalFrames returns the total timeline extent in frames: the maximum
// (start + duration) over the flattened events. It shares the flattening
// logic with Flatten so the two can never disagree.
func TotalFrames(phases []scene.Phase, fps float64) int {
	total := 0
	for _, e := range Flatten(phases, fps) {
		if end := e.End(); end > total {
			total = end
		}
	}
	return total
}

func orDefault(sec, def float64) float64 {
	if sec > 0 {
		return sec
	}
	return def
}
