// Package timeline flattens a scene's nested phase/step tree into absolute
// frame intervals and evaluates per-element animation state at arbitrary
// frames.
//
// # Overview
//
// The package has two halves:
//
//   - [Flatten] walks the nested timeline once with a single advancing frame
//     cursor, producing a flat, time-ordered event list. Parallel steps
//     snapshot the cursor, start every child at the same frame, and advance
//     by the longest child.
//   - [Evaluator] turns the flat event list plus a queried frame into a
//     complete [FrameState]: a brightness/draw-progress/opacity triple for
//     every node, container, and connection, global floor and opacity
//     scalars, and the step indicator state.
//
// Evaluation is a pure function of (scene, frame, fps): the evaluator holds
// only immutable precomputed tables, never per-frame state, so frames may be
// queried in any order, repeatedly, or in parallel.
//
// # Envelope Model
//
// Each fillBox/drawLine/showContainer event contributes a 0-1 envelope:
// linear fade-in across the event's own duration, a hold, and a fixed-length
// fade-out whose start is found by looking ahead in the animation-only event
// list (two events ahead for line draws, three for everything else). Events
// sharing a synchronization group adopt the group's most generous fade-out
// trigger, computed in a first pass, so related elements dim in unison.
// Draw progress uses the fade-in ramp only and never retracts.
//
// # Bookends
//
// Leading hold/dim/reveal phases impose a global floor: while the floor is 1
// every element renders fully lit and fully drawn regardless of per-event
// envelopes. A dim phase ramps a separate global opacity to zero as a
// transition cue; a reveal phase ramps the floor back to 1 and keeps it
// there.
package timeline
