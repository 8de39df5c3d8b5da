// Package scene defines the declarative configuration schema for Flowmotion
// diagrams: a fixed-size grid, nodes, containers, connections, and a nested
// timeline of reveal/highlight phases.
//
// # Overview
//
// A Scene is a plain structured document (JSON-compatible) describing WHAT a
// diagram contains and in which order its elements animate. It carries no
// pixel coordinates and no per-frame state; those are computed downstream by
// the geometry and timeline packages. Scenes are immutable after
// construction: every downstream computation is a pure function of the scene.
//
// # Document Format
//
//	{
//	  "grid": {"rows": 1, "cols": 3, "width": 1920, "height": 1080},
//	  "nodes": [
//	    {"id": "client", "row": 0, "col": 0},
//	    {"id": "api", "row": 0, "col": 1},
//	    {"id": "db", "row": 0, "col": 2}
//	  ],
//	  "connections": [
//	    {"from": {"node": "client"}, "to": {"node": "api"}}
//	  ],
//	  "timeline": [
//	    {"kind": "hold", "duration": 1.0},
//	    {"kind": "sequence", "steps": [
//	      {"kind": "fillBox", "node": "client", "label": {"ordinal": 1, "text": "Request"}},
//	      {"kind": "drawLine", "connection": "client->api"}
//	    ]}
//	  ]
//	}
//
// # Placement Modes
//
// A node is placed in exactly one of three ways, determined by which fields
// are present:
//
//   - Outer grid: "row" and "col" (optionally "row_span"/"col_span")
//   - Inside a container: "container" and "slot" (inner column index)
//   - Aligned to a container column: "align_container", "align_slot", and
//     "row" (x comes from the inner column, y from the node's own row)
//
// # Validation
//
// [Scene.Validate] checks structural invariants (grid dimensions, reservation
// fractions, placement exclusivity) and every cross-reference: a connection or
// timeline step naming an unknown node, container, or connection is a fatal
// configuration error, never silently dropped. [ValidateDocument] additionally
// checks raw JSON against an embedded JSON Schema before decoding.
package scene
