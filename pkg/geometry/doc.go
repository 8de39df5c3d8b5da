// Package geometry resolves a declarative scene into absolute canvas
// coordinates: rectangles for nodes and containers, and routed polyline
// paths for connections.
//
// # Overview
//
// Resolution is a pure, deterministic function of the scene with no
// dependency on time or animation state. It proceeds in three ordered
// passes:
//
//  1. Containers: outer-grid cell ranges become footprint rectangles with
//     an inner single-row grid of equal-width slots.
//  2. Nodes: each node's center and size follow its placement mode (outer
//     grid cell, container slot, or alignment to a container slot).
//  3. Connections: exit/entry edges come from the connection's explicit edge
//     fields or are inferred from the dominant axis delta between the
//     resolved endpoint centers, then
//     routed as straight lines or orthogonal midpoint jogs. Manual waypoints
//     always win and are spliced verbatim between the two anchors.
//
// # Coordinate System
//
// The origin is the canvas top-left; x grows rightward, y grows downward.
// The canvas is padded, then the header, step-indicator, and footer strips
// (fractions of total height) are reserved top and bottom; the grid divides
// the remaining rectangle into uniform cells.
//
// # Identity
//
// Connection geometry is keyed by [scene.ConnectionSpec.Key], the same
// identity the timeline evaluator uses, so animation state and geometry
// join byte-identically.
package geometry
