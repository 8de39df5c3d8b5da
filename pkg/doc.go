// Package pkg provides the core libraries for Flowmotion diagram animation.
//
// # Overview
//
// Flowmotion turns declarative scene documents into animated architecture
// diagrams: a grid of nodes, grouping containers, and routed connections,
// plus a timeline that lights the diagram up step by step. The pkg directory
// is organized into four main areas:
//
//  1. [scene] - The declarative document model (parsing, schema, validation)
//  2. [geometry] - The geometry resolver (grid layout, connection routing)
//  3. [timeline] - The timeline engine (flattening, per-frame evaluation)
//  4. [pipeline] - Orchestration (validate → resolve → evaluate, with caching)
//
// Supporting packages: [cache] (file/Redis result caches), [store] (scene
// persistence), [render] (static exports), [errors], and [observability].
//
// # Architecture
//
// The typical data flow through Flowmotion:
//
//	Scene JSON document
//	         ↓
//	    [scene] package (schema + reference validation)
//	         ↓
//	    [geometry] package (pixel coordinates + routed polylines)
//	         ↓
//	    [timeline] package (flattened events + per-frame state)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
//	s, err := scene.ReadSceneFile("scene.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, s, pipeline.Options{Frame: 42, FPS: 30})
package pkg
