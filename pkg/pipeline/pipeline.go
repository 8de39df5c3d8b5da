// Package pipeline provides the core scene-processing pipeline for
// Flowmotion.
//
// This package implements the complete validate → resolve → evaluate
// pipeline used by the CLI and the API server. Centralizing it ensures both
// entry points share caching, logging, and defaults.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: structural and cross-reference checks on the scene
//  2. Resolve: compute absolute geometry for every element
//  3. Evaluate: compute per-element animation state at one queried frame
//
// Each stage can be run independently or as part of the complete pipeline.
// Resolved geometry and evaluated frames are cached under the scene's
// content hash, so a changed scene can never hit a stale entry.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	s, err := scene.ReadSceneFile("scene.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, s, pipeline.Options{Frame: 42, FPS: 30})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	state := result.Frame // nil in still-image mode
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowmotion/flowmotion/pkg/geometry"
	"github.com/flowmotion/flowmotion/pkg/timeline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFPS is the frame rate assumed when none is supplied.
	DefaultFPS = 30.0

	// StillFPS signals still-image mode: the evaluator short-circuits and
	// callers render everything fully lit and fully drawn.
	StillFPS = 1.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Frame is the queried frame index.
	Frame int `json:"frame,omitempty"`

	// FPS is the frame rate; values <= 1 select still-image mode.
	FPS float64 `json:"fps,omitempty"`

	// Refresh bypasses the cache for this run (results are still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks option fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Frame < 0 {
		return fmt.Errorf("frame must be >= 0 (got %d)", o.Frame)
	}
	if o.FPS < 0 {
		return fmt.Errorf("fps must be positive (got %g)", o.FPS)
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Still reports whether the options select still-image mode.
func (o *Options) Still() bool { return o.FPS <= StillFPS }

// =============================================================================
// Result Types
// =============================================================================

// Result contains the outputs of a pipeline run.
// This struct supports JSON serialization for API responses.
type Result struct {
	// SceneHash is the content hash of the scene document.
	SceneHash string `json:"scene_hash"`

	// Diagram is the resolved geometry.
	Diagram *geometry.Diagram `json:"diagram"`

	// Frame is the evaluated animation state at Options.Frame.
	// Nil in still-image mode.
	Frame *timeline.FrameState `json:"frame"`

	// TotalFrames is the timeline extent at Options.FPS.
	TotalFrames int `json:"total_frames"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int `json:"node_count"`
	ContainerCount  int `json:"container_count"`
	ConnectionCount int `json:"connection_count"`
	EventCount      int `json:"event_count"`

	ValidateTime time.Duration `json:"validate_time"`
	ResolveTime  time.Duration `json:"resolve_time"`
	EvaluateTime time.Duration `json:"evaluate_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"` // Whether resolved geometry came from cache
	FrameHit  bool `json:"frame_hit"`  // Whether the frame state came from cache
}
